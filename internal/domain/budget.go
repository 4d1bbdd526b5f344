package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrNegativeLimit indicates a stored limit below zero.
	ErrNegativeLimit = errors.New("limit is negative")
	// ErrNegativeCost indicates a trip or estimate with a cost below zero.
	ErrNegativeCost = errors.New("cost is negative")
)

var (
	hundred       = decimal.NewFromInt(100)
	warnFraction  = decimal.RequireFromString("0.9")
	nearlyPercent = decimal.NewFromInt(90)
	watchPercent  = decimal.NewFromInt(75)
)

// BudgetStatus is the derived monthly view of a profile's spend against its limit.
type BudgetStatus struct {
	MonthlyUsage    decimal.Decimal
	Limit           decimal.Decimal
	UsagePercentage decimal.Decimal
	RemainingBudget decimal.Decimal
	IsOverBudget    bool
	Alerts          []string
}

// ComputeStatus derives the status fields from a usage total and a limit.
// Alerts are left empty; see AlertFormatter.
func ComputeStatus(usage, limit decimal.Decimal) (BudgetStatus, error) {
	if limit.IsNegative() {
		return BudgetStatus{}, ErrNegativeLimit
	}
	if usage.IsNegative() {
		return BudgetStatus{}, ErrNegativeCost
	}
	return BudgetStatus{
		MonthlyUsage:    usage,
		Limit:           limit,
		UsagePercentage: percentOf(usage, limit),
		RemainingBudget: limit.Sub(usage),
		IsOverBudget:    usage.GreaterThan(limit),
		Alerts:          []string{},
	}, nil
}

// SumCosts totals trip costs, rejecting any negative entry.
func SumCosts(trips []TripRecord) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, t := range trips {
		if t.Cost.IsNegative() {
			return decimal.Zero, fmt.Errorf("trip %s: %w", t.ID, ErrNegativeCost)
		}
		total = total.Add(t.Cost)
	}
	return total, nil
}

// percentOf returns part/whole*100, or zero when whole is zero.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole)
}

type DecisionKind string

const (
	DecisionAllow DecisionKind = "allow"
	DecisionWarn  DecisionKind = "warn"
	DecisionBlock DecisionKind = "block"
)

// Decision classifies a prospective expense. It never enforces anything.
type Decision struct {
	Kind     DecisionKind
	NewTotal decimal.Decimal
	// Percentage is set for Warn.
	Percentage decimal.Decimal
	// Overage is set for Block.
	Overage decimal.Decimal
}

// CheckBudget classifies an estimated cost against the current status.
func CheckBudget(status BudgetStatus, estimatedCost decimal.Decimal) (Decision, error) {
	if estimatedCost.IsNegative() {
		return Decision{}, ErrNegativeCost
	}
	newTotal := status.MonthlyUsage.Add(estimatedCost)
	switch {
	case newTotal.GreaterThan(status.Limit):
		return Decision{Kind: DecisionBlock, NewTotal: newTotal, Overage: newTotal.Sub(status.Limit)}, nil
	case newTotal.GreaterThan(status.Limit.Mul(warnFraction)):
		return Decision{Kind: DecisionWarn, NewTotal: newTotal, Percentage: percentOf(newTotal, status.Limit)}, nil
	default:
		return Decision{Kind: DecisionAllow, NewTotal: newTotal}, nil
	}
}

// AlertFormatter renders human-readable budget alerts.
type AlertFormatter struct {
	CurrencySymbol string
}

func NewAlertFormatter(symbol string) AlertFormatter {
	return AlertFormatter{CurrencySymbol: symbol}
}

// Alerts returns at most one message, highest priority first.
func (f AlertFormatter) Alerts(s BudgetStatus) []string {
	switch {
	case s.IsOverBudget:
		return []string{fmt.Sprintf("Budget exceeded by %s", f.Money(s.RemainingBudget.Abs()))}
	case s.UsagePercentage.GreaterThanOrEqual(nearlyPercent):
		return []string{fmt.Sprintf("Budget at %s%% - nearly exceeded", s.UsagePercentage.Round(0).String())}
	case s.UsagePercentage.GreaterThanOrEqual(watchPercent):
		return []string{fmt.Sprintf("Budget at %s%% - monitor spending", s.UsagePercentage.Round(0).String())}
	default:
		return []string{}
	}
}

// Money renders an amount with the currency prefix and two decimals.
func (f AlertFormatter) Money(d decimal.Decimal) string {
	return f.CurrencySymbol + d.StringFixed(2)
}

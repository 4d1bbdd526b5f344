package httpapi

import (
	"time"

	"github.com/oapi-codegen/nullable"
	"github.com/shopspring/decimal"

	"github.com/innocentmk82/efecosall-sub001/internal/app/budget"
	"github.com/innocentmk82/efecosall-sub001/internal/app/profiles"
	"github.com/innocentmk82/efecosall-sub001/internal/domain"
)

// Money and percentages go over the wire as strings with two decimals.

type Profile struct {
	ID               string  `json:"id"`
	Role             string  `json:"role"`
	DisplayName      string  `json:"displayName"`
	PersonalBudget   *string `json:"personalBudget,omitempty"`
	BusinessGroupID  *string `json:"businessGroupId,omitempty"`
	MonthlyFuelLimit *string `json:"monthlyFuelLimit,omitempty"`
}

type ProfileResponse struct {
	Profile Profile `json:"profile"`
}

type CreateProfileRequest struct {
	DisplayName     string           `json:"displayName"`
	Role            string           `json:"role"`
	PersonalBudget  *decimal.Decimal `json:"personalBudget,omitempty"`
	BusinessGroupID *string          `json:"businessGroupId,omitempty"`
}

type UpdateProfileRequest struct {
	DisplayName    nullable.Nullable[string]          `json:"displayName,omitempty"`
	PersonalBudget nullable.Nullable[decimal.Decimal] `json:"personalBudget,omitempty"`
}

type Trip struct {
	ID              string     `json:"id"`
	OwnerID         string     `json:"ownerId"`
	BusinessGroupID *string    `json:"businessGroupId,omitempty"`
	VehicleLabel    *string    `json:"vehicleLabel,omitempty"`
	StartTime       time.Time  `json:"startTime"`
	EndTime         *time.Time `json:"endTime,omitempty"`
	DistanceKm      *string    `json:"distanceKm,omitempty"`
	FuelLiters      *string    `json:"fuelLiters,omitempty"`
	Cost            string     `json:"cost"`
	CreatedAt       time.Time  `json:"createdAt"`
}

type TripResponse struct {
	Trip Trip `json:"trip"`
}

type TripListResponse struct {
	Trips []Trip `json:"trips"`
}

type RecordTripRequest struct {
	VehicleLabel *string          `json:"vehicleLabel,omitempty"`
	StartTime    *time.Time       `json:"startTime,omitempty"`
	EndTime      *time.Time       `json:"endTime,omitempty"`
	DistanceKm   *decimal.Decimal `json:"distanceKm,omitempty"`
	FuelLiters   *decimal.Decimal `json:"fuelLiters,omitempty"`
	Cost         *decimal.Decimal `json:"cost,omitempty"`
}

type BudgetUsageResponse struct {
	MonthlyUsage string `json:"monthlyUsage"`
}

type BudgetStatus struct {
	MonthlyUsage    string   `json:"monthlyUsage"`
	Limit           string   `json:"limit"`
	UsagePercentage string   `json:"usagePercentage"`
	RemainingBudget string   `json:"remainingBudget"`
	IsOverBudget    bool     `json:"isOverBudget"`
	Alerts          []string `json:"alerts"`
}

type BudgetAlertsResponse struct {
	Alerts []string `json:"alerts"`
}

type BudgetCheckRequest struct {
	EstimatedCost *decimal.Decimal `json:"estimatedCost,omitempty"`
}

type BudgetDecision struct {
	Decision   string  `json:"decision"`
	NewTotal   string  `json:"newTotal"`
	Percentage *string `json:"percentage,omitempty"`
	Overage    *string `json:"overage,omitempty"`
}

type Group struct {
	ID                      string    `json:"id"`
	Name                    string    `json:"name"`
	OwnerID                 string    `json:"ownerId"`
	DefaultMonthlyFuelLimit string    `json:"defaultMonthlyFuelLimit"`
	CreatedAt               time.Time `json:"createdAt"`
}

type GroupResponse struct {
	Group Group `json:"group"`
}

type GroupListResponse struct {
	Groups []Group `json:"groups"`
}

type CreateGroupRequest struct {
	Name                    string           `json:"name"`
	DefaultMonthlyFuelLimit *decimal.Decimal `json:"defaultMonthlyFuelLimit,omitempty"`
}

type DriverListResponse struct {
	Drivers []Profile `json:"drivers"`
}

type SetDriverLimitRequest struct {
	MonthlyFuelLimit *decimal.Decimal `json:"monthlyFuelLimit,omitempty"`
}

type DriverBudget struct {
	Driver Profile      `json:"driver"`
	Status BudgetStatus `json:"status"`
}

type GroupBudgetResponse struct {
	GroupID     string         `json:"groupId"`
	WindowStart time.Time      `json:"windowStart"`
	WindowEnd   time.Time      `json:"windowEnd"`
	GroupUsage  string         `json:"groupUsage"`
	Drivers     []DriverBudget `json:"drivers"`
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func moneyPtr(d decimal.Decimal) *string {
	s := money(d)
	return &s
}

func quantityPtr(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func profileFromDomain(p domain.Profile) Profile {
	out := Profile{
		ID:          string(p.ProfileID()),
		Role:        string(p.Role()),
		DisplayName: domain.DisplayNameOf(p),
	}
	switch v := p.(type) {
	case domain.CitizenProfile:
		out.PersonalBudget = moneyPtr(v.PersonalBudget)
	case domain.DriverProfile:
		gid := string(v.BusinessGroupID)
		out.BusinessGroupID = &gid
		out.MonthlyFuelLimit = moneyPtr(v.MonthlyFuelLimit)
	}
	return out
}

func tripFromDomain(t domain.TripRecord) Trip {
	out := Trip{
		ID:           string(t.ID),
		OwnerID:      string(t.OwnerID),
		VehicleLabel: t.VehicleLabel,
		StartTime:    t.StartTime,
		EndTime:      t.EndTime,
		DistanceKm:   quantityPtr(t.DistanceKm),
		FuelLiters:   quantityPtr(t.FuelLiters),
		Cost:         money(t.Cost),
		CreatedAt:    t.CreatedAt,
	}
	if t.BusinessGroupID != nil {
		gid := string(*t.BusinessGroupID)
		out.BusinessGroupID = &gid
	}
	return out
}

func statusFromDomain(s domain.BudgetStatus) BudgetStatus {
	alerts := s.Alerts
	if alerts == nil {
		alerts = []string{}
	}
	return BudgetStatus{
		MonthlyUsage:    money(s.MonthlyUsage),
		Limit:           money(s.Limit),
		UsagePercentage: s.UsagePercentage.StringFixed(2),
		RemainingBudget: money(s.RemainingBudget),
		IsOverBudget:    s.IsOverBudget,
		Alerts:          alerts,
	}
}

func decisionFromDomain(d domain.Decision) BudgetDecision {
	out := BudgetDecision{
		Decision: string(d.Kind),
		NewTotal: money(d.NewTotal),
	}
	switch d.Kind {
	case domain.DecisionWarn:
		p := d.Percentage.StringFixed(2)
		out.Percentage = &p
	case domain.DecisionBlock:
		out.Overage = moneyPtr(d.Overage)
	}
	return out
}

func groupFromDomain(g domain.BusinessGroup) Group {
	return Group{
		ID:                      string(g.ID),
		Name:                    g.Name,
		OwnerID:                 string(g.OwnerID),
		DefaultMonthlyFuelLimit: money(g.DefaultMonthlyFuelLimit),
		CreatedAt:               g.CreatedAt,
	}
}

func groupBudgetFromDomain(o budget.GroupOverview) GroupBudgetResponse {
	drivers := make([]DriverBudget, 0, len(o.Drivers))
	for _, d := range o.Drivers {
		drivers = append(drivers, DriverBudget{
			Driver: profileFromDomain(d.Driver),
			Status: statusFromDomain(d.Status),
		})
	}
	return GroupBudgetResponse{
		GroupID:     string(o.Group.ID),
		WindowStart: o.Window.Start,
		WindowEnd:   o.Window.End,
		GroupUsage:  money(o.GroupUsage),
		Drivers:     drivers,
	}
}

func optionalFromNullable[T any](n nullable.Nullable[T]) profiles.Optional[T] {
	if !n.IsSpecified() {
		return profiles.Unspecified[T]()
	}
	if n.IsNull() {
		return profiles.Null[T]()
	}
	v, _ := n.Get()
	return profiles.Some(v)
}

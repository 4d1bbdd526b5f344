package budget

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/innocentmk82/efecosall-sub001/internal/app/budget/metrics"
	"github.com/innocentmk82/efecosall-sub001/internal/domain"
	clockport "github.com/innocentmk82/efecosall-sub001/internal/ports/out/clock"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/grouprepo"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/profilerepo"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/triprepo"
)

// Service reconciles recorded trip costs against profile limits.
//
// Every operation reads the stores fresh; nothing is cached between calls and the
// service holds no mutable state after construction.
type Service struct {
	profiles profilerepo.Repository
	trips    triprepo.Repository
	groups   grouprepo.Repository
	clk      clockport.Clock

	loc       *time.Location
	formatter domain.AlertFormatter
	logger    *slog.Logger
	metrics   *metrics.Metrics

	overviewConcurrency int
}

type Option func(s *Service)

// WithLocation sets the time zone that defines calendar months. Default UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAlertFormatter(f domain.AlertFormatter) Option {
	return func(s *Service) {
		s.formatter = f
	}
}

// WithOverviewConcurrency bounds the per-driver fan-out of GetGroupOverview.
func WithOverviewConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.overviewConcurrency = n
		}
	}
}

func NewService(profiles profilerepo.Repository, trips triprepo.Repository, groups grouprepo.Repository, clk clockport.Clock, opts ...Option) *Service {
	s := &Service{
		profiles:            profiles,
		trips:               trips,
		groups:              groups,
		clk:                 clk,
		loc:                 time.UTC,
		formatter:           domain.NewAlertFormatter("€"),
		logger:              slog.Default(),
		overviewConcurrency: 8,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the time zone used for month windows.
func (s *Service) Location() *time.Location { return s.loc }

// GetMonthlyUsage totals the cost of the profile's trips in the calendar month containing asOf.
// A nil asOf means now.
func (s *Service) GetMonthlyUsage(ctx context.Context, id domain.ProfileID, asOf *time.Time) (decimal.Decimal, error) {
	defer s.observe("usage", time.Now())

	p, err := s.loadProfile(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return s.usageIn(ctx, p.TripScope(), s.window(asOf))
}

// GetBudgetStatus derives usage, limit, percentage, remaining budget and alerts for the
// calendar month containing asOf. A nil asOf means now.
func (s *Service) GetBudgetStatus(ctx context.Context, id domain.ProfileID, asOf *time.Time) (domain.BudgetStatus, error) {
	defer s.observe("status", time.Now())

	p, err := s.loadProfile(ctx, id)
	if err != nil {
		return domain.BudgetStatus{}, err
	}
	st, err := s.statusFor(ctx, p, s.window(asOf))
	if err != nil {
		return domain.BudgetStatus{}, err
	}
	s.metrics.IncrementStatusOutcome(outcomeOf(st))
	return st, nil
}

// GetBudgetAlerts returns the alert messages for the current month: at most one.
func (s *Service) GetBudgetAlerts(ctx context.Context, id domain.ProfileID) ([]string, error) {
	st, err := s.GetBudgetStatus(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	return st.Alerts, nil
}

// CheckBudgetBeforeAction classifies a prospective expense against the current month.
// It never blocks anything itself; the caller decides what to do with the decision.
func (s *Service) CheckBudgetBeforeAction(ctx context.Context, id domain.ProfileID, estimatedCost decimal.Decimal) (domain.Decision, error) {
	defer s.observe("check", time.Now())

	if estimatedCost.IsNegative() {
		return domain.Decision{}, validationError("invalid estimatedCost", map[string]any{"estimatedCost": "must be >= 0"})
	}
	p, err := s.loadProfile(ctx, id)
	if err != nil {
		return domain.Decision{}, err
	}
	st, err := s.statusFor(ctx, p, s.window(nil))
	if err != nil {
		return domain.Decision{}, err
	}
	d, err := domain.CheckBudget(st, estimatedCost)
	if err != nil {
		return domain.Decision{}, validationError("invalid estimatedCost", map[string]any{"estimatedCost": err.Error()})
	}
	s.metrics.IncrementDecision(string(d.Kind))
	return d, nil
}

func (s *Service) window(asOf *time.Time) domain.Window {
	if asOf != nil {
		return domain.MonthWindow(*asOf, s.loc)
	}
	return clockport.CurrentMonth(s.clk, s.loc)
}

func (s *Service) loadProfile(ctx context.Context, id domain.ProfileID) (domain.Profile, error) {
	row, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, profilerepo.ErrNotFound) {
			return nil, identityNotFound(err)
		}
		return nil, s.storeFailure(ctx, "profiles", err)
	}
	return profilerepo.ToDomain(row)
}

func (s *Service) usageIn(ctx context.Context, scope domain.TripScope, w domain.Window) (decimal.Decimal, error) {
	rows, err := s.trips.ListInWindow(ctx, scope, w)
	if err != nil {
		return decimal.Zero, s.storeFailure(ctx, "trips", err)
	}
	records := make([]domain.TripRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, triprepo.ToDomain(r))
	}
	total, err := domain.SumCosts(records)
	if err != nil {
		s.logger.ErrorContext(ctx, "stored trip with negative cost", slog.Any("error", err))
		return decimal.Zero, invalidTripCost(err)
	}
	return total, nil
}

func (s *Service) statusFor(ctx context.Context, p domain.Profile, w domain.Window) (domain.BudgetStatus, error) {
	usage, err := s.usageIn(ctx, p.TripScope(), w)
	if err != nil {
		return domain.BudgetStatus{}, err
	}
	st, err := domain.ComputeStatus(usage, p.Limit())
	if err != nil {
		if errors.Is(err, domain.ErrNegativeLimit) {
			s.logger.ErrorContext(ctx, "stored limit is negative",
				slog.String("profile_id", string(p.ProfileID())),
				slog.String("limit", p.Limit().String()),
			)
			return domain.BudgetStatus{}, invalidLimit(err)
		}
		return domain.BudgetStatus{}, invalidTripCost(err)
	}
	st.Alerts = s.formatter.Alerts(st)
	return st, nil
}

func (s *Service) storeFailure(ctx context.Context, store string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	s.metrics.IncrementStoreError(store)
	s.logger.ErrorContext(ctx, "budget store read failed",
		slog.String("store", store),
		slog.Any("error", err),
	)
	return storeUnavailable(store, err)
}

func (s *Service) observe(op string, start time.Time) {
	s.metrics.ObserveEvaluateLatency(op, time.Since(start))
}

func outcomeOf(st domain.BudgetStatus) string {
	switch {
	case st.IsOverBudget:
		return "over"
	case len(st.Alerts) > 0:
		return "warn"
	default:
		return "ok"
	}
}

package bootstrap

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/innocentmk82/efecosall-sub001/internal/app/budget"
	budgetmetrics "github.com/innocentmk82/efecosall-sub001/internal/app/budget/metrics"
	"github.com/innocentmk82/efecosall-sub001/internal/app/groups"
	"github.com/innocentmk82/efecosall-sub001/internal/app/profiles"
	"github.com/innocentmk82/efecosall-sub001/internal/app/trips"
	"github.com/innocentmk82/efecosall-sub001/internal/domain"
	"github.com/innocentmk82/efecosall-sub001/internal/platform/config"
	clockport "github.com/innocentmk82/efecosall-sub001/internal/ports/out/clock"
)

// Services is the application layer built over one set of Stores.
type Services struct {
	Budget   *budget.Service
	Profiles *profiles.Service
	Groups   *groups.Service
	Trips    *trips.Service
}

// NewServices builds every service. reg may be nil, which disables budget metrics.
func NewServices(st *Stores, clk clockport.Clock, cfg config.Config, logger *slog.Logger, reg prometheus.Registerer) Services {
	opts := []budget.Option{
		budget.WithLocation(cfg.BudgetTimezone),
		budget.WithLogger(logger),
		budget.WithAlertFormatter(domain.NewAlertFormatter(cfg.CurrencySymbol)),
		budget.WithOverviewConcurrency(cfg.OverviewConcurrency),
	}
	if reg != nil {
		opts = append(opts, budget.WithMetrics(budgetmetrics.New(reg)))
	}

	return Services{
		Budget:   budget.NewService(st.Profiles, st.Trips, st.Groups, clk, opts...),
		Profiles: profiles.NewService(st.Profiles, st.Groups, clk, profiles.WithLogger(logger)),
		Groups:   groups.NewService(st.Groups, st.Profiles, clk, groups.WithLogger(logger)),
		Trips: trips.NewService(st.Trips, st.Profiles, clk,
			trips.WithLocation(cfg.BudgetTimezone),
			trips.WithLogger(logger),
		),
	}
}

// Package cli implements fuelctl, an operator tool that runs the budget
// operations directly against the configured stores.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/innocentmk82/efecosall-sub001/internal/bootstrap"
	platformclock "github.com/innocentmk82/efecosall-sub001/internal/platform/clock"
	"github.com/innocentmk82/efecosall-sub001/internal/platform/config"
	"github.com/innocentmk82/efecosall-sub001/internal/platform/logger"
	clockport "github.com/innocentmk82/efecosall-sub001/internal/ports/out/clock"
	"github.com/innocentmk82/efecosall-sub001/internal/seed"
)

type rootOptions struct {
	fixtures string
	issuer   string
	output   string
}

// runtimeEnv is what every subcommand works against. It is built in
// PersistentPreRunE and released in PersistentPostRun.
type runtimeEnv struct {
	cfg    config.Config
	log    *slog.Logger
	clk    clockport.Clock
	stores *bootstrap.Stores
	svcs   bootstrap.Services
	out    io.Writer
	json   bool
}

// NewRootCommand builds the command tree. clk may be nil for the system clock.
func NewRootCommand(out io.Writer, clk clockport.Clock) *cobra.Command {
	opts := &rootOptions{}
	env := &runtimeEnv{out: out, clk: clk}
	if env.clk == nil {
		env.clk = platformclock.NewSystemClock()
	}

	root := &cobra.Command{
		Use:           "fuelctl",
		Short:         "Fuel budget operations against the configured stores",
		Long:          "Inspect monthly fuel usage, budget status and alerts, and pre-check expenses.\nStorage is selected with the same environment variables as the API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return env.open(cmd.Context(), cmd.ErrOrStderr(), opts)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			env.close()
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&opts.fixtures, "fixtures", "", "YAML fixture file to load before the command runs")
	root.PersistentFlags().StringVar(&opts.issuer, "issuer", "", "Issuer that scopes subjects in postgres (default JWT_ISSUER or DEV_ISSUER)")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "text", "Output format: text or json")

	root.AddCommand(
		newSeedCommand(env),
		newUsageCommand(env),
		newStatusCommand(env),
		newAlertsCommand(env),
		newCheckCommand(env),
		newOverviewCommand(env),
	)
	return root
}

// Execute runs fuelctl with the process arguments.
func Execute(ctx context.Context) int {
	cmd := NewRootCommand(os.Stdout, nil)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func (e *runtimeEnv) open(ctx context.Context, stderr io.Writer, opts *rootOptions) error {
	switch opts.output {
	case "text":
	case "json":
		e.json = true
	default:
		return fmt.Errorf("--output must be text or json, got %q", opts.output)
	}

	cfg, err := config.LoadStorage()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, stderr)
	if err != nil {
		return err
	}
	issuer := opts.issuer
	if issuer == "" {
		issuer = os.Getenv("JWT_ISSUER")
	}
	if issuer == "" {
		issuer = cfg.DevIssuer
	}

	stores, err := bootstrap.OpenStores(ctx, cfg, issuer, log)
	if err != nil {
		return err
	}
	e.cfg, e.log, e.stores = cfg, log, stores
	e.svcs = bootstrap.NewServices(stores, e.clk, cfg, log, nil)

	if opts.fixtures != "" {
		if _, err := e.seedFile(ctx, opts.fixtures); err != nil {
			e.close()
			return err
		}
	}
	return nil
}

func (e *runtimeEnv) close() {
	if e.stores != nil {
		e.stores.Close()
		e.stores = nil
	}
}

func (e *runtimeEnv) seedFile(ctx context.Context, path string) (seed.Result, error) {
	fx, err := seed.LoadFile(path)
	if err != nil {
		return seed.Result{}, err
	}
	res, err := seed.NewSeeder(e.stores.Profiles, e.stores.Groups, e.stores.Trips, e.clk).Apply(ctx, fx)
	if err != nil {
		return res, fmt.Errorf("seed %s: %w", path, err)
	}
	e.log.DebugContext(ctx, "fixtures loaded",
		slog.String("file", path),
		slog.Int("profiles", res.Profiles),
		slog.Int("groups", res.Groups),
		slog.Int("trips", res.Trips),
		slog.Int("skipped", res.Skipped),
	)
	return res, nil
}

// asOf parses an optional YYYY-MM-DD date, pinned to midday in the budget timezone.
func (e *runtimeEnv) asOf(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	loc := e.svcs.Budget.Location()
	d, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return nil, fmt.Errorf("--as-of must be YYYY-MM-DD: %w", err)
	}
	t := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, loc)
	return &t, nil
}

func (e *runtimeEnv) printJSON(v any) error {
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

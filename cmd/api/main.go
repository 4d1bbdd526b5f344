package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/innocentmk82/efecosall-sub001/internal/adapters/httpapi"
	"github.com/innocentmk82/efecosall-sub001/internal/bootstrap"
	"github.com/innocentmk82/efecosall-sub001/internal/platform/auth/jwtverifier"
	platformclock "github.com/innocentmk82/efecosall-sub001/internal/platform/clock"
	"github.com/innocentmk82/efecosall-sub001/internal/platform/config"
	"github.com/innocentmk82/efecosall-sub001/internal/platform/logger"
	"github.com/innocentmk82/efecosall-sub001/internal/platform/metrics"
)

func main() {
	if err := run(); err != nil {
		slog.Error("api exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(log)

	// Auth configuration:
	// - Production: require JWT_* env vars and enforce bearer auth
	// - Local dev: set AUTH_MODE=dev to bypass JWT verification and use X-Debug-Subject
	var authMW func(http.Handler) http.Handler
	issuer := ""
	switch cfg.AuthMode {
	case "dev":
		authMW = httpapi.NewDevAuthMiddleware(cfg.DevSubject)
		issuer = cfg.DevIssuer
		log.Warn("dev auth enabled; X-Debug-Subject is trusted")
	default:
		authMW = httpapi.NewAuthMiddleware(jwtverifier.New(cfg.JWT))
		issuer = cfg.JWT.Issuer
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, err := bootstrap.OpenStores(ctx, cfg, issuer, log)
	if err != nil {
		return err
	}
	defer stores.Close()

	if stores.Purger != nil {
		go bootstrap.RunPurger(ctx, stores.Purger, time.Hour, log)
	}

	reg := metrics.NewRegistry()
	svcs := bootstrap.NewServices(stores, platformclock.NewSystemClock(), cfg, log, reg)

	api := httpapi.NewHandler(svcs.Budget, svcs.Profiles, svcs.Groups, svcs.Trips, stores.Idempotency)
	api.Logger = log

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{
			AuthMiddleware: authMW,
			Logger:         log,
			MetricsHandler: metrics.Handler(reg),
		}),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("api listening",
			slog.String("addr", srv.Addr),
			slog.String("storage", cfg.StorageBackend),
			slog.String("auth", cfg.AuthMode),
			slog.String("timezone", cfg.BudgetTimezone.String()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

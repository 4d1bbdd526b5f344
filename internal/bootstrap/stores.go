// Package bootstrap wires configuration into stores and services. Both cmd/api and
// cmd/fuelctl build on it so they always see the same backends.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/innocentmk82/efecosall-sub001/internal/adapters/breaker"
	fsadapter "github.com/innocentmk82/efecosall-sub001/internal/adapters/firestore"
	fsgrouprepo "github.com/innocentmk82/efecosall-sub001/internal/adapters/firestore/grouprepo"
	fsprofilerepo "github.com/innocentmk82/efecosall-sub001/internal/adapters/firestore/profilerepo"
	fstriprepo "github.com/innocentmk82/efecosall-sub001/internal/adapters/firestore/triprepo"
	memgrouprepo "github.com/innocentmk82/efecosall-sub001/internal/adapters/memory/grouprepo"
	memidempotency "github.com/innocentmk82/efecosall-sub001/internal/adapters/memory/idempotency"
	memprofilerepo "github.com/innocentmk82/efecosall-sub001/internal/adapters/memory/profilerepo"
	memtriprepo "github.com/innocentmk82/efecosall-sub001/internal/adapters/memory/triprepo"
	postgres "github.com/innocentmk82/efecosall-sub001/internal/adapters/postgres"
	pggrouprepo "github.com/innocentmk82/efecosall-sub001/internal/adapters/postgres/grouprepo"
	pgidempotency "github.com/innocentmk82/efecosall-sub001/internal/adapters/postgres/idempotency"
	pgprofilerepo "github.com/innocentmk82/efecosall-sub001/internal/adapters/postgres/profilerepo"
	pgtriprepo "github.com/innocentmk82/efecosall-sub001/internal/adapters/postgres/triprepo"
	redisidempotency "github.com/innocentmk82/efecosall-sub001/internal/adapters/redis/idempotency"
	"github.com/innocentmk82/efecosall-sub001/internal/platform/config"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/grouprepo"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/idempotency"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/profilerepo"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/triprepo"
)

// Purger drops expired idempotency records.
type Purger interface {
	Purge(ctx context.Context) (int64, error)
}

// Stores holds the repositories selected by configuration.
type Stores struct {
	Profiles    profilerepo.Repository
	Trips       triprepo.Repository
	Groups      grouprepo.Repository
	Idempotency idempotency.Store

	// Purger is set when the idempotency backend needs explicit expiry.
	Purger Purger

	closers []func()
}

// Close releases pools and clients in reverse order of creation.
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// OpenStores connects the configured backends. issuer scopes subjects in postgres.
func OpenStores(ctx context.Context, cfg config.Config, issuer string, logger *slog.Logger) (*Stores, error) {
	s := &Stores{}
	ok := false
	defer func() {
		if !ok {
			s.Close()
		}
	}()

	switch cfg.StorageBackend {
	case "postgres":
		p, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{MaxConns: cfg.DBMaxConns})
		if err != nil {
			return nil, fmt.Errorf("invalid postgres config: %w", err)
		}
		s.closers = append(s.closers, p.Close)
		if cfg.MigrateOnStart {
			if err := postgres.Migrate(ctx, p); err != nil {
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		s.Profiles = pgprofilerepo.NewRepo(p, issuer)
		s.Trips = pgtriprepo.NewRepo(p)
		s.Groups = pggrouprepo.NewRepo(p)
		if cfg.IdempotencyBackend == "postgres" {
			st := pgidempotency.NewStore(p, issuer, cfg.IdempotencyTTL)
			s.Idempotency = st
			s.Purger = st
		}
	case "firestore":
		client, err := fsadapter.NewClient(ctx, cfg.FirestoreProjectID)
		if err != nil {
			return nil, fmt.Errorf("invalid firestore config: %w", err)
		}
		s.closers = append(s.closers, func() { _ = client.Close() })
		s.Profiles = fsprofilerepo.NewRepo(client)
		s.Trips = fstriprepo.NewRepo(client)
		s.Groups = fsgrouprepo.NewRepo(client)
	default:
		s.Profiles = memprofilerepo.NewRepo()
		s.Trips = memtriprepo.NewRepo()
		s.Groups = memgrouprepo.NewRepo()
	}

	if s.Idempotency == nil {
		switch cfg.IdempotencyBackend {
		case "redis":
			opts, err := redis.ParseURL(cfg.RedisURL)
			if err != nil {
				return nil, fmt.Errorf("parse REDIS_URL: %w", err)
			}
			client := redis.NewClient(opts)
			s.closers = append(s.closers, func() { _ = client.Close() })
			if err := client.Ping(ctx).Err(); err != nil {
				return nil, fmt.Errorf("redis ping: %w", err)
			}
			s.Idempotency = redisidempotency.NewStore(client, cfg.IdempotencyTTL)
		case "postgres":
			p, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{MaxConns: cfg.DBMaxConns})
			if err != nil {
				return nil, fmt.Errorf("invalid postgres config: %w", err)
			}
			s.closers = append(s.closers, p.Close)
			st := pgidempotency.NewStore(p, issuer, cfg.IdempotencyTTL)
			s.Idempotency = st
			s.Purger = st
		default:
			s.Idempotency = memidempotency.NewStore(memidempotency.WithTTL(cfg.IdempotencyTTL, time.Now))
		}
	}

	if cfg.StoreBreaker {
		bs := breaker.Settings{
			ConsecutiveFailures: cfg.BreakerFailures,
			OpenTimeout:         cfg.BreakerOpenTimeout,
			Logger:              logger,
		}
		s.Profiles = breaker.NewProfileRepo(s.Profiles, bs)
		s.Trips = breaker.NewTripRepo(s.Trips, bs)
		s.Groups = breaker.NewGroupRepo(s.Groups, bs)
	}

	logger.InfoContext(ctx, "stores ready",
		slog.String("storage", cfg.StorageBackend),
		slog.String("idempotency", cfg.IdempotencyBackend),
		slog.Bool("breaker", cfg.StoreBreaker),
	)
	ok = true
	return s, nil
}

// RunPurger calls p.Purge every interval until ctx is done.
func RunPurger(ctx context.Context, p Purger, interval time.Duration, logger *slog.Logger) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := p.Purge(ctx)
			if err != nil {
				logger.WarnContext(ctx, "idempotency purge failed", slog.Any("error", err))
				continue
			}
			if n > 0 {
				logger.DebugContext(ctx, "idempotency records purged", slog.Int64("count", n))
			}
		}
	}
}

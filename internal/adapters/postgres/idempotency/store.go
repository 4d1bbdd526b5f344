package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/innocentmk82/efecosall-sub001/internal/adapters/postgres"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/idempotency"
)

// Store is a Postgres implementation of idempotency.Store.
// Records older than the TTL are invisible to Get and removed by Purge.
type Store struct {
	pool   *pgxpool.Pool
	issuer string
	ttl    time.Duration
}

// NewStore builds a store. A zero ttl keeps records forever.
func NewStore(pool *pgxpool.Pool, jwtIssuer string, ttl time.Duration) *Store {
	return &Store{pool: pool, issuer: jwtIssuer, ttl: ttl}
}

func (s *Store) Get(ctx context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	if s.pool == nil {
		return idempotency.Record{}, false, errors.New("nil postgres pool")
	}
	row := s.pool.QueryRow(ctx, `
		SELECT status_code, content_type, body, created_at
		FROM idempotency_keys
		WHERE idempotency_key = $1
		  AND subject_iss = $2
		  AND subject_sub = $3
		  AND method = $4
		  AND route = $5
		  AND body_hash = $6
		  AND ($7::timestamptz IS NULL OR created_at >= $7)
	`,
		string(fp.Key),
		s.issuer,
		string(fp.Subject),
		fp.Method,
		fp.Route,
		fp.BodyHash,
		s.cutoff(),
	)
	var rec idempotency.Record
	if err := row.Scan(&rec.StatusCode, &rec.ContentType, &rec.Body, &rec.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return idempotency.Record{}, false, nil
		}
		return idempotency.Record{}, false, postgres.Classify(err)
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, true, nil
}

func (s *Store) Put(ctx context.Context, fp idempotency.Fingerprint, rec idempotency.Record) error {
	if s.pool == nil {
		return errors.New("nil postgres pool")
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() || s.ttl > 0 {
		// Expiry is measured from the write, not from the caller's timestamp.
		createdAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO idempotency_keys (
			idempotency_key,
			subject_iss,
			subject_sub,
			method,
			route,
			body_hash,
			status_code,
			content_type,
			body,
			created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (idempotency_key, subject_iss, subject_sub, method, route, body_hash)
		DO UPDATE SET
			status_code = EXCLUDED.status_code,
			content_type = EXCLUDED.content_type,
			body = EXCLUDED.body,
			created_at = EXCLUDED.created_at
	`,
		string(fp.Key),
		s.issuer,
		string(fp.Subject),
		fp.Method,
		fp.Route,
		fp.BodyHash,
		rec.StatusCode,
		rec.ContentType,
		rec.Body,
		createdAt.UTC(),
	)
	return postgres.Classify(err)
}

// Purge deletes expired records and reports how many were removed.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	cutoff := s.cutoff()
	if cutoff == nil {
		return 0, nil
	}
	ct, err := s.pool.Exec(ctx, `DELETE FROM idempotency_keys WHERE created_at < $1`, *cutoff)
	if err != nil {
		return 0, postgres.Classify(err)
	}
	return ct.RowsAffected(), nil
}

func (s *Store) cutoff() *time.Time {
	if s.ttl <= 0 {
		return nil
	}
	c := time.Now().UTC().Add(-s.ttl)
	return &c
}

package grouprepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/innocentmk82/efecosall-sub001/internal/adapters/postgres"
	"github.com/innocentmk82/efecosall-sub001/internal/domain"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/grouprepo"
)

// Repo is a Postgres implementation of grouprepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, g grouprepo.Group) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(g.ID))
	if err != nil {
		return fmt.Errorf("%w: %v", grouprepo.ErrInvalidID, err)
	}
	owner, err := uuid.Parse(string(g.OwnerID))
	if err != nil {
		return fmt.Errorf("invalid owner id: %w", err)
	}
	limit := g.DefaultMonthlyFuelLimit

	_, err = r.pool.Exec(ctx, `
		INSERT INTO business_groups (
			external_id,
			name,
			owner_id,
			default_monthly_fuel_limit,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4::numeric, $5, $6)
	`,
		id,
		g.Name,
		owner,
		postgres.NumericArg(&limit),
		g.CreatedAt.UTC(),
		g.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return grouprepo.ErrAlreadyExists
		}
		return postgres.Classify(err)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.GroupID) (grouprepo.Group, error) {
	if r.pool == nil {
		return grouprepo.Group{}, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return grouprepo.Group{}, grouprepo.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `
		SELECT external_id, name, owner_id, default_monthly_fuel_limit::text, created_at, updated_at
		FROM business_groups
		WHERE external_id = $1
	`, uid)
	return scanGroup(row)
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.ProfileID) ([]grouprepo.Group, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(owner))
	if err != nil {
		return []grouprepo.Group{}, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT external_id, name, owner_id, default_monthly_fuel_limit::text, created_at, updated_at
		FROM business_groups
		WHERE owner_id = $1
		ORDER BY name ASC, external_id ASC
	`, uid)
	if err != nil {
		return nil, postgres.Classify(err)
	}
	defer rows.Close()

	out := make([]grouprepo.Group, 0)
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.Classify(err)
	}
	return out, nil
}

func scanGroup(row interface {
	Scan(dest ...any) error
}) (grouprepo.Group, error) {
	var (
		externalID uuid.UUID
		name       string
		owner      uuid.UUID
		limit      string
		createdAt  time.Time
		updatedAt  time.Time
	)
	if err := row.Scan(&externalID, &name, &owner, &limit, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return grouprepo.Group{}, grouprepo.ErrNotFound
		}
		return grouprepo.Group{}, postgres.Classify(err)
	}
	d, err := postgres.ParseNumeric(limit)
	if err != nil {
		return grouprepo.Group{}, err
	}
	return grouprepo.Group{
		ID:                      domain.GroupID(externalID.String()),
		Name:                    name,
		OwnerID:                 domain.ProfileID(owner.String()),
		DefaultMonthlyFuelLimit: d,
		CreatedAt:               createdAt.UTC(),
		UpdatedAt:               updatedAt.UTC(),
	}, nil
}

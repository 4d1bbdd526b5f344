package profilerepo

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
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/profilerepo"
)

const selectProfile = `
	SELECT
		p.external_id,
		p.subject_sub,
		p.display_name,
		p.role,
		p.personal_budget::text,
		p.business_group_id::text,
		p.monthly_fuel_limit::text,
		p.created_at,
		p.updated_at
	FROM profiles p
`

// Repo is a Postgres implementation of profilerepo.Repository.
// Subjects are scoped by the JWT issuer so two IdPs cannot collide on `sub`.
type Repo struct {
	pool   *pgxpool.Pool
	issuer string
}

func NewRepo(pool *pgxpool.Pool, jwtIssuer string) *Repo {
	return &Repo{pool: pool, issuer: jwtIssuer}
}

func (r *Repo) Create(ctx context.Context, p profilerepo.Profile) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(p.ID))
	if err != nil {
		return fmt.Errorf("%w: %v", profilerepo.ErrInvalidID, err)
	}
	groupID, err := parseGroupID(p.BusinessGroupID)
	if err != nil {
		return err
	}

	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO profiles (
				external_id,
				subject_iss,
				subject_sub,
				display_name,
				role,
				personal_budget,
				business_group_id,
				monthly_fuel_limit,
				created_at,
				updated_at
			) VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8::numeric, $9, $10)
		`,
			id,
			r.issuer,
			string(p.Subject),
			p.DisplayName,
			string(p.Role),
			postgres.NumericArg(p.PersonalBudget),
			groupID,
			postgres.NumericArg(p.MonthlyFuelLimit),
			p.CreatedAt.UTC(),
			p.UpdatedAt.UTC(),
		)
		if err != nil {
			if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
				switch pe.ConstraintName {
				case "profiles_subject_unique":
					return profilerepo.ErrSubjectAlreadyBound
				case "profiles_external_id_unique":
					return profilerepo.ErrAlreadyExists
				}
			}
			return err
		}
		return nil
	})
	return postgres.Classify(err)
}

func (r *Repo) Update(ctx context.Context, p profilerepo.Profile) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(p.ID))
	if err != nil {
		return profilerepo.ErrNotFound
	}
	groupID, err := parseGroupID(p.BusinessGroupID)
	if err != nil {
		return err
	}

	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		existing, err := getProfileByExternalID(ctx, tx, id)
		if err != nil {
			return err
		}
		if existing.Subject != p.Subject {
			return profilerepo.ErrSubjectAlreadyBound
		}

		ct, err := tx.Exec(ctx, `
			UPDATE profiles
			SET display_name = $2,
			    role = $3,
			    personal_budget = $4::numeric,
			    business_group_id = $5,
			    monthly_fuel_limit = $6::numeric,
			    updated_at = $7
			WHERE external_id = $1
		`,
			id,
			p.DisplayName,
			string(p.Role),
			postgres.NumericArg(p.PersonalBudget),
			groupID,
			postgres.NumericArg(p.MonthlyFuelLimit),
			p.UpdatedAt.UTC(),
		)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return profilerepo.ErrNotFound
		}
		return nil
	})
	return postgres.Classify(err)
}

func (r *Repo) GetByID(ctx context.Context, id domain.ProfileID) (profilerepo.Profile, error) {
	if r.pool == nil {
		return profilerepo.Profile{}, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return profilerepo.Profile{}, profilerepo.ErrNotFound
	}
	return getProfileByExternalID(ctx, r.pool, uid)
}

func (r *Repo) GetBySubject(ctx context.Context, subject domain.SubjectID) (profilerepo.Profile, error) {
	if r.pool == nil {
		return profilerepo.Profile{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, selectProfile+`
		WHERE p.subject_iss = $1 AND p.subject_sub = $2
	`, r.issuer, string(subject))
	return scanProfile(row)
}

func (r *Repo) ListByGroup(ctx context.Context, groupID domain.GroupID) ([]profilerepo.Profile, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	gid, err := uuid.Parse(string(groupID))
	if err != nil {
		return []profilerepo.Profile{}, nil
	}
	rows, err := r.pool.Query(ctx, selectProfile+`
		WHERE p.business_group_id = $1
		ORDER BY lower(p.display_name) ASC, p.external_id ASC
	`, gid)
	if err != nil {
		return nil, postgres.Classify(err)
	}
	defer rows.Close()

	out := make([]profilerepo.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.Classify(err)
	}
	return out, nil
}

// --- helpers ---

func parseGroupID(g *domain.GroupID) (*uuid.UUID, error) {
	if g == nil {
		return nil, nil
	}
	id, err := uuid.Parse(string(*g))
	if err != nil {
		return nil, fmt.Errorf("invalid business group id: %w", err)
	}
	return &id, nil
}

func scanProfile(row interface {
	Scan(dest ...any) error
}) (profilerepo.Profile, error) {
	var (
		externalID       uuid.UUID
		sub              string
		displayName      string
		role             string
		personalBudget   *string
		businessGroupID  *string
		monthlyFuelLimit *string
		createdAt        time.Time
		updatedAt        time.Time
	)
	if err := row.Scan(
		&externalID,
		&sub,
		&displayName,
		&role,
		&personalBudget,
		&businessGroupID,
		&monthlyFuelLimit,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profilerepo.Profile{}, profilerepo.ErrNotFound
		}
		return profilerepo.Profile{}, postgres.Classify(err)
	}

	budget, err := postgres.ParseNullableNumeric(personalBudget)
	if err != nil {
		return profilerepo.Profile{}, err
	}
	limit, err := postgres.ParseNullableNumeric(monthlyFuelLimit)
	if err != nil {
		return profilerepo.Profile{}, err
	}
	var gid *domain.GroupID
	if businessGroupID != nil {
		v := domain.GroupID(*businessGroupID)
		gid = &v
	}

	return profilerepo.Profile{
		ID:               domain.ProfileID(externalID.String()),
		Subject:          domain.SubjectID(sub),
		DisplayName:      displayName,
		Role:             domain.Role(role),
		PersonalBudget:   budget,
		BusinessGroupID:  gid,
		MonthlyFuelLimit: limit,
		CreatedAt:        createdAt.UTC(),
		UpdatedAt:        updatedAt.UTC(),
	}, nil
}

func getProfileByExternalID(ctx context.Context, q interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}, id uuid.UUID) (profilerepo.Profile, error) {
	row := q.QueryRow(ctx, selectProfile+`
		WHERE p.external_id = $1
	`, id)
	return scanProfile(row)
}

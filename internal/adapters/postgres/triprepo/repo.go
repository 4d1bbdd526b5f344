package triprepo

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
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/triprepo"
)

const selectTrip = `
	SELECT
		t.external_id,
		t.owner_id,
		t.business_group_id::text,
		t.vehicle_label,
		t.start_time,
		t.end_time,
		t.distance_km::text,
		t.fuel_liters::text,
		t.cost::text,
		t.created_at
	FROM trips t
`

// Repo is a Postgres implementation of triprepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, t triprepo.Trip) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(t.ID))
	if err != nil {
		return fmt.Errorf("%w: %v", triprepo.ErrInvalidID, err)
	}
	owner, err := uuid.Parse(string(t.OwnerID))
	if err != nil {
		return fmt.Errorf("invalid owner id: %w", err)
	}
	var groupID *uuid.UUID
	if t.BusinessGroupID != nil {
		g, err := uuid.Parse(string(*t.BusinessGroupID))
		if err != nil {
			return fmt.Errorf("invalid business group id: %w", err)
		}
		groupID = &g
	}
	var endTime *time.Time
	if t.EndTime != nil {
		v := t.EndTime.UTC()
		endTime = &v
	}
	cost := t.Cost

	_, err = r.pool.Exec(ctx, `
		INSERT INTO trips (
			external_id,
			owner_id,
			business_group_id,
			vehicle_label,
			start_time,
			end_time,
			distance_km,
			fuel_liters,
			cost,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8::numeric, $9::numeric, $10)
	`,
		id,
		owner,
		groupID,
		t.VehicleLabel,
		t.StartTime.UTC(),
		endTime,
		postgres.NumericArg(t.DistanceKm),
		postgres.NumericArg(t.FuelLiters),
		postgres.NumericArg(&cost),
		t.CreatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return triprepo.ErrAlreadyExists
		}
		return postgres.Classify(err)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.TripID) (triprepo.Trip, error) {
	if r.pool == nil {
		return triprepo.Trip{}, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return triprepo.Trip{}, triprepo.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, selectTrip+`WHERE t.external_id = $1`, uid)
	return scanTrip(row)
}

func (r *Repo) ListInWindow(ctx context.Context, scope domain.TripScope, w domain.Window) ([]triprepo.Trip, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	column, raw := "t.owner_id", string(scope.OwnerID)
	if scope.IsGroup() {
		column, raw = "t.business_group_id", string(scope.BusinessGroupID)
	}
	key, err := uuid.Parse(raw)
	if err != nil {
		return []triprepo.Trip{}, nil
	}

	rows, err := r.pool.Query(ctx, selectTrip+`
		WHERE `+column+` = $1
		  AND t.start_time >= $2
		  AND t.start_time < $3
		ORDER BY t.start_time ASC, t.external_id ASC
	`, key, w.Start.UTC(), w.End.UTC())
	if err != nil {
		return nil, postgres.Classify(err)
	}
	defer rows.Close()

	out := make([]triprepo.Trip, 0)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.Classify(err)
	}
	return out, nil
}

func scanTrip(row interface {
	Scan(dest ...any) error
}) (triprepo.Trip, error) {
	var (
		externalID   uuid.UUID
		owner        uuid.UUID
		groupID      *string
		vehicleLabel *string
		startTime    time.Time
		endTime      *time.Time
		distanceKm   *string
		fuelLiters   *string
		cost         string
		createdAt    time.Time
	)
	if err := row.Scan(
		&externalID,
		&owner,
		&groupID,
		&vehicleLabel,
		&startTime,
		&endTime,
		&distanceKm,
		&fuelLiters,
		&cost,
		&createdAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return triprepo.Trip{}, triprepo.ErrNotFound
		}
		return triprepo.Trip{}, postgres.Classify(err)
	}

	c, err := postgres.ParseNumeric(cost)
	if err != nil {
		return triprepo.Trip{}, err
	}
	dist, err := postgres.ParseNullableNumeric(distanceKm)
	if err != nil {
		return triprepo.Trip{}, err
	}
	fuel, err := postgres.ParseNullableNumeric(fuelLiters)
	if err != nil {
		return triprepo.Trip{}, err
	}
	var gid *domain.GroupID
	if groupID != nil {
		v := domain.GroupID(*groupID)
		gid = &v
	}
	if endTime != nil {
		v := endTime.UTC()
		endTime = &v
	}

	return triprepo.Trip{
		ID:              domain.TripID(externalID.String()),
		OwnerID:         domain.ProfileID(owner.String()),
		BusinessGroupID: gid,
		VehicleLabel:    vehicleLabel,
		StartTime:       startTime.UTC(),
		EndTime:         endTime,
		DistanceKm:      dist,
		FuelLiters:      fuel,
		Cost:            c,
		CreatedAt:       createdAt.UTC(),
	}, nil
}

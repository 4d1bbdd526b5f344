package triprepo

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/innocentmk82/efecosall-sub001/internal/domain"
)

// Trip is the persistence shape used by the trip repository.
// It is not an HTTP DTO.
type Trip struct {
	ID domain.TripID

	OwnerID         domain.ProfileID
	BusinessGroupID *domain.GroupID

	VehicleLabel *string

	StartTime time.Time
	EndTime   *time.Time

	DistanceKm *decimal.Decimal
	FuelLiters *decimal.Decimal
	Cost       decimal.Decimal

	CreatedAt time.Time
}

// Repository provides access to persisted trips.
//
// ListInWindow returns trips matching scope whose StartTime is in [w.Start, w.End),
// ordered by StartTime then ID.
type Repository interface {
	Create(ctx context.Context, t Trip) error
	GetByID(ctx context.Context, id domain.TripID) (Trip, error)

	ListInWindow(ctx context.Context, scope domain.TripScope, w domain.Window) ([]Trip, error)
}

// ToDomain converts a stored trip into the domain record.
func ToDomain(t Trip) domain.TripRecord {
	return domain.TripRecord{
		ID:              t.ID,
		OwnerID:         t.OwnerID,
		BusinessGroupID: t.BusinessGroupID,
		VehicleLabel:    t.VehicleLabel,
		StartTime:       t.StartTime,
		EndTime:         t.EndTime,
		DistanceKm:      t.DistanceKm,
		FuelLiters:      t.FuelLiters,
		Cost:            t.Cost,
		CreatedAt:       t.CreatedAt,
	}
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TripRecord is a completed or logged vehicle usage event with its fuel cost.
type TripRecord struct {
	ID      TripID
	OwnerID ProfileID
	// BusinessGroupID is set for trips recorded by a driver; nil for citizen trips.
	BusinessGroupID *GroupID

	VehicleLabel *string

	StartTime time.Time
	EndTime   *time.Time

	DistanceKm *decimal.Decimal
	FuelLiters *decimal.Decimal

	// Cost is never negative.
	Cost decimal.Decimal

	CreatedAt time.Time
}

// TripScope selects the trips that count toward a usage total.
// Exactly one of OwnerID or BusinessGroupID is set.
type TripScope struct {
	OwnerID         ProfileID
	BusinessGroupID GroupID
}

func OwnerScope(id ProfileID) TripScope { return TripScope{OwnerID: id} }

func GroupScope(id GroupID) TripScope { return TripScope{BusinessGroupID: id} }

func (s TripScope) IsGroup() bool { return s.BusinessGroupID != "" }

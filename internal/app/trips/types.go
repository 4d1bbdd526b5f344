package trips

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordTripInput is a completed trip as reported by the tracking flow.
type RecordTripInput struct {
	VehicleLabel *string

	StartTime *time.Time
	EndTime   *time.Time

	DistanceKm *decimal.Decimal
	FuelLiters *decimal.Decimal
	Cost       decimal.Decimal
}

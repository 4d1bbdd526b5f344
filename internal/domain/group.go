package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BusinessGroup is an administrative grouping of drivers under one fleet-owning account.
type BusinessGroup struct {
	ID      GroupID
	Name    string
	OwnerID ProfileID

	// DefaultMonthlyFuelLimit seeds the limit of drivers who join the group.
	DefaultMonthlyFuelLimit decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

package grouprepo

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/innocentmk82/efecosall-sub001/internal/domain"
)

// Group is the persistence shape of a business group.
type Group struct {
	ID      domain.GroupID
	Name    string
	OwnerID domain.ProfileID

	DefaultMonthlyFuelLimit decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository provides access to persisted business groups.
// ListByOwner is ordered by Name, then ID.
type Repository interface {
	Create(ctx context.Context, g Group) error
	GetByID(ctx context.Context, id domain.GroupID) (Group, error)
	ListByOwner(ctx context.Context, owner domain.ProfileID) ([]Group, error)
}

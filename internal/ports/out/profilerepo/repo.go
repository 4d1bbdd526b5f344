package profilerepo

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/innocentmk82/efecosall-sub001/internal/domain"
)

// Profile is the persistence shape used by the profile repository.
//
// It is flat: citizen rows carry PersonalBudget, driver rows carry BusinessGroupID and
// MonthlyFuelLimit. The application layer turns it into a domain.Profile variant.
type Profile struct {
	ID          domain.ProfileID
	Subject     domain.SubjectID
	DisplayName string
	Role        domain.Role

	PersonalBudget *decimal.Decimal

	BusinessGroupID  *domain.GroupID
	MonthlyFuelLimit *decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository provides access to persisted profiles.
//
// ListByGroup returns drivers ordered by DisplayName ascending (case-insensitive), then ID.
type Repository interface {
	Create(ctx context.Context, p Profile) error
	Update(ctx context.Context, p Profile) error

	GetByID(ctx context.Context, id domain.ProfileID) (Profile, error)
	GetBySubject(ctx context.Context, subject domain.SubjectID) (Profile, error)

	ListByGroup(ctx context.Context, groupID domain.GroupID) ([]Profile, error)
}

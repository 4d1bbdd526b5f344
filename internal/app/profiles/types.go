package profiles

import (
	"github.com/shopspring/decimal"

	"github.com/innocentmk82/efecosall-sub001/internal/domain"
)

// Optional is a tri-state field used to distinguish:
// - unspecified (omitted)
// - specified as null
// - specified with a value
type Optional[T any] struct {
	specified bool
	isNull    bool
	value     T
}

func Unspecified[T any]() Optional[T] { return Optional[T]{} }
func Null[T any]() Optional[T]        { return Optional[T]{specified: true, isNull: true} }
func Some[T any](v T) Optional[T]     { return Optional[T]{specified: true, value: v} }

func (o Optional[T]) IsSpecified() bool { return o.specified }
func (o Optional[T]) IsNull() bool      { return o.specified && o.isNull }
func (o Optional[T]) Value() T          { return o.value }

// CreateMyProfileInput provisions the caller. Citizens set PersonalBudget; drivers set
// BusinessGroupID and start at the group's default limit.
type CreateMyProfileInput struct {
	DisplayName     string
	Role            domain.Role
	PersonalBudget  *decimal.Decimal
	BusinessGroupID *domain.GroupID
}

type UpdateMyProfileInput struct {
	// DisplayName cannot be null.
	DisplayName Optional[string]
	// PersonalBudget applies to citizens only and cannot be null.
	PersonalBudget Optional[decimal.Decimal]
}

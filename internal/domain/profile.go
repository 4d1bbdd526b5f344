package domain

import "github.com/shopspring/decimal"

type Role string

const (
	RoleCitizen Role = "citizen"
	RoleDriver  Role = "driver"
)

// Profile is a resolved user profile. It is a closed set: CitizenProfile or DriverProfile.
// Each variant carries only its own limit field, so callers switch on the concrete type
// instead of probing for optional fields.
type Profile interface {
	ProfileID() ProfileID
	SubjectID() SubjectID
	Role() Role
	// Limit is the monthly spending ceiling that applies to this profile.
	Limit() decimal.Decimal
	Identity() UserIdentity
	TripScope() TripScope

	isProfile()
}

// CitizenProfile is an individual tracking personal fuel spend against a self-set budget.
type CitizenProfile struct {
	ID          ProfileID
	Subject     SubjectID
	DisplayName string

	PersonalBudget decimal.Decimal
}

// DriverProfile is a user affiliated with a business group. Its limit is set by the group owner.
type DriverProfile struct {
	ID          ProfileID
	Subject     SubjectID
	DisplayName string

	BusinessGroupID  GroupID
	MonthlyFuelLimit decimal.Decimal
}

func (p CitizenProfile) ProfileID() ProfileID   { return p.ID }
func (p CitizenProfile) SubjectID() SubjectID   { return p.Subject }
func (CitizenProfile) Role() Role               { return RoleCitizen }
func (p CitizenProfile) Limit() decimal.Decimal { return p.PersonalBudget }
func (p CitizenProfile) Identity() UserIdentity {
	return UserIdentity{ID: p.ID, Role: RoleCitizen}
}
func (CitizenProfile) isProfile() {}

func (p DriverProfile) ProfileID() ProfileID   { return p.ID }
func (p DriverProfile) SubjectID() SubjectID   { return p.Subject }
func (DriverProfile) Role() Role               { return RoleDriver }
func (p DriverProfile) Limit() decimal.Decimal { return p.MonthlyFuelLimit }
func (p DriverProfile) Identity() UserIdentity {
	gid := p.BusinessGroupID
	return UserIdentity{ID: p.ID, Role: RoleDriver, BusinessGroupID: &gid}
}
func (DriverProfile) isProfile() {}

// UserIdentity is the per-request view of who is asking. It is rebuilt from the store on every call.
type UserIdentity struct {
	ID              ProfileID
	Role            Role
	BusinessGroupID *GroupID
}

// DisplayNameOf returns the display name of either profile variant.
func DisplayNameOf(p Profile) string {
	switch v := p.(type) {
	case CitizenProfile:
		return v.DisplayName
	case DriverProfile:
		return v.DisplayName
	default:
		return ""
	}
}

// TripScope returns the scope used to total a profile's monthly usage.
// Drivers and citizens alike are charged only for trips they own; group-wide
// totals are requested explicitly with GroupScope.
func (p CitizenProfile) TripScope() TripScope { return OwnerScope(p.ID) }

func (p DriverProfile) TripScope() TripScope { return OwnerScope(p.ID) }

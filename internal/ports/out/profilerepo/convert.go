package profilerepo

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/innocentmk82/efecosall-sub001/internal/domain"
)

// ToDomain resolves the stored row into its profile variant.
// A missing limit reads as zero.
func ToDomain(p Profile) (domain.Profile, error) {
	switch p.Role {
	case domain.RoleCitizen:
		return domain.CitizenProfile{
			ID:             p.ID,
			Subject:        p.Subject,
			DisplayName:    p.DisplayName,
			PersonalBudget: valueOrZero(p.PersonalBudget),
		}, nil
	case domain.RoleDriver:
		if p.BusinessGroupID == nil || *p.BusinessGroupID == "" {
			return nil, fmt.Errorf("driver profile %s has no business group", p.ID)
		}
		return domain.DriverProfile{
			ID:               p.ID,
			Subject:          p.Subject,
			DisplayName:      p.DisplayName,
			BusinessGroupID:  *p.BusinessGroupID,
			MonthlyFuelLimit: valueOrZero(p.MonthlyFuelLimit),
		}, nil
	default:
		return nil, fmt.Errorf("profile %s has unknown role %q", p.ID, p.Role)
	}
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

package budget

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/innocentmk82/efecosall-sub001/internal/domain"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/grouprepo"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/profilerepo"
)

// DriverStatus is one row of a group overview.
type DriverStatus struct {
	Driver domain.DriverProfile
	Status domain.BudgetStatus
}

// GroupOverview summarizes a business group's month for its owner.
type GroupOverview struct {
	Group  domain.BusinessGroup
	Window domain.Window
	// GroupUsage sums every trip tagged with the group in the window.
	GroupUsage decimal.Decimal
	// Drivers is ordered like profilerepo.Repository.ListByGroup.
	Drivers []DriverStatus
}

// GetGroupOverview returns the group's monthly usage and one status per driver.
// Only the group owner may read it.
func (s *Service) GetGroupOverview(ctx context.Context, caller domain.ProfileID, groupID domain.GroupID, asOf *time.Time) (GroupOverview, error) {
	defer s.observe("overview", time.Now())

	g, err := s.ownedGroup(ctx, caller, groupID)
	if err != nil {
		return GroupOverview{}, err
	}

	w := s.window(asOf)
	groupUsage, err := s.usageIn(ctx, domain.GroupScope(groupID), w)
	if err != nil {
		return GroupOverview{}, err
	}

	rows, err := s.profiles.ListByGroup(ctx, groupID)
	if err != nil {
		return GroupOverview{}, s.storeFailure(ctx, "profiles", err)
	}

	drivers := make([]DriverStatus, len(rows))
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(s.overviewConcurrency)
	for i, row := range rows {
		eg.Go(func() error {
			p, err := profilerepo.ToDomain(row)
			if err != nil {
				return err
			}
			d, ok := p.(domain.DriverProfile)
			if !ok {
				return nil
			}
			st, err := s.statusFor(egctx, d, w)
			if err != nil {
				return err
			}
			drivers[i] = DriverStatus{Driver: d, Status: st}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return GroupOverview{}, err
	}

	out := make([]DriverStatus, 0, len(drivers))
	for _, d := range drivers {
		if d.Driver.ID != "" {
			out = append(out, d)
		}
	}

	return GroupOverview{
		Group: domain.BusinessGroup{
			ID:                      g.ID,
			Name:                    g.Name,
			OwnerID:                 g.OwnerID,
			DefaultMonthlyFuelLimit: g.DefaultMonthlyFuelLimit,
			CreatedAt:               g.CreatedAt,
			UpdatedAt:               g.UpdatedAt,
		},
		Window:     w,
		GroupUsage: groupUsage,
		Drivers:    out,
	}, nil
}

// GetGroupUsage sums every trip tagged with the group in the month containing asOf.
// Only the group owner may read it.
func (s *Service) GetGroupUsage(ctx context.Context, caller domain.ProfileID, groupID domain.GroupID, asOf *time.Time) (decimal.Decimal, error) {
	defer s.observe("group_usage", time.Now())

	if _, err := s.ownedGroup(ctx, caller, groupID); err != nil {
		return decimal.Zero, err
	}
	return s.usageIn(ctx, domain.GroupScope(groupID), s.window(asOf))
}

func (s *Service) ownedGroup(ctx context.Context, caller domain.ProfileID, groupID domain.GroupID) (grouprepo.Group, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, grouprepo.ErrNotFound) {
			return grouprepo.Group{}, &Error{Status: 404, Code: "GROUP_NOT_FOUND", Message: "group not found", Err: err}
		}
		return grouprepo.Group{}, s.storeFailure(ctx, "groups", err)
	}
	if g.OwnerID != caller {
		return grouprepo.Group{}, &Error{Status: 403, Code: "FORBIDDEN", Message: "only the group owner may view the group budget"}
	}
	return g, nil
}

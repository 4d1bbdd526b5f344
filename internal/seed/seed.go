// Package seed loads YAML fixture sets into the configured repositories.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/innocentmk82/efecosall-sub001/internal/domain"
	clockport "github.com/innocentmk82/efecosall-sub001/internal/ports/out/clock"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/grouprepo"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/profilerepo"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/triprepo"
)

// Fixtures is the YAML document shape. Money and quantities are decimal strings,
// times are RFC 3339. The postgres backend requires UUID ids.
type Fixtures struct {
	Profiles []ProfileFixture `yaml:"profiles"`
	Groups   []GroupFixture   `yaml:"groups"`
	Trips    []TripFixture    `yaml:"trips"`
}

type ProfileFixture struct {
	ID               string `yaml:"id"`
	Subject          string `yaml:"subject"`
	DisplayName      string `yaml:"displayName"`
	Role             string `yaml:"role"`
	PersonalBudget   string `yaml:"personalBudget"`
	BusinessGroupID  string `yaml:"businessGroupId"`
	MonthlyFuelLimit string `yaml:"monthlyFuelLimit"`
}

type GroupFixture struct {
	ID                      string `yaml:"id"`
	Name                    string `yaml:"name"`
	OwnerID                 string `yaml:"ownerId"`
	DefaultMonthlyFuelLimit string `yaml:"defaultMonthlyFuelLimit"`
}

type TripFixture struct {
	ID           string `yaml:"id"`
	OwnerID      string `yaml:"ownerId"`
	VehicleLabel string `yaml:"vehicleLabel"`
	StartTime    string `yaml:"startTime"`
	EndTime      string `yaml:"endTime"`
	DistanceKm   string `yaml:"distanceKm"`
	FuelLiters   string `yaml:"fuelLiters"`
	Cost         string `yaml:"cost"`
}

// Result counts what Apply wrote. Rows that already exist are skipped.
type Result struct {
	Profiles int
	Groups   int
	Trips    int
	Skipped  int
}

// Parse decodes a fixture document. Unknown keys are rejected.
func Parse(r io.Reader) (Fixtures, error) {
	var fx Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		if errors.Is(err, io.EOF) {
			return Fixtures{}, nil
		}
		return Fixtures{}, fmt.Errorf("decode fixtures: %w", err)
	}
	return fx, nil
}

func LoadFile(path string) (Fixtures, error) {
	f, err := os.Open(path)
	if err != nil {
		return Fixtures{}, err
	}
	defer f.Close()
	return Parse(f)
}

// Seeder writes fixtures through the repository ports.
type Seeder struct {
	profiles profilerepo.Repository
	groups   grouprepo.Repository
	trips    triprepo.Repository
	clk      clockport.Clock
}

func NewSeeder(profiles profilerepo.Repository, groups grouprepo.Repository, trips triprepo.Repository, clk clockport.Clock) *Seeder {
	return &Seeder{profiles: profiles, groups: groups, trips: trips, clk: clk}
}

// Apply converts every fixture first and writes nothing if any is invalid.
// Writes go in dependency order: profiles without a group, groups, drivers, trips.
func (s *Seeder) Apply(ctx context.Context, fx Fixtures) (Result, error) {
	now := s.clk.Now()

	groupRows := make([]grouprepo.Group, 0, len(fx.Groups))
	groupLimits := map[domain.GroupID]decimal.Decimal{}
	for i, g := range fx.Groups {
		row, err := g.row(now)
		if err != nil {
			return Result{}, fmt.Errorf("groups[%d]: %w", i, err)
		}
		groupRows = append(groupRows, row)
		groupLimits[row.ID] = row.DefaultMonthlyFuelLimit
	}

	var owners, drivers []profilerepo.Profile
	for i, p := range fx.Profiles {
		row, err := p.row(now, groupLimits)
		if err != nil {
			return Result{}, fmt.Errorf("profiles[%d]: %w", i, err)
		}
		if row.BusinessGroupID != nil {
			drivers = append(drivers, row)
		} else {
			owners = append(owners, row)
		}
	}

	tripRows := make([]triprepo.Trip, 0, len(fx.Trips))
	for i, t := range fx.Trips {
		row, err := t.row(now)
		if err != nil {
			return Result{}, fmt.Errorf("trips[%d]: %w", i, err)
		}
		tripRows = append(tripRows, row)
	}

	var res Result
	for _, p := range owners {
		if err := s.createProfile(ctx, p, &res); err != nil {
			return res, err
		}
	}
	for _, g := range groupRows {
		err := s.groups.Create(ctx, g)
		switch {
		case err == nil:
			res.Groups++
		case errors.Is(err, grouprepo.ErrAlreadyExists):
			res.Skipped++
		default:
			return res, fmt.Errorf("create group %s: %w", g.ID, err)
		}
	}
	for _, p := range drivers {
		if err := s.createProfile(ctx, p, &res); err != nil {
			return res, err
		}
	}
	for _, t := range tripRows {
		// Driver trips carry the driver's group like recorded trips do.
		if owner, err := s.profiles.GetByID(ctx, t.OwnerID); err == nil && owner.BusinessGroupID != nil {
			gid := *owner.BusinessGroupID
			t.BusinessGroupID = &gid
		} else if err != nil {
			return res, fmt.Errorf("trip %s owner %s: %w", t.ID, t.OwnerID, err)
		}
		err := s.trips.Create(ctx, t)
		switch {
		case err == nil:
			res.Trips++
		case errors.Is(err, triprepo.ErrAlreadyExists):
			res.Skipped++
		default:
			return res, fmt.Errorf("create trip %s: %w", t.ID, err)
		}
	}
	return res, nil
}

func (s *Seeder) createProfile(ctx context.Context, p profilerepo.Profile, res *Result) error {
	err := s.profiles.Create(ctx, p)
	switch {
	case err == nil:
		res.Profiles++
	case errors.Is(err, profilerepo.ErrAlreadyExists), errors.Is(err, profilerepo.ErrSubjectAlreadyBound):
		res.Skipped++
	default:
		return fmt.Errorf("create profile %s: %w", p.ID, err)
	}
	return nil
}

func (g GroupFixture) row(now time.Time) (grouprepo.Group, error) {
	if strings.TrimSpace(g.ID) == "" {
		return grouprepo.Group{}, errors.New("id is required")
	}
	name := domain.NormalizeHumanName(g.Name)
	if name == "" {
		return grouprepo.Group{}, errors.New("name is required")
	}
	if g.OwnerID == "" {
		return grouprepo.Group{}, errors.New("ownerId is required")
	}
	limit, err := parseAmount("defaultMonthlyFuelLimit", domain.MoneyPlaces, g.DefaultMonthlyFuelLimit)
	if err != nil {
		return grouprepo.Group{}, err
	}
	return grouprepo.Group{
		ID:                      domain.GroupID(g.ID),
		Name:                    name,
		OwnerID:                 domain.ProfileID(g.OwnerID),
		DefaultMonthlyFuelLimit: limit,
		CreatedAt:               now,
		UpdatedAt:               now,
	}, nil
}

func (p ProfileFixture) row(now time.Time, groupLimits map[domain.GroupID]decimal.Decimal) (profilerepo.Profile, error) {
	if strings.TrimSpace(p.ID) == "" {
		return profilerepo.Profile{}, errors.New("id is required")
	}
	if strings.TrimSpace(p.Subject) == "" {
		return profilerepo.Profile{}, errors.New("subject is required")
	}
	name := domain.NormalizeHumanName(p.DisplayName)
	if name == "" {
		return profilerepo.Profile{}, errors.New("displayName is required")
	}
	row := profilerepo.Profile{
		ID:          domain.ProfileID(p.ID),
		Subject:     domain.SubjectID(p.Subject),
		DisplayName: name,
		Role:        domain.Role(p.Role),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	switch row.Role {
	case domain.RoleCitizen:
		if p.BusinessGroupID != "" || p.MonthlyFuelLimit != "" {
			return profilerepo.Profile{}, errors.New("citizens take personalBudget only")
		}
		b, err := parseAmount("personalBudget", domain.MoneyPlaces, p.PersonalBudget)
		if err != nil {
			return profilerepo.Profile{}, err
		}
		row.PersonalBudget = &b
	case domain.RoleDriver:
		if p.PersonalBudget != "" {
			return profilerepo.Profile{}, errors.New("drivers do not set personalBudget")
		}
		gid := domain.GroupID(p.BusinessGroupID)
		def, ok := groupLimits[gid]
		if !ok {
			return profilerepo.Profile{}, fmt.Errorf("businessGroupId %q is not in the fixture set", p.BusinessGroupID)
		}
		limit := def
		if p.MonthlyFuelLimit != "" {
			v, err := parseAmount("monthlyFuelLimit", domain.MoneyPlaces, p.MonthlyFuelLimit)
			if err != nil {
				return profilerepo.Profile{}, err
			}
			limit = v
		}
		row.BusinessGroupID = &gid
		row.MonthlyFuelLimit = &limit
	default:
		return profilerepo.Profile{}, fmt.Errorf("role %q must be citizen or driver", p.Role)
	}
	return row, nil
}

func (t TripFixture) row(now time.Time) (triprepo.Trip, error) {
	if strings.TrimSpace(t.ID) == "" {
		return triprepo.Trip{}, errors.New("id is required")
	}
	if t.OwnerID == "" {
		return triprepo.Trip{}, errors.New("ownerId is required")
	}
	start, err := time.Parse(time.RFC3339, t.StartTime)
	if err != nil {
		return triprepo.Trip{}, fmt.Errorf("startTime: %w", err)
	}
	cost, err := parseAmount("cost", domain.MoneyPlaces, t.Cost)
	if err != nil {
		return triprepo.Trip{}, err
	}
	row := triprepo.Trip{
		ID:        domain.TripID(t.ID),
		OwnerID:   domain.ProfileID(t.OwnerID),
		StartTime: start.UTC(),
		Cost:      cost,
		CreatedAt: now,
	}
	if v := strings.TrimSpace(t.VehicleLabel); v != "" {
		row.VehicleLabel = &v
	}
	if t.EndTime != "" {
		end, err := time.Parse(time.RFC3339, t.EndTime)
		if err != nil {
			return triprepo.Trip{}, fmt.Errorf("endTime: %w", err)
		}
		if end.Before(start) {
			return triprepo.Trip{}, errors.New("endTime is before startTime")
		}
		end = end.UTC()
		row.EndTime = &end
	}
	if t.DistanceKm != "" {
		d, err := parseAmount("distanceKm", domain.QuantityPlaces, t.DistanceKm)
		if err != nil {
			return triprepo.Trip{}, err
		}
		row.DistanceKm = &d
	}
	if t.FuelLiters != "" {
		f, err := parseAmount("fuelLiters", domain.QuantityPlaces, t.FuelLiters)
		if err != nil {
			return triprepo.Trip{}, err
		}
		row.FuelLiters = &f
	}
	return row, nil
}

// parseAmount parses a required non-negative decimal with at most places fractional digits.
func parseAmount(field string, places int32, s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, fmt.Errorf("%s is required", field)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", field, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must be >= 0", field)
	}
	if !domain.FitsPlaces(d, places) {
		return decimal.Zero, fmt.Errorf("%s must have at most %d decimal places", field, places)
	}
	return d, nil
}

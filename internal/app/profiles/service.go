package profiles

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/innocentmk82/efecosall-sub001/internal/domain"
	clockport "github.com/innocentmk82/efecosall-sub001/internal/ports/out/clock"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/grouprepo"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/profilerepo"
)

type Service struct {
	profiles profilerepo.Repository
	groups   grouprepo.Repository
	clk      clockport.Clock
	logger   *slog.Logger

	newProfileID func() domain.ProfileID
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(profiles profilerepo.Repository, groups grouprepo.Repository, clk clockport.Clock, opts ...Option) *Service {
	s := &Service{
		profiles: profiles,
		groups:   groups,
		clk:      clk,
		logger:   slog.Default(),
		newProfileID: func() domain.ProfileID {
			return domain.ProfileID(uuid.NewString())
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetNewProfileIDForTest overrides profile ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewProfileIDForTest(fn func() domain.ProfileID) {
	if fn != nil {
		s.newProfileID = fn
	}
}

func (s *Service) GetMyProfile(ctx context.Context, subject domain.SubjectID) (domain.Profile, error) {
	p, err := s.profiles.GetBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, profilerepo.ErrNotFound) {
			return nil, notProvisioned(err)
		}
		return nil, err
	}
	return profilerepo.ToDomain(p)
}

func (s *Service) CreateMyProfile(ctx context.Context, subject domain.SubjectID, in CreateMyProfileInput) (domain.Profile, error) {
	// Ensure no existing binding.
	if _, err := s.profiles.GetBySubject(ctx, subject); err == nil {
		return nil, alreadyExists(nil)
	} else if !errors.Is(err, profilerepo.ErrNotFound) {
		return nil, err
	}

	displayName := domain.NormalizeHumanName(in.DisplayName)
	if displayName == "" {
		return nil, validation("invalid displayName", "displayName", "must be non-empty")
	}

	now := s.clk.Now()
	row := profilerepo.Profile{
		ID:          s.newProfileID(),
		Subject:     subject,
		DisplayName: displayName,
		Role:        in.Role,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	switch in.Role {
	case domain.RoleCitizen:
		if in.BusinessGroupID != nil {
			return nil, validation("invalid businessGroupId", "businessGroupId", "citizens do not belong to a business group")
		}
		if in.PersonalBudget == nil {
			return nil, validation("invalid personalBudget", "personalBudget", "required for citizens")
		}
		if err := checkPersonalBudget(*in.PersonalBudget); err != nil {
			return nil, err
		}
		b := *in.PersonalBudget
		row.PersonalBudget = &b
	case domain.RoleDriver:
		if in.PersonalBudget != nil {
			return nil, validation("invalid personalBudget", "personalBudget", "drivers do not set a personal budget")
		}
		if in.BusinessGroupID == nil || *in.BusinessGroupID == "" {
			return nil, validation("invalid businessGroupId", "businessGroupId", "required for drivers")
		}
		g, err := s.groups.GetByID(ctx, *in.BusinessGroupID)
		if err != nil {
			if errors.Is(err, grouprepo.ErrNotFound) {
				return nil, validation("invalid businessGroupId", "businessGroupId", "group does not exist")
			}
			return nil, err
		}
		gid := g.ID
		limit := g.DefaultMonthlyFuelLimit
		row.BusinessGroupID = &gid
		row.MonthlyFuelLimit = &limit
	default:
		return nil, validation("invalid role", "role", "must be citizen or driver")
	}

	if err := s.profiles.Create(ctx, row); err != nil {
		if errors.Is(err, profilerepo.ErrSubjectAlreadyBound) {
			return nil, alreadyExists(err)
		}
		if errors.Is(err, profilerepo.ErrAlreadyExists) {
			return nil, &Error{Status: 409, Code: "PROFILE_ID_CONFLICT", Message: "profile id conflict", Err: err}
		}
		return nil, err
	}
	s.logger.InfoContext(ctx, "profile created",
		slog.String("profile_id", string(row.ID)),
		slog.String("role", string(row.Role)),
	)
	return profilerepo.ToDomain(row)
}

func (s *Service) UpdateMyProfile(ctx context.Context, subject domain.SubjectID, in UpdateMyProfileInput) (domain.Profile, error) {
	row, err := s.profiles.GetBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, profilerepo.ErrNotFound) {
			return nil, notProvisioned(err)
		}
		return nil, err
	}

	if in.DisplayName.IsSpecified() {
		if in.DisplayName.IsNull() {
			return nil, validation("invalid displayName", "displayName", "cannot be null")
		}
		name := domain.NormalizeHumanName(in.DisplayName.Value())
		if name == "" {
			return nil, validation("invalid displayName", "displayName", "must be non-empty")
		}
		row.DisplayName = name
	}

	if in.PersonalBudget.IsSpecified() {
		if row.Role != domain.RoleCitizen {
			return nil, validation("invalid personalBudget", "personalBudget", "only citizens set a personal budget")
		}
		if in.PersonalBudget.IsNull() {
			return nil, validation("invalid personalBudget", "personalBudget", "cannot be null")
		}
		b := in.PersonalBudget.Value()
		if err := checkPersonalBudget(b); err != nil {
			return nil, err
		}
		row.PersonalBudget = &b
	}

	row.UpdatedAt = s.clk.Now()
	if err := s.profiles.Update(ctx, row); err != nil {
		if errors.Is(err, profilerepo.ErrNotFound) {
			return nil, notProvisioned(err)
		}
		return nil, err
	}
	return profilerepo.ToDomain(row)
}

// SetDriverLimit sets a driver's monthly fuel limit. Only the owner of the driver's group may do it.
func (s *Service) SetDriverLimit(ctx context.Context, caller domain.ProfileID, groupID domain.GroupID, driverID domain.ProfileID, limit decimal.Decimal) (domain.DriverProfile, error) {
	if limit.IsNegative() {
		return domain.DriverProfile{}, &Error{
			Status:  422,
			Code:    "INVALID_LIMIT",
			Message: "invalid monthlyFuelLimit",
			Details: map[string]any{"monthlyFuelLimit": "must be >= 0"},
		}
	}
	if !domain.FitsPlaces(limit, domain.MoneyPlaces) {
		return domain.DriverProfile{}, &Error{
			Status:  422,
			Code:    "INVALID_LIMIT",
			Message: "invalid monthlyFuelLimit",
			Details: map[string]any{"monthlyFuelLimit": "at most 2 decimal places"},
		}
	}

	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, grouprepo.ErrNotFound) {
			return domain.DriverProfile{}, &Error{Status: 404, Code: "GROUP_NOT_FOUND", Message: "group not found", Err: err}
		}
		return domain.DriverProfile{}, err
	}
	if g.OwnerID != caller {
		return domain.DriverProfile{}, &Error{Status: 403, Code: "FORBIDDEN", Message: "only the group owner may set driver limits"}
	}

	row, err := s.profiles.GetByID(ctx, driverID)
	if err != nil {
		if errors.Is(err, profilerepo.ErrNotFound) {
			return domain.DriverProfile{}, driverNotFound(err)
		}
		return domain.DriverProfile{}, err
	}
	if row.Role != domain.RoleDriver || row.BusinessGroupID == nil || *row.BusinessGroupID != groupID {
		return domain.DriverProfile{}, driverNotFound(nil)
	}

	l := limit
	row.MonthlyFuelLimit = &l
	row.UpdatedAt = s.clk.Now()
	if err := s.profiles.Update(ctx, row); err != nil {
		return domain.DriverProfile{}, err
	}
	s.logger.InfoContext(ctx, "driver limit set",
		slog.String("group_id", string(groupID)),
		slog.String("driver_id", string(driverID)),
		slog.String("limit", limit.String()),
	)

	p, err := profilerepo.ToDomain(row)
	if err != nil {
		return domain.DriverProfile{}, err
	}
	return p.(domain.DriverProfile), nil
}

// checkPersonalBudget applies the edit-flow rule: a citizen budget must be strictly positive
// and expressed in whole cents.
func checkPersonalBudget(b decimal.Decimal) error {
	if !b.IsPositive() {
		return &Error{
			Status:  422,
			Code:    "INVALID_LIMIT",
			Message: "invalid personalBudget",
			Details: map[string]any{"personalBudget": "must be > 0"},
		}
	}
	if !domain.FitsPlaces(b, domain.MoneyPlaces) {
		return &Error{
			Status:  422,
			Code:    "INVALID_LIMIT",
			Message: "invalid personalBudget",
			Details: map[string]any{"personalBudget": "at most 2 decimal places"},
		}
	}
	return nil
}

func validation(message, field, reason string) *Error {
	return &Error{Status: 422, Code: "VALIDATION_ERROR", Message: message, Details: map[string]any{field: reason}}
}

func notProvisioned(cause error) *Error {
	return &Error{
		Status:  404,
		Code:    "PROFILE_NOT_PROVISIONED",
		Message: "No profile exists for the authenticated subject.",
		Err:     cause,
	}
}

func alreadyExists(cause error) *Error {
	return &Error{
		Status:  409,
		Code:    "PROFILE_ALREADY_EXISTS",
		Message: "A profile already exists for the authenticated subject.",
		Err:     cause,
	}
}

func driverNotFound(cause error) *Error {
	return &Error{Status: 404, Code: "DRIVER_NOT_FOUND", Message: "driver not found in group", Err: cause}
}

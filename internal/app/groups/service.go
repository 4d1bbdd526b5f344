package groups

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
	groups   grouprepo.Repository
	profiles profilerepo.Repository
	clk      clockport.Clock
	logger   *slog.Logger

	newGroupID func() domain.GroupID
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(groups grouprepo.Repository, profiles profilerepo.Repository, clk clockport.Clock, opts ...Option) *Service {
	s := &Service{
		groups:   groups,
		profiles: profiles,
		clk:      clk,
		logger:   slog.Default(),
		newGroupID: func() domain.GroupID {
			return domain.GroupID(uuid.NewString())
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetNewGroupIDForTest overrides group ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewGroupIDForTest(fn func() domain.GroupID) {
	if fn != nil {
		s.newGroupID = fn
	}
}

// CreateGroup creates a business group owned by caller.
func (s *Service) CreateGroup(ctx context.Context, caller domain.ProfileID, name string, defaultLimit decimal.Decimal) (domain.BusinessGroup, error) {
	if _, err := s.profiles.GetByID(ctx, caller); err != nil {
		if errors.Is(err, profilerepo.ErrNotFound) {
			return domain.BusinessGroup{}, &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "invalid caller", Details: map[string]any{"profileId": "caller does not exist"}, Err: err}
		}
		return domain.BusinessGroup{}, err
	}

	n := domain.NormalizeHumanName(name)
	if n == "" {
		return domain.BusinessGroup{}, &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "invalid name", Details: map[string]any{"name": "must be non-empty"}}
	}
	if defaultLimit.IsNegative() {
		return domain.BusinessGroup{}, &Error{Status: 422, Code: "INVALID_LIMIT", Message: "invalid defaultMonthlyFuelLimit", Details: map[string]any{"defaultMonthlyFuelLimit": "must be >= 0"}}
	}
	if !domain.FitsPlaces(defaultLimit, domain.MoneyPlaces) {
		return domain.BusinessGroup{}, &Error{Status: 422, Code: "INVALID_LIMIT", Message: "invalid defaultMonthlyFuelLimit", Details: map[string]any{"defaultMonthlyFuelLimit": "at most 2 decimal places"}}
	}

	now := s.clk.Now()
	g := grouprepo.Group{
		ID:                      s.newGroupID(),
		Name:                    n,
		OwnerID:                 caller,
		DefaultMonthlyFuelLimit: defaultLimit,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if err := s.groups.Create(ctx, g); err != nil {
		if errors.Is(err, grouprepo.ErrAlreadyExists) {
			// Extremely unlikely (UUID collision); treat as conflict.
			return domain.BusinessGroup{}, &Error{Status: 409, Code: "GROUP_ID_CONFLICT", Message: "group id conflict", Err: err}
		}
		return domain.BusinessGroup{}, err
	}
	s.logger.InfoContext(ctx, "business group created",
		slog.String("group_id", string(g.ID)),
		slog.String("owner_id", string(caller)),
	)
	return toDomain(g), nil
}

// GetGroup is visible to the owner and to drivers of the group. Everyone else sees 404.
func (s *Service) GetGroup(ctx context.Context, caller domain.ProfileID, id domain.GroupID) (domain.BusinessGroup, error) {
	g, err := s.load(ctx, id)
	if err != nil {
		return domain.BusinessGroup{}, err
	}
	if g.OwnerID == caller {
		return toDomain(g), nil
	}
	p, err := s.profiles.GetByID(ctx, caller)
	if err != nil {
		if errors.Is(err, profilerepo.ErrNotFound) {
			return domain.BusinessGroup{}, groupNotFound(nil)
		}
		return domain.BusinessGroup{}, err
	}
	if p.Role != domain.RoleDriver || p.BusinessGroupID == nil || *p.BusinessGroupID != id {
		return domain.BusinessGroup{}, groupNotFound(nil)
	}
	return toDomain(g), nil
}

// ListMyGroups returns the groups caller owns, ordered by name.
func (s *Service) ListMyGroups(ctx context.Context, caller domain.ProfileID) ([]domain.BusinessGroup, error) {
	gs, err := s.groups.ListByOwner(ctx, caller)
	if err != nil {
		return nil, err
	}
	out := make([]domain.BusinessGroup, 0, len(gs))
	for _, g := range gs {
		out = append(out, toDomain(g))
	}
	return out, nil
}

// ListDrivers returns the group's drivers. Owner only.
func (s *Service) ListDrivers(ctx context.Context, caller domain.ProfileID, id domain.GroupID) ([]domain.DriverProfile, error) {
	g, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.OwnerID != caller {
		return nil, &Error{Status: 403, Code: "FORBIDDEN", Message: "only the group owner may list drivers"}
	}
	rows, err := s.profiles.ListByGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]domain.DriverProfile, 0, len(rows))
	for _, row := range rows {
		p, err := profilerepo.ToDomain(row)
		if err != nil {
			return nil, err
		}
		if d, ok := p.(domain.DriverProfile); ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *Service) load(ctx context.Context, id domain.GroupID) (grouprepo.Group, error) {
	g, err := s.groups.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, grouprepo.ErrNotFound) {
			return grouprepo.Group{}, groupNotFound(err)
		}
		return grouprepo.Group{}, err
	}
	return g, nil
}

func groupNotFound(cause error) *Error {
	return &Error{Status: 404, Code: "GROUP_NOT_FOUND", Message: "group not found", Err: cause}
}

func toDomain(g grouprepo.Group) domain.BusinessGroup {
	return domain.BusinessGroup{
		ID:                      g.ID,
		Name:                    g.Name,
		OwnerID:                 g.OwnerID,
		DefaultMonthlyFuelLimit: g.DefaultMonthlyFuelLimit,
		CreatedAt:               g.CreatedAt,
		UpdatedAt:               g.UpdatedAt,
	}
}

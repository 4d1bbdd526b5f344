package trips

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/innocentmk82/efecosall-sub001/internal/domain"
	clockport "github.com/innocentmk82/efecosall-sub001/internal/ports/out/clock"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/profilerepo"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/triprepo"
)

type Service struct {
	trips    triprepo.Repository
	profiles profilerepo.Repository
	clk      clockport.Clock
	loc      *time.Location
	logger   *slog.Logger

	newTripID func() domain.TripID
}

type Option func(s *Service)

// WithLocation sets the time zone that defines calendar months. Default UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(tripsRepo triprepo.Repository, profilesRepo profilerepo.Repository, clk clockport.Clock, opts ...Option) *Service {
	s := &Service{
		trips:    tripsRepo,
		profiles: profilesRepo,
		clk:      clk,
		loc:      time.UTC,
		logger:   slog.Default(),
		newTripID: func() domain.TripID {
			return domain.TripID(uuid.NewString())
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetNewTripIDForTest overrides trip ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewTripIDForTest(fn func() domain.TripID) {
	if fn != nil {
		s.newTripID = fn
	}
}

// RecordTrip stores a completed trip for caller. Driver trips are tagged with the
// driver's business group so the owner can total them.
func (s *Service) RecordTrip(ctx context.Context, caller domain.ProfileID, in RecordTripInput) (domain.TripRecord, error) {
	row, err := s.profiles.GetByID(ctx, caller)
	if err != nil {
		if errors.Is(err, profilerepo.ErrNotFound) {
			return domain.TripRecord{}, &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "invalid caller", Details: map[string]any{"profileId": "caller does not exist"}, Err: err}
		}
		return domain.TripRecord{}, err
	}
	p, err := profilerepo.ToDomain(row)
	if err != nil {
		return domain.TripRecord{}, err
	}

	if in.Cost.IsNegative() {
		return domain.TripRecord{}, &Error{
			Status:  422,
			Code:    "INVALID_TRIP_COST",
			Message: "invalid cost",
			Details: map[string]any{"cost": "must be >= 0"},
			Err:     domain.ErrNegativeCost,
		}
	}
	if !domain.FitsPlaces(in.Cost, domain.MoneyPlaces) {
		return domain.TripRecord{}, &Error{
			Status:  422,
			Code:    "INVALID_TRIP_COST",
			Message: "invalid cost",
			Details: map[string]any{"cost": "at most 2 decimal places"},
		}
	}
	if in.StartTime == nil || in.StartTime.IsZero() {
		return domain.TripRecord{}, validation("invalid startTime", "startTime", "required")
	}
	start := in.StartTime.UTC()
	var end *time.Time
	if in.EndTime != nil {
		if in.EndTime.Before(start) {
			return domain.TripRecord{}, validation("invalid endTime", "endTime", "must not be before startTime")
		}
		e := in.EndTime.UTC()
		end = &e
	}
	if in.DistanceKm != nil && in.DistanceKm.IsNegative() {
		return domain.TripRecord{}, validation("invalid distanceKm", "distanceKm", "must be >= 0")
	}
	if in.DistanceKm != nil && !domain.FitsPlaces(*in.DistanceKm, domain.QuantityPlaces) {
		return domain.TripRecord{}, validation("invalid distanceKm", "distanceKm", "at most 3 decimal places")
	}
	if in.FuelLiters != nil && in.FuelLiters.IsNegative() {
		return domain.TripRecord{}, validation("invalid fuelLiters", "fuelLiters", "must be >= 0")
	}
	if in.FuelLiters != nil && !domain.FitsPlaces(*in.FuelLiters, domain.QuantityPlaces) {
		return domain.TripRecord{}, validation("invalid fuelLiters", "fuelLiters", "at most 3 decimal places")
	}

	var label *string
	if in.VehicleLabel != nil {
		if v := domain.NormalizeHumanName(*in.VehicleLabel); v != "" {
			label = &v
		}
	}

	t := triprepo.Trip{
		ID:           s.newTripID(),
		OwnerID:      caller,
		VehicleLabel: label,
		StartTime:    start,
		EndTime:      end,
		DistanceKm:   in.DistanceKm,
		FuelLiters:   in.FuelLiters,
		Cost:         in.Cost,
		CreatedAt:    s.clk.Now(),
	}
	if d, ok := p.(domain.DriverProfile); ok {
		gid := d.BusinessGroupID
		t.BusinessGroupID = &gid
	}

	if err := s.trips.Create(ctx, t); err != nil {
		if errors.Is(err, triprepo.ErrAlreadyExists) {
			// Extremely unlikely (UUID collision); treat as conflict.
			return domain.TripRecord{}, &Error{Status: 409, Code: "TRIP_ID_CONFLICT", Message: "trip id conflict", Err: err}
		}
		return domain.TripRecord{}, err
	}
	s.logger.InfoContext(ctx, "trip recorded",
		slog.String("trip_id", string(t.ID)),
		slog.String("owner_id", string(caller)),
		slog.String("cost", t.Cost.String()),
	)
	return triprepo.ToDomain(t), nil
}

// ListMyTrips returns caller's trips in the calendar month named by month ("2006-01").
// An empty month means the current month.
func (s *Service) ListMyTrips(ctx context.Context, caller domain.ProfileID, month string) ([]domain.TripRecord, error) {
	w := clockport.CurrentMonth(s.clk, s.loc)
	if month != "" {
		parsed, err := domain.ParseMonth(month, s.loc)
		if err != nil {
			return nil, validation("invalid month", "month", "must be YYYY-MM")
		}
		w = parsed
	}

	ts, err := s.trips.ListInWindow(ctx, domain.OwnerScope(caller), w)
	if err != nil {
		return nil, err
	}
	out := make([]domain.TripRecord, 0, len(ts))
	for _, t := range ts {
		out = append(out, triprepo.ToDomain(t))
	}
	return out, nil
}

func validation(message, field, reason string) *Error {
	return &Error{Status: 422, Code: "VALIDATION_ERROR", Message: message, Details: map[string]any{field: reason}}
}

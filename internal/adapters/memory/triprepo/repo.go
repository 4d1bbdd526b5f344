package triprepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/innocentmk82/efecosall-sub001/internal/domain"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/triprepo"
)

// Repo is an in-memory implementation of triprepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.TripID]triprepo.Trip
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.TripID]triprepo.Trip),
	}
}

func (r *Repo) Create(ctx context.Context, t triprepo.Trip) error {
	_ = ctx
	if t.ID == "" {
		return triprepo.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[t.ID]; ok {
		return triprepo.ErrAlreadyExists
	}
	r.byID[t.ID] = cloneTrip(t)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.TripID) (triprepo.Trip, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return triprepo.Trip{}, triprepo.ErrNotFound
	}
	return cloneTrip(t), nil
}

func (r *Repo) ListInWindow(ctx context.Context, scope domain.TripScope, w domain.Window) ([]triprepo.Trip, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]triprepo.Trip, 0)
	for _, t := range r.byID {
		if !inScope(t, scope) || !w.Contains(t.StartTime) {
			continue
		}
		out = append(out, cloneTrip(t))
	}
	sortTripsByStartTime(out)
	return out, nil
}

func inScope(t triprepo.Trip, scope domain.TripScope) bool {
	if scope.IsGroup() {
		return t.BusinessGroupID != nil && *t.BusinessGroupID == scope.BusinessGroupID
	}
	return t.OwnerID == scope.OwnerID
}

func sortTripsByStartTime(ts []triprepo.Trip) {
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].StartTime.Equal(ts[j].StartTime) {
			return string(ts[i].ID) < string(ts[j].ID)
		}
		return ts[i].StartTime.Before(ts[j].StartTime)
	})
}

func cloneTrip(t triprepo.Trip) triprepo.Trip {
	out := t
	if t.BusinessGroupID != nil {
		v := *t.BusinessGroupID
		out.BusinessGroupID = &v
	}
	if t.VehicleLabel != nil {
		v := *t.VehicleLabel
		out.VehicleLabel = &v
	}
	out.EndTime = cloneTimePtr(t.EndTime)
	out.DistanceKm = cloneDecimalPtr(t.DistanceKm)
	out.FuelLiters = cloneDecimalPtr(t.FuelLiters)
	return out
}

func cloneTimePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneDecimalPtr(p *decimal.Decimal) *decimal.Decimal {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

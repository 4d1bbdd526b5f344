package profilerepo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/innocentmk82/efecosall-sub001/internal/domain"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/profilerepo"
)

// Repo is an in-memory implementation of profilerepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID    map[domain.ProfileID]profilerepo.Profile
	idBySub map[domain.SubjectID]domain.ProfileID
}

func NewRepo() *Repo {
	return &Repo{
		byID:    make(map[domain.ProfileID]profilerepo.Profile),
		idBySub: make(map[domain.SubjectID]domain.ProfileID),
	}
}

func (r *Repo) Create(ctx context.Context, p profilerepo.Profile) error {
	_ = ctx
	if p.ID == "" {
		return profilerepo.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.ID]; ok {
		return profilerepo.ErrAlreadyExists
	}
	if existingID, ok := r.idBySub[p.Subject]; ok && existingID != "" {
		return profilerepo.ErrSubjectAlreadyBound
	}

	r.byID[p.ID] = cloneProfile(p)
	r.idBySub[p.Subject] = p.ID
	return nil
}

func (r *Repo) Update(ctx context.Context, p profilerepo.Profile) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[p.ID]
	if !ok {
		return profilerepo.ErrNotFound
	}
	// Subject binding is immutable.
	if existing.Subject != p.Subject {
		return profilerepo.ErrSubjectAlreadyBound
	}

	r.byID[p.ID] = cloneProfile(p)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ProfileID) (profilerepo.Profile, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return profilerepo.Profile{}, profilerepo.ErrNotFound
	}
	return cloneProfile(p), nil
}

func (r *Repo) GetBySubject(ctx context.Context, subject domain.SubjectID) (profilerepo.Profile, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.idBySub[subject]
	if !ok {
		return profilerepo.Profile{}, profilerepo.ErrNotFound
	}
	p, ok := r.byID[id]
	if !ok {
		return profilerepo.Profile{}, profilerepo.ErrNotFound
	}
	return cloneProfile(p), nil
}

func (r *Repo) ListByGroup(ctx context.Context, groupID domain.GroupID) ([]profilerepo.Profile, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]profilerepo.Profile, 0)
	for _, p := range r.byID {
		if p.BusinessGroupID == nil || *p.BusinessGroupID != groupID {
			continue
		}
		out = append(out, cloneProfile(p))
	}
	sortProfilesByDisplayName(out)
	return out, nil
}

func cloneProfile(p profilerepo.Profile) profilerepo.Profile {
	out := p
	out.PersonalBudget = cloneDecimalPtr(p.PersonalBudget)
	out.MonthlyFuelLimit = cloneDecimalPtr(p.MonthlyFuelLimit)
	if p.BusinessGroupID != nil {
		v := *p.BusinessGroupID
		out.BusinessGroupID = &v
	}
	return out
}

func cloneDecimalPtr(p *decimal.Decimal) *decimal.Decimal {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func sortProfilesByDisplayName(ps []profilerepo.Profile) {
	sort.Slice(ps, func(i, j int) bool {
		di := strings.ToLower(ps[i].DisplayName)
		dj := strings.ToLower(ps[j].DisplayName)
		if di == dj {
			return string(ps[i].ID) < string(ps[j].ID)
		}
		return di < dj
	})
}

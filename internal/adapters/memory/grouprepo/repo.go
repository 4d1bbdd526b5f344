package grouprepo

import (
	"context"
	"sort"
	"sync"

	"github.com/innocentmk82/efecosall-sub001/internal/domain"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/grouprepo"
)

// Repo is an in-memory implementation of grouprepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.GroupID]grouprepo.Group
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.GroupID]grouprepo.Group)}
}

func (r *Repo) Create(ctx context.Context, g grouprepo.Group) error {
	_ = ctx
	if g.ID == "" {
		return grouprepo.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[g.ID]; ok {
		return grouprepo.ErrAlreadyExists
	}
	r.byID[g.ID] = g
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.GroupID) (grouprepo.Group, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.byID[id]
	if !ok {
		return grouprepo.Group{}, grouprepo.ErrNotFound
	}
	return g, nil
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.ProfileID) ([]grouprepo.Group, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]grouprepo.Group, 0)
	for _, g := range r.byID {
		if g.OwnerID == owner {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

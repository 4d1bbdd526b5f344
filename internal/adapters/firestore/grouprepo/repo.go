package grouprepo

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"

	fsadapter "github.com/innocentmk82/efecosall-sub001/internal/adapters/firestore"
	"github.com/innocentmk82/efecosall-sub001/internal/domain"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/grouprepo"
)

// Repo is a Firestore implementation of grouprepo.Repository.
type Repo struct {
	client *firestore.Client
}

func NewRepo(client *firestore.Client) *Repo {
	return &Repo{client: client}
}

type groupDoc struct {
	Name                    string    `firestore:"name"`
	OwnerID                 string    `firestore:"ownerId"`
	DefaultMonthlyFuelLimit string    `firestore:"defaultMonthlyFuelLimit"`
	CreatedAt               time.Time `firestore:"createdAt"`
	UpdatedAt               time.Time `firestore:"updatedAt"`
}

func (r *Repo) groups() *firestore.CollectionRef {
	return r.client.Collection(fsadapter.GroupsCollection)
}

func (r *Repo) Create(ctx context.Context, g grouprepo.Group) error {
	if g.ID == "" {
		return grouprepo.ErrInvalidID
	}
	_, err := r.groups().Doc(string(g.ID)).Create(ctx, groupDoc{
		Name:                    g.Name,
		OwnerID:                 string(g.OwnerID),
		DefaultMonthlyFuelLimit: g.DefaultMonthlyFuelLimit.String(),
		CreatedAt:               g.CreatedAt.UTC(),
		UpdatedAt:               g.UpdatedAt.UTC(),
	})
	if fsadapter.IsAlreadyExists(err) {
		return grouprepo.ErrAlreadyExists
	}
	return fsadapter.Classify(err)
}

func (r *Repo) GetByID(ctx context.Context, id domain.GroupID) (grouprepo.Group, error) {
	if id == "" {
		return grouprepo.Group{}, grouprepo.ErrNotFound
	}
	snap, err := r.groups().Doc(string(id)).Get(ctx)
	if err != nil {
		if fsadapter.IsNotFound(err) {
			return grouprepo.Group{}, grouprepo.ErrNotFound
		}
		return grouprepo.Group{}, fsadapter.Classify(err)
	}
	return fromSnapshot(snap)
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.ProfileID) ([]grouprepo.Group, error) {
	snaps, err := r.groups().Where("ownerId", "==", string(owner)).Documents(ctx).GetAll()
	if err != nil {
		return nil, fsadapter.Classify(err)
	}
	out := make([]grouprepo.Group, 0, len(snaps))
	for _, snap := range snaps {
		g, err := fromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func fromSnapshot(snap *firestore.DocumentSnapshot) (grouprepo.Group, error) {
	var doc groupDoc
	if err := snap.DataTo(&doc); err != nil {
		return grouprepo.Group{}, err
	}
	limit, err := fsadapter.ParseDecimal(doc.DefaultMonthlyFuelLimit)
	if err != nil {
		return grouprepo.Group{}, err
	}
	return grouprepo.Group{
		ID:                      domain.GroupID(snap.Ref.ID),
		Name:                    doc.Name,
		OwnerID:                 domain.ProfileID(doc.OwnerID),
		DefaultMonthlyFuelLimit: limit,
		CreatedAt:               doc.CreatedAt.UTC(),
		UpdatedAt:               doc.UpdatedAt.UTC(),
	}, nil
}

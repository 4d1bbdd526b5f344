package profilerepo

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	fsadapter "github.com/innocentmk82/efecosall-sub001/internal/adapters/firestore"
	"github.com/innocentmk82/efecosall-sub001/internal/domain"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/profilerepo"
)

// Repo is a Firestore implementation of profilerepo.Repository.
//
// Subject uniqueness is enforced with a companion document in profileSubjects keyed by
// the subject, written in the same transaction as the profile.
type Repo struct {
	client *firestore.Client
}

func NewRepo(client *firestore.Client) *Repo {
	return &Repo{client: client}
}

type profileDoc struct {
	Subject          string    `firestore:"subject"`
	DisplayName      string    `firestore:"displayName"`
	Role             string    `firestore:"role"`
	PersonalBudget   *string   `firestore:"personalBudget"`
	BusinessGroupID  *string   `firestore:"businessGroupId"`
	MonthlyFuelLimit *string   `firestore:"monthlyFuelLimit"`
	CreatedAt        time.Time `firestore:"createdAt"`
	UpdatedAt        time.Time `firestore:"updatedAt"`
}

type subjectDoc struct {
	ProfileID string `firestore:"profileId"`
}

func (r *Repo) profiles() *firestore.CollectionRef {
	return r.client.Collection(fsadapter.ProfilesCollection)
}

func (r *Repo) subjects() *firestore.CollectionRef {
	return r.client.Collection(fsadapter.ProfileSubjectsCollection)
}

func (r *Repo) Create(ctx context.Context, p profilerepo.Profile) error {
	if p.ID == "" {
		return profilerepo.ErrInvalidID
	}
	profileRef := r.profiles().Doc(string(p.ID))
	subjectRef := r.subjects().Doc(string(p.Subject))

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(profileRef); err == nil {
			return profilerepo.ErrAlreadyExists
		} else if !fsadapter.IsNotFound(err) {
			return err
		}
		if _, err := tx.Get(subjectRef); err == nil {
			return profilerepo.ErrSubjectAlreadyBound
		} else if !fsadapter.IsNotFound(err) {
			return err
		}
		if err := tx.Create(profileRef, toDoc(p)); err != nil {
			return err
		}
		return tx.Create(subjectRef, subjectDoc{ProfileID: string(p.ID)})
	})
	if errors.Is(err, profilerepo.ErrAlreadyExists) || errors.Is(err, profilerepo.ErrSubjectAlreadyBound) {
		return err
	}
	if fsadapter.IsAlreadyExists(err) {
		return profilerepo.ErrAlreadyExists
	}
	return fsadapter.Classify(err)
}

func (r *Repo) Update(ctx context.Context, p profilerepo.Profile) error {
	ref := r.profiles().Doc(string(p.ID))
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if fsadapter.IsNotFound(err) {
				return profilerepo.ErrNotFound
			}
			return err
		}
		var existing profileDoc
		if err := snap.DataTo(&existing); err != nil {
			return err
		}
		// Subject binding is immutable.
		if existing.Subject != string(p.Subject) {
			return profilerepo.ErrSubjectAlreadyBound
		}
		doc := toDoc(p)
		doc.CreatedAt = existing.CreatedAt
		return tx.Set(ref, doc)
	})
	if errors.Is(err, profilerepo.ErrNotFound) || errors.Is(err, profilerepo.ErrSubjectAlreadyBound) {
		return err
	}
	return fsadapter.Classify(err)
}

func (r *Repo) GetByID(ctx context.Context, id domain.ProfileID) (profilerepo.Profile, error) {
	if id == "" {
		return profilerepo.Profile{}, profilerepo.ErrNotFound
	}
	snap, err := r.profiles().Doc(string(id)).Get(ctx)
	if err != nil {
		if fsadapter.IsNotFound(err) {
			return profilerepo.Profile{}, profilerepo.ErrNotFound
		}
		return profilerepo.Profile{}, fsadapter.Classify(err)
	}
	return fromSnapshot(snap)
}

func (r *Repo) GetBySubject(ctx context.Context, subject domain.SubjectID) (profilerepo.Profile, error) {
	if subject == "" {
		return profilerepo.Profile{}, profilerepo.ErrNotFound
	}
	snap, err := r.subjects().Doc(string(subject)).Get(ctx)
	if err != nil {
		if fsadapter.IsNotFound(err) {
			return profilerepo.Profile{}, profilerepo.ErrNotFound
		}
		return profilerepo.Profile{}, fsadapter.Classify(err)
	}
	var s subjectDoc
	if err := snap.DataTo(&s); err != nil {
		return profilerepo.Profile{}, err
	}
	return r.GetByID(ctx, domain.ProfileID(s.ProfileID))
}

func (r *Repo) ListByGroup(ctx context.Context, groupID domain.GroupID) ([]profilerepo.Profile, error) {
	snaps, err := r.profiles().Where("businessGroupId", "==", string(groupID)).Documents(ctx).GetAll()
	if err != nil {
		return nil, fsadapter.Classify(err)
	}
	out := make([]profilerepo.Profile, 0, len(snaps))
	for _, snap := range snaps {
		p, err := fromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	// Sorted client-side so no composite index is required.
	sort.Slice(out, func(i, j int) bool {
		di, dj := strings.ToLower(out[i].DisplayName), strings.ToLower(out[j].DisplayName)
		if di == dj {
			return out[i].ID < out[j].ID
		}
		return di < dj
	})
	return out, nil
}

func toDoc(p profilerepo.Profile) profileDoc {
	doc := profileDoc{
		Subject:          string(p.Subject),
		DisplayName:      p.DisplayName,
		Role:             string(p.Role),
		PersonalBudget:   fsadapter.DecimalString(p.PersonalBudget),
		MonthlyFuelLimit: fsadapter.DecimalString(p.MonthlyFuelLimit),
		CreatedAt:        p.CreatedAt.UTC(),
		UpdatedAt:        p.UpdatedAt.UTC(),
	}
	if p.BusinessGroupID != nil {
		v := string(*p.BusinessGroupID)
		doc.BusinessGroupID = &v
	}
	return doc
}

func fromSnapshot(snap *firestore.DocumentSnapshot) (profilerepo.Profile, error) {
	var doc profileDoc
	if err := snap.DataTo(&doc); err != nil {
		return profilerepo.Profile{}, err
	}
	budget, err := fsadapter.ParseNullableDecimal(doc.PersonalBudget)
	if err != nil {
		return profilerepo.Profile{}, err
	}
	limit, err := fsadapter.ParseNullableDecimal(doc.MonthlyFuelLimit)
	if err != nil {
		return profilerepo.Profile{}, err
	}
	out := profilerepo.Profile{
		ID:               domain.ProfileID(snap.Ref.ID),
		Subject:          domain.SubjectID(doc.Subject),
		DisplayName:      doc.DisplayName,
		Role:             domain.Role(doc.Role),
		PersonalBudget:   budget,
		MonthlyFuelLimit: limit,
		CreatedAt:        doc.CreatedAt.UTC(),
		UpdatedAt:        doc.UpdatedAt.UTC(),
	}
	if doc.BusinessGroupID != nil {
		v := domain.GroupID(*doc.BusinessGroupID)
		out.BusinessGroupID = &v
	}
	return out, nil
}

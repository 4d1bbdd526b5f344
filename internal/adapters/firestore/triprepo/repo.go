package triprepo

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"

	fsadapter "github.com/innocentmk82/efecosall-sub001/internal/adapters/firestore"
	"github.com/innocentmk82/efecosall-sub001/internal/domain"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/triprepo"
)

// Repo is a Firestore implementation of triprepo.Repository.
//
// Window queries combine an equality filter on ownerId or businessGroupId with a range on
// startTime; production projects need the matching composite indexes.
type Repo struct {
	client *firestore.Client
}

func NewRepo(client *firestore.Client) *Repo {
	return &Repo{client: client}
}

type tripDoc struct {
	OwnerID         string     `firestore:"ownerId"`
	BusinessGroupID *string    `firestore:"businessGroupId"`
	VehicleLabel    *string    `firestore:"vehicleLabel"`
	StartTime       time.Time  `firestore:"startTime"`
	EndTime         *time.Time `firestore:"endTime"`
	DistanceKm      *string    `firestore:"distanceKm"`
	FuelLiters      *string    `firestore:"fuelLiters"`
	Cost            string     `firestore:"cost"`
	CreatedAt       time.Time  `firestore:"createdAt"`
}

func (r *Repo) trips() *firestore.CollectionRef {
	return r.client.Collection(fsadapter.TripsCollection)
}

func (r *Repo) Create(ctx context.Context, t triprepo.Trip) error {
	if t.ID == "" {
		return triprepo.ErrInvalidID
	}
	doc := tripDoc{
		OwnerID:      string(t.OwnerID),
		VehicleLabel: t.VehicleLabel,
		StartTime:    t.StartTime.UTC(),
		EndTime:      t.EndTime,
		DistanceKm:   fsadapter.DecimalString(t.DistanceKm),
		FuelLiters:   fsadapter.DecimalString(t.FuelLiters),
		Cost:         t.Cost.String(),
		CreatedAt:    t.CreatedAt.UTC(),
	}
	if t.BusinessGroupID != nil {
		v := string(*t.BusinessGroupID)
		doc.BusinessGroupID = &v
	}
	_, err := r.trips().Doc(string(t.ID)).Create(ctx, doc)
	if fsadapter.IsAlreadyExists(err) {
		return triprepo.ErrAlreadyExists
	}
	return fsadapter.Classify(err)
}

func (r *Repo) GetByID(ctx context.Context, id domain.TripID) (triprepo.Trip, error) {
	if id == "" {
		return triprepo.Trip{}, triprepo.ErrNotFound
	}
	snap, err := r.trips().Doc(string(id)).Get(ctx)
	if err != nil {
		if fsadapter.IsNotFound(err) {
			return triprepo.Trip{}, triprepo.ErrNotFound
		}
		return triprepo.Trip{}, fsadapter.Classify(err)
	}
	return fromSnapshot(snap)
}

func (r *Repo) ListInWindow(ctx context.Context, scope domain.TripScope, w domain.Window) ([]triprepo.Trip, error) {
	field, value := "ownerId", string(scope.OwnerID)
	if scope.IsGroup() {
		field, value = "businessGroupId", string(scope.BusinessGroupID)
	}
	snaps, err := r.trips().
		Where(field, "==", value).
		Where("startTime", ">=", w.Start.UTC()).
		Where("startTime", "<", w.End.UTC()).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fsadapter.Classify(err)
	}

	out := make([]triprepo.Trip, 0, len(snaps))
	for _, snap := range snaps {
		t, err := fromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out, nil
}

func fromSnapshot(snap *firestore.DocumentSnapshot) (triprepo.Trip, error) {
	var doc tripDoc
	if err := snap.DataTo(&doc); err != nil {
		return triprepo.Trip{}, err
	}
	cost, err := fsadapter.ParseDecimal(doc.Cost)
	if err != nil {
		return triprepo.Trip{}, err
	}
	dist, err := fsadapter.ParseNullableDecimal(doc.DistanceKm)
	if err != nil {
		return triprepo.Trip{}, err
	}
	fuel, err := fsadapter.ParseNullableDecimal(doc.FuelLiters)
	if err != nil {
		return triprepo.Trip{}, err
	}
	out := triprepo.Trip{
		ID:           domain.TripID(snap.Ref.ID),
		OwnerID:      domain.ProfileID(doc.OwnerID),
		VehicleLabel: doc.VehicleLabel,
		StartTime:    doc.StartTime.UTC(),
		DistanceKm:   dist,
		FuelLiters:   fuel,
		Cost:         cost,
		CreatedAt:    doc.CreatedAt.UTC(),
	}
	if doc.BusinessGroupID != nil {
		v := domain.GroupID(*doc.BusinessGroupID)
		out.BusinessGroupID = &v
	}
	if doc.EndTime != nil {
		v := doc.EndTime.UTC()
		out.EndTime = &v
	}
	return out, nil
}

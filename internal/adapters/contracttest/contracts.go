package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/innocentmk82/efecosall-sub001/internal/domain"
	grouprepoport "github.com/innocentmk82/efecosall-sub001/internal/ports/out/grouprepo"
	idempotencyport "github.com/innocentmk82/efecosall-sub001/internal/ports/out/idempotency"
	profilerepoport "github.com/innocentmk82/efecosall-sub001/internal/ports/out/profilerepo"
	triprepoport "github.com/innocentmk82/efecosall-sub001/internal/ports/out/triprepo"
)

type CleanupFunc = func()

type ProfileRepoFactory func(t *testing.T) (profilerepoport.Repository, CleanupFunc)
type TripRepoFactory func(t *testing.T) (triprepoport.Repository, CleanupFunc)
type GroupRepoFactory func(t *testing.T) (grouprepoport.Repository, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	v := dec(s)
	return &v
}

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	fp := idempotencyport.Fingerprint{
		Key:      idempotencyport.Key("k-" + uuid.NewString()),
		Subject:  domain.SubjectID("sub-1"),
		Method:   "PATCH",
		Route:    "/profiles/me",
		BodyHash: "",
	}
	if _, ok, err := store.Get(ctx, fp); err != nil || ok {
		t.Fatalf("Get before Put: ok=%v err=%v", ok, err)
	}

	rec := idempotencyport.Record{
		StatusCode:  0,
		ContentType: "text/plain",
		Body:        []byte("hash-abc"),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}
	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if string(got.Body) != "hash-abc" || got.ContentType != "text/plain" || got.StatusCode != 0 {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte("hash-def")
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, fp)
	if err != nil || !ok || string(got.Body) != "hash-def" {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}

	// A different body hash is a different record.
	other := fp
	other.BodyHash = "other"
	if _, ok, err := store.Get(ctx, other); err != nil || ok {
		t.Fatalf("Get other fingerprint: ok=%v err=%v", ok, err)
	}
}

func RunProfileRepo(t *testing.T, newProfileRepo ProfileRepoFactory, newGroupRepo GroupRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newProfileRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}
	groups, gCleanup := newGroupRepo(t)
	if gCleanup != nil {
		t.Cleanup(gCleanup)
	}

	now := time.Unix(1000, 0).UTC()
	sfx := uuid.NewString()

	ownerID := domain.ProfileID(uuid.NewString())
	ownerSub := domain.SubjectID("sub-owner-" + sfx)
	if err := repo.Create(ctx, profilerepoport.Profile{
		ID:             ownerID,
		Subject:        ownerSub,
		DisplayName:    "Olive Owner",
		Role:           domain.RoleCitizen,
		PersonalBudget: decPtr("500.00"),
		CreatedAt:      now,
		UpdatedAt:      now,
	}); err != nil {
		t.Fatalf("Create owner: %v", err)
	}
	got, err := repo.GetByID(ctx, ownerID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Role != domain.RoleCitizen || got.PersonalBudget == nil || !got.PersonalBudget.Equal(dec("500")) {
		t.Fatalf("unexpected owner: %#v", got)
	}
	if got.BusinessGroupID != nil || got.MonthlyFuelLimit != nil {
		t.Fatalf("citizen should not carry driver fields: %#v", got)
	}
	if bySub, err := repo.GetBySubject(ctx, ownerSub); err != nil || bySub.ID != ownerID {
		t.Fatalf("GetBySubject: id=%q err=%v", bySub.ID, err)
	}

	if err := repo.Create(ctx, profilerepoport.Profile{
		Subject: domain.SubjectID("sub-blank-" + sfx), DisplayName: "Blank", Role: domain.RoleCitizen,
		PersonalBudget: decPtr("1"), CreatedAt: now, UpdatedAt: now,
	}); !errors.Is(err, profilerepoport.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}

	// Subject uniqueness.
	if err := repo.Create(ctx, profilerepoport.Profile{
		ID:             domain.ProfileID(uuid.NewString()),
		Subject:        ownerSub,
		DisplayName:    "Olive 2",
		Role:           domain.RoleCitizen,
		PersonalBudget: decPtr("1"),
		CreatedAt:      now,
		UpdatedAt:      now,
	}); !errors.Is(err, profilerepoport.ErrSubjectAlreadyBound) {
		t.Fatalf("expected ErrSubjectAlreadyBound, got %v", err)
	}

	if _, err := repo.GetByID(ctx, domain.ProfileID(uuid.NewString())); !errors.Is(err, profilerepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Update persists the new budget.
	got.PersonalBudget = decPtr("750.25")
	got.UpdatedAt = now.Add(time.Minute)
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if again, err := repo.GetByID(ctx, ownerID); err != nil || !again.PersonalBudget.Equal(dec("750.25")) {
		t.Fatalf("after Update: %#v err=%v", again, err)
	}

	groupID := domain.GroupID(uuid.NewString())
	if err := groups.Create(ctx, grouprepoport.Group{
		ID:                      groupID,
		Name:                    "Fleet " + sfx,
		OwnerID:                 ownerID,
		DefaultMonthlyFuelLimit: dec("1000"),
		CreatedAt:               now,
		UpdatedAt:               now,
	}); err != nil {
		t.Fatalf("Create group: %v", err)
	}

	// Drivers listed by display name, case-insensitive.
	for _, name := range []string{"zed", "Amy"} {
		gid := groupID
		if err := repo.Create(ctx, profilerepoport.Profile{
			ID:               domain.ProfileID(uuid.NewString()),
			Subject:          domain.SubjectID("sub-" + name + "-" + sfx),
			DisplayName:      name,
			Role:             domain.RoleDriver,
			BusinessGroupID:  &gid,
			MonthlyFuelLimit: decPtr("1000"),
			CreatedAt:        now,
			UpdatedAt:        now,
		}); err != nil {
			t.Fatalf("Create driver %s: %v", name, err)
		}
	}
	drivers, err := repo.ListByGroup(ctx, groupID)
	if err != nil {
		t.Fatalf("ListByGroup: %v", err)
	}
	if len(drivers) != 2 || drivers[0].DisplayName != "Amy" || drivers[1].DisplayName != "zed" {
		t.Fatalf("unexpected drivers: %#v", drivers)
	}
	if drivers[0].BusinessGroupID == nil || *drivers[0].BusinessGroupID != groupID {
		t.Fatalf("driver group not persisted: %#v", drivers[0])
	}
}

func RunGroupRepo(t *testing.T, newProfileRepo ProfileRepoFactory, newGroupRepo GroupRepoFactory) {
	t.Helper()
	ctx := context.Background()

	profiles, pCleanup := newProfileRepo(t)
	if pCleanup != nil {
		t.Cleanup(pCleanup)
	}
	repo, cleanup := newGroupRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1500, 0).UTC()
	ownerID := domain.ProfileID(uuid.NewString())
	if err := profiles.Create(ctx, profilerepoport.Profile{
		ID:             ownerID,
		Subject:        domain.SubjectID("sub-" + uuid.NewString()),
		DisplayName:    "Owner",
		Role:           domain.RoleCitizen,
		PersonalBudget: decPtr("10"),
		CreatedAt:      now,
		UpdatedAt:      now,
	}); err != nil {
		t.Fatalf("seed owner: %v", err)
	}

	ids := []domain.GroupID{domain.GroupID(uuid.NewString()), domain.GroupID(uuid.NewString())}
	for i, name := range []string{"Bravo", "Alpha"} {
		if err := repo.Create(ctx, grouprepoport.Group{
			ID:                      ids[i],
			Name:                    name,
			OwnerID:                 ownerID,
			DefaultMonthlyFuelLimit: dec("250.50"),
			CreatedAt:               now,
			UpdatedAt:               now,
		}); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}
	if err := repo.Create(ctx, grouprepoport.Group{ID: ids[0], Name: "dup", OwnerID: ownerID, CreatedAt: now, UpdatedAt: now}); !errors.Is(err, grouprepoport.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if err := repo.Create(ctx, grouprepoport.Group{Name: "blank", OwnerID: ownerID, CreatedAt: now, UpdatedAt: now}); !errors.Is(err, grouprepoport.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}

	g, err := repo.GetByID(ctx, ids[0])
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if g.Name != "Bravo" || g.OwnerID != ownerID || !g.DefaultMonthlyFuelLimit.Equal(dec("250.5")) {
		t.Fatalf("unexpected group: %#v", g)
	}
	if _, err := repo.GetByID(ctx, domain.GroupID(uuid.NewString())); !errors.Is(err, grouprepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	owned, err := repo.ListByOwner(ctx, ownerID)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(owned) != 2 || owned[0].Name != "Alpha" || owned[1].Name != "Bravo" {
		t.Fatalf("unexpected ordering: %#v", owned)
	}
}

// RunTripRepo exercises window and scope filtering. It needs profiles and a group seeded first.
func RunTripRepo(t *testing.T, newProfileRepo ProfileRepoFactory, newGroupRepo GroupRepoFactory, newTripRepo TripRepoFactory) {
	t.Helper()
	ctx := context.Background()

	profiles, pCleanup := newProfileRepo(t)
	if pCleanup != nil {
		t.Cleanup(pCleanup)
	}
	groups, gCleanup := newGroupRepo(t)
	if gCleanup != nil {
		t.Cleanup(gCleanup)
	}
	trips, tCleanup := newTripRepo(t)
	if tCleanup != nil {
		t.Cleanup(tCleanup)
	}

	now := time.Unix(2000, 0).UTC()
	ownerID := domain.ProfileID(uuid.NewString())
	driverID := domain.ProfileID(uuid.NewString())
	groupID := domain.GroupID(uuid.NewString())

	if err := profiles.Create(ctx, profilerepoport.Profile{
		ID: ownerID, Subject: domain.SubjectID("sub-" + uuid.NewString()), DisplayName: "Owner",
		Role: domain.RoleCitizen, PersonalBudget: decPtr("100"), CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("seed owner: %v", err)
	}
	if err := groups.Create(ctx, grouprepoport.Group{
		ID: groupID, Name: "Fleet", OwnerID: ownerID, DefaultMonthlyFuelLimit: dec("1000"), CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("seed group: %v", err)
	}
	gid := groupID
	if err := profiles.Create(ctx, profilerepoport.Profile{
		ID: driverID, Subject: domain.SubjectID("sub-" + uuid.NewString()), DisplayName: "Driver",
		Role: domain.RoleDriver, BusinessGroupID: &gid, MonthlyFuelLimit: decPtr("1000"), CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("seed driver: %v", err)
	}

	march := domain.MonthWindow(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), time.UTC)
	label := "Van 7"
	end := time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC)
	seed := []triprepoport.Trip{
		{ID: domain.TripID(uuid.NewString()), OwnerID: driverID, BusinessGroupID: &gid, VehicleLabel: &label,
			StartTime: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), EndTime: &end,
			DistanceKm: decPtr("42.5"), FuelLiters: decPtr("3.2"), Cost: dec("5.75"), CreatedAt: now},
		{ID: domain.TripID(uuid.NewString()), OwnerID: driverID, BusinessGroupID: &gid,
			StartTime: march.Start, Cost: dec("10.00"), CreatedAt: now},
		// Starts exactly at the next month boundary: excluded.
		{ID: domain.TripID(uuid.NewString()), OwnerID: driverID, BusinessGroupID: &gid,
			StartTime: march.End, Cost: dec("99"), CreatedAt: now},
		// Owner's personal trip, not tagged with the group.
		{ID: domain.TripID(uuid.NewString()), OwnerID: ownerID,
			StartTime: time.Date(2025, 3, 20, 9, 0, 0, 0, time.UTC), Cost: dec("7"), CreatedAt: now},
	}
	for _, tr := range seed {
		if err := trips.Create(ctx, tr); err != nil {
			t.Fatalf("Create trip: %v", err)
		}
	}
	if err := trips.Create(ctx, seed[0]); !errors.Is(err, triprepoport.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if err := trips.Create(ctx, triprepoport.Trip{OwnerID: ownerID, StartTime: march.Start, Cost: dec("1"), CreatedAt: now}); !errors.Is(err, triprepoport.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}

	got, err := trips.GetByID(ctx, seed[0].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.Cost.Equal(dec("5.75")) || got.VehicleLabel == nil || *got.VehicleLabel != label || got.EndTime == nil || !got.EndTime.Equal(end) {
		t.Fatalf("unexpected trip: %#v", got)
	}
	if got.DistanceKm == nil || !got.DistanceKm.Equal(dec("42.5")) {
		t.Fatalf("distance not persisted: %#v", got.DistanceKm)
	}

	mine, err := trips.ListInWindow(ctx, domain.OwnerScope(driverID), march)
	if err != nil {
		t.Fatalf("ListInWindow owner: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != seed[1].ID || mine[1].ID != seed[0].ID {
		t.Fatalf("unexpected owner trips: %#v", mine)
	}

	byGroup, err := trips.ListInWindow(ctx, domain.GroupScope(groupID), march)
	if err != nil {
		t.Fatalf("ListInWindow group: %v", err)
	}
	if len(byGroup) != 2 {
		t.Fatalf("unexpected group trips: %#v", byGroup)
	}

	ownerTrips, err := trips.ListInWindow(ctx, domain.OwnerScope(ownerID), march)
	if err != nil || len(ownerTrips) != 1 {
		t.Fatalf("owner personal trips: n=%d err=%v", len(ownerTrips), err)
	}

	april := domain.MonthWindow(march.End, time.UTC)
	next, err := trips.ListInWindow(ctx, domain.OwnerScope(driverID), april)
	if err != nil || len(next) != 1 || next[0].ID != seed[2].ID {
		t.Fatalf("april trips: %#v err=%v", next, err)
	}

	// Values at the stored precision read back unchanged on every backend.
	precise := triprepoport.Trip{
		ID: domain.TripID(uuid.NewString()), OwnerID: ownerID,
		StartTime:  time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC),
		DistanceKm: decPtr("1.125"), FuelLiters: decPtr("0.001"), Cost: dec("12.34"), CreatedAt: now,
	}
	if err := trips.Create(ctx, precise); err != nil {
		t.Fatalf("Create precise trip: %v", err)
	}
	back, err := trips.GetByID(ctx, precise.ID)
	if err != nil {
		t.Fatalf("GetByID precise trip: %v", err)
	}
	if !back.Cost.Equal(dec("12.34")) || !back.DistanceKm.Equal(dec("1.125")) || !back.FuelLiters.Equal(dec("0.001")) {
		t.Fatalf("precision lost: cost=%s distance=%s fuel=%s", back.Cost, back.DistanceKm, back.FuelLiters)
	}
}

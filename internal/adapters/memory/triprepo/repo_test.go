package triprepo

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/innocentmk82/efecosall-sub001/internal/domain"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/triprepo"
)

func TestRepo_ListInWindow_FiltersAndSorts(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	w := domain.MonthWindow(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), time.UTC)

	// Same start time: tie breaks by ID.
	start := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	_ = r.Create(context.Background(), triprepo.Trip{ID: "t3", OwnerID: "p1", StartTime: start, Cost: decimal.NewFromInt(1)})
	_ = r.Create(context.Background(), triprepo.Trip{ID: "t2", OwnerID: "p1", StartTime: start, Cost: decimal.NewFromInt(1)})
	_ = r.Create(context.Background(), triprepo.Trip{ID: "t1", OwnerID: "p1", StartTime: start.Add(-time.Hour), Cost: decimal.NewFromInt(1)})
	_ = r.Create(context.Background(), triprepo.Trip{ID: "t4", OwnerID: "p2", StartTime: start, Cost: decimal.NewFromInt(1)})
	_ = r.Create(context.Background(), triprepo.Trip{ID: "t5", OwnerID: "p1", StartTime: w.Start.Add(-time.Nanosecond), Cost: decimal.NewFromInt(1)})

	got, err := r.ListInWindow(context.Background(), domain.OwnerScope("p1"), w)
	if err != nil {
		t.Fatalf("ListInWindow() err=%v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len=%d, want 3", len(got))
	}
	if got[0].ID != "t1" || got[1].ID != "t2" || got[2].ID != "t3" {
		t.Fatalf("order=%v, want [t1 t2 t3]", []domain.TripID{got[0].ID, got[1].ID, got[2].ID})
	}
}

func TestRepo_GroupScopeIgnoresUntaggedTrips(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	g := domain.GroupID("g1")
	start := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	_ = r.Create(context.Background(), triprepo.Trip{ID: "t1", OwnerID: "p1", BusinessGroupID: &g, StartTime: start})
	_ = r.Create(context.Background(), triprepo.Trip{ID: "t2", OwnerID: "p1", StartTime: start})

	got, err := r.ListInWindow(context.Background(), domain.GroupScope(g), domain.MonthWindow(start, nil))
	if err != nil {
		t.Fatalf("ListInWindow() err=%v", err)
	}
	if len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("got=%v, want [t1]", got)
	}
}

func TestRepo_ReturnsClones(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	label := "Truck"
	_ = r.Create(context.Background(), triprepo.Trip{ID: "t1", OwnerID: "p1", VehicleLabel: &label})
	label = "mutated"

	got, err := r.GetByID(context.Background(), "t1")
	if err != nil {
		t.Fatalf("GetByID() err=%v", err)
	}
	if got.VehicleLabel == nil || *got.VehicleLabel != "Truck" {
		t.Fatalf("VehicleLabel=%v, want Truck", got.VehicleLabel)
	}
	*got.VehicleLabel = "again"
	again, _ := r.GetByID(context.Background(), "t1")
	if *again.VehicleLabel != "Truck" {
		t.Fatalf("stored trip mutated through returned pointer")
	}
}

func TestRepo_CreateRejectsDuplicateID(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	if err := r.Create(context.Background(), triprepo.Trip{ID: "t1"}); err != nil {
		t.Fatalf("Create() err=%v", err)
	}
	if err := r.Create(context.Background(), triprepo.Trip{ID: "t1"}); err != triprepo.ErrAlreadyExists {
		t.Fatalf("Create(dup) err=%v, want %v", err, triprepo.ErrAlreadyExists)
	}
}

func TestRepo_CreateRejectsEmptyID(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	if err := r.Create(context.Background(), triprepo.Trip{OwnerID: "p1"}); err != triprepo.ErrInvalidID {
		t.Fatalf("Create(empty id) err=%v, want %v", err, triprepo.ErrInvalidID)
	}
}

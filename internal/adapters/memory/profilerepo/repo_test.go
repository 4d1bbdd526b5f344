package profilerepo

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/innocentmk82/efecosall-sub001/internal/domain"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/profilerepo"
)

func TestRepo_CreateAndGet(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	now := time.Unix(100, 0).UTC()
	budget := decimal.NewFromInt(500)

	p := profilerepo.Profile{
		ID:             domain.ProfileID("p1"),
		Subject:        domain.SubjectID("sub-1"),
		DisplayName:    "Alice Smith",
		Role:           domain.RoleCitizen,
		PersonalBudget: &budget,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := r.Create(context.Background(), p); err != nil {
		t.Fatalf("Create() err=%v", err)
	}

	gotByID, err := r.GetByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("GetByID() err=%v", err)
	}
	if gotByID.ID != p.ID || gotByID.Subject != p.Subject || !gotByID.PersonalBudget.Equal(budget) {
		t.Fatalf("GetByID()=%+v, want %+v", gotByID, p)
	}

	gotBySub, err := r.GetBySubject(context.Background(), p.Subject)
	if err != nil {
		t.Fatalf("GetBySubject() err=%v", err)
	}
	if gotBySub.ID != p.ID {
		t.Fatalf("GetBySubject().ID=%q, want %q", gotBySub.ID, p.ID)
	}
}

func TestRepo_CreateRejectsDuplicateSubject(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	p1 := profilerepo.Profile{ID: "p1", Subject: "sub-1", DisplayName: "A", Role: domain.RoleCitizen}
	p2 := profilerepo.Profile{ID: "p2", Subject: "sub-1", DisplayName: "B", Role: domain.RoleCitizen}

	if err := r.Create(context.Background(), p1); err != nil {
		t.Fatalf("Create(p1) err=%v", err)
	}
	if err := r.Create(context.Background(), p2); err != profilerepo.ErrSubjectAlreadyBound {
		t.Fatalf("Create(p2) err=%v, want %v", err, profilerepo.ErrSubjectAlreadyBound)
	}
	if err := r.Create(context.Background(), profilerepo.Profile{ID: "p1", Subject: "sub-9"}); err != profilerepo.ErrAlreadyExists {
		t.Fatalf("Create(dup id) err=%v, want %v", err, profilerepo.ErrAlreadyExists)
	}
}

func TestRepo_UpdateRequiresExistingAndImmutableSubject(t *testing.T) {
	t.Parallel()

	r := NewRepo()

	p := profilerepo.Profile{ID: "p1", Subject: "sub-1", DisplayName: "Alice", Role: domain.RoleCitizen}
	if err := r.Update(context.Background(), p); err != profilerepo.ErrNotFound {
		t.Fatalf("Update(nonexistent) err=%v, want %v", err, profilerepo.ErrNotFound)
	}
	if err := r.Create(context.Background(), p); err != nil {
		t.Fatalf("Create() err=%v", err)
	}

	changed := p
	changed.Subject = "sub-2"
	if err := r.Update(context.Background(), changed); err != profilerepo.ErrSubjectAlreadyBound {
		t.Fatalf("Update(changed subject) err=%v, want %v", err, profilerepo.ErrSubjectAlreadyBound)
	}
}

func TestRepo_ListByGroupOnlyReturnsMembers(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	g1, g2 := domain.GroupID("g1"), domain.GroupID("g2")
	_ = r.Create(context.Background(), profilerepo.Profile{ID: "p2", Subject: "s2", DisplayName: "bob", Role: domain.RoleDriver, BusinessGroupID: &g1})
	_ = r.Create(context.Background(), profilerepo.Profile{ID: "p1", Subject: "s1", DisplayName: "Alice", Role: domain.RoleDriver, BusinessGroupID: &g1})
	_ = r.Create(context.Background(), profilerepo.Profile{ID: "p3", Subject: "s3", DisplayName: "Carl", Role: domain.RoleDriver, BusinessGroupID: &g2})
	_ = r.Create(context.Background(), profilerepo.Profile{ID: "p4", Subject: "s4", DisplayName: "Dee", Role: domain.RoleCitizen})

	got, err := r.ListByGroup(context.Background(), g1)
	if err != nil {
		t.Fatalf("ListByGroup() err=%v", err)
	}
	if len(got) != 2 || got[0].ID != "p1" || got[1].ID != "p2" {
		t.Fatalf("ListByGroup()=%v, want [p1 p2]", got)
	}
}

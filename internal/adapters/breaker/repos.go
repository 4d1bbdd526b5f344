package breaker

import (
	"context"

	"github.com/sony/gobreaker"

	"github.com/innocentmk82/efecosall-sub001/internal/domain"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/grouprepo"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/profilerepo"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/triprepo"
)

// ProfileRepo guards a profilerepo.Repository.
type ProfileRepo struct {
	next profilerepo.Repository
	cb   *gobreaker.CircuitBreaker
}

func NewProfileRepo(next profilerepo.Repository, s Settings) *ProfileRepo {
	return &ProfileRepo{
		next: next,
		cb: newBreaker("profiles", s,
			profilerepo.ErrNotFound,
			profilerepo.ErrAlreadyExists,
			profilerepo.ErrSubjectAlreadyBound,
			profilerepo.ErrInvalidID,
		),
	}
}

func (r *ProfileRepo) Create(ctx context.Context, p profilerepo.Profile) error {
	return exec(r.cb, func() error { return r.next.Create(ctx, p) })
}

func (r *ProfileRepo) Update(ctx context.Context, p profilerepo.Profile) error {
	return exec(r.cb, func() error { return r.next.Update(ctx, p) })
}

func (r *ProfileRepo) GetByID(ctx context.Context, id domain.ProfileID) (profilerepo.Profile, error) {
	return call(r.cb, func() (profilerepo.Profile, error) { return r.next.GetByID(ctx, id) })
}

func (r *ProfileRepo) GetBySubject(ctx context.Context, subject domain.SubjectID) (profilerepo.Profile, error) {
	return call(r.cb, func() (profilerepo.Profile, error) { return r.next.GetBySubject(ctx, subject) })
}

func (r *ProfileRepo) ListByGroup(ctx context.Context, groupID domain.GroupID) ([]profilerepo.Profile, error) {
	return call(r.cb, func() ([]profilerepo.Profile, error) { return r.next.ListByGroup(ctx, groupID) })
}

// TripRepo guards a triprepo.Repository.
type TripRepo struct {
	next triprepo.Repository
	cb   *gobreaker.CircuitBreaker
}

func NewTripRepo(next triprepo.Repository, s Settings) *TripRepo {
	return &TripRepo{
		next: next,
		cb:   newBreaker("trips", s, triprepo.ErrNotFound, triprepo.ErrAlreadyExists, triprepo.ErrInvalidID),
	}
}

func (r *TripRepo) Create(ctx context.Context, t triprepo.Trip) error {
	return exec(r.cb, func() error { return r.next.Create(ctx, t) })
}

func (r *TripRepo) GetByID(ctx context.Context, id domain.TripID) (triprepo.Trip, error) {
	return call(r.cb, func() (triprepo.Trip, error) { return r.next.GetByID(ctx, id) })
}

func (r *TripRepo) ListInWindow(ctx context.Context, scope domain.TripScope, w domain.Window) ([]triprepo.Trip, error) {
	return call(r.cb, func() ([]triprepo.Trip, error) { return r.next.ListInWindow(ctx, scope, w) })
}

// GroupRepo guards a grouprepo.Repository.
type GroupRepo struct {
	next grouprepo.Repository
	cb   *gobreaker.CircuitBreaker
}

func NewGroupRepo(next grouprepo.Repository, s Settings) *GroupRepo {
	return &GroupRepo{
		next: next,
		cb:   newBreaker("groups", s, grouprepo.ErrNotFound, grouprepo.ErrAlreadyExists, grouprepo.ErrInvalidID),
	}
}

func (r *GroupRepo) Create(ctx context.Context, g grouprepo.Group) error {
	return exec(r.cb, func() error { return r.next.Create(ctx, g) })
}

func (r *GroupRepo) GetByID(ctx context.Context, id domain.GroupID) (grouprepo.Group, error) {
	return call(r.cb, func() (grouprepo.Group, error) { return r.next.GetByID(ctx, id) })
}

func (r *GroupRepo) ListByOwner(ctx context.Context, owner domain.ProfileID) ([]grouprepo.Group, error) {
	return call(r.cb, func() ([]grouprepo.Group, error) { return r.next.ListByOwner(ctx, owner) })
}

var (
	_ profilerepo.Repository = (*ProfileRepo)(nil)
	_ triprepo.Repository    = (*TripRepo)(nil)
	_ grouprepo.Repository   = (*GroupRepo)(nil)
)

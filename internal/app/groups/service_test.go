package groups

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memclock "github.com/innocentmk82/efecosall-sub001/internal/adapters/memory/clock"
	memgrouprepo "github.com/innocentmk82/efecosall-sub001/internal/adapters/memory/grouprepo"
	memprofilerepo "github.com/innocentmk82/efecosall-sub001/internal/adapters/memory/profilerepo"
	"github.com/innocentmk82/efecosall-sub001/internal/domain"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/profilerepo"
)

type fixture struct {
	svc      *Service
	profiles *memprofilerepo.Repo
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	profiles := memprofilerepo.NewRepo()
	svc := NewService(memgrouprepo.NewRepo(), profiles, memclock.NewManualClock(time.Unix(100, 0).UTC()))
	svc.SetNewGroupIDForTest(func() domain.GroupID { return "fleet" })

	budget := decimal.NewFromInt(100)
	require.NoError(t, profiles.Create(context.Background(), profilerepo.Profile{
		ID: "owner", Subject: "sub-owner", DisplayName: "Owner", Role: domain.RoleCitizen, PersonalBudget: &budget,
	}))
	return fixture{svc: svc, profiles: profiles}
}

func (f fixture) addDriver(t *testing.T, id domain.ProfileID, name string, group domain.GroupID) {
	t.Helper()
	limit := decimal.NewFromInt(300)
	g := group
	require.NoError(t, f.profiles.Create(context.Background(), profilerepo.Profile{
		ID: id, Subject: domain.SubjectID("sub-" + string(id)), DisplayName: name, Role: domain.RoleDriver,
		BusinessGroupID: &g, MonthlyFuelLimit: &limit,
	}))
}

func appError(t *testing.T, err error) *Error {
	t.Helper()
	ae := (*Error)(nil)
	require.True(t, errors.As(err, &ae), "err=%v (type=%T)", err, err)
	return ae
}

func TestService_CreateAndGetGroup(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	g, err := f.svc.CreateGroup(context.Background(), "owner", "  North   Fleet ", decimal.NewFromInt(450))
	require.NoError(t, err)
	assert.Equal(t, domain.GroupID("fleet"), g.ID)
	assert.Equal(t, "North Fleet", g.Name)
	assert.Equal(t, domain.ProfileID("owner"), g.OwnerID)

	got, err := f.svc.GetGroup(context.Background(), "owner", "fleet")
	require.NoError(t, err)
	assert.True(t, got.DefaultMonthlyFuelLimit.Equal(decimal.NewFromInt(450)))

	mine, err := f.svc.ListMyGroups(context.Background(), "owner")
	require.NoError(t, err)
	require.Len(t, mine, 1)
}

func TestService_CreateGroup_Validation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.svc.CreateGroup(context.Background(), "owner", "   ", decimal.NewFromInt(1))
	assert.Equal(t, "VALIDATION_ERROR", appError(t, err).Code)

	_, err = f.svc.CreateGroup(context.Background(), "owner", "Fleet", decimal.NewFromInt(-1))
	assert.Equal(t, "INVALID_LIMIT", appError(t, err).Code)

	_, err = f.svc.CreateGroup(context.Background(), "owner", "Fleet", decimal.RequireFromString("12.345"))
	assert.Equal(t, "INVALID_LIMIT", appError(t, err).Code)

	_, err = f.svc.CreateGroup(context.Background(), "ghost", "Fleet", decimal.NewFromInt(1))
	assert.Equal(t, 422, appError(t, err).Status)
}

func TestService_GetGroup_Visibility(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.svc.CreateGroup(context.Background(), "owner", "Fleet", decimal.NewFromInt(1))
	require.NoError(t, err)
	f.addDriver(t, "member", "Member", "fleet")
	f.addDriver(t, "outsider", "Outsider", "elsewhere")

	_, err = f.svc.GetGroup(context.Background(), "member", "fleet")
	require.NoError(t, err)

	_, err = f.svc.GetGroup(context.Background(), "outsider", "fleet")
	assert.Equal(t, "GROUP_NOT_FOUND", appError(t, err).Code)
}

func TestService_ListDrivers(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.svc.CreateGroup(context.Background(), "owner", "Fleet", decimal.NewFromInt(1))
	require.NoError(t, err)
	f.addDriver(t, "d2", "zed", "fleet")
	f.addDriver(t, "d1", "Amy", "fleet")

	ds, err := f.svc.ListDrivers(context.Background(), "owner", "fleet")
	require.NoError(t, err)
	require.Len(t, ds, 2)
	assert.Equal(t, "Amy", ds[0].DisplayName)
	assert.Equal(t, "zed", ds[1].DisplayName)

	_, err = f.svc.ListDrivers(context.Background(), "d1", "fleet")
	ae := appError(t, err)
	assert.Equal(t, 403, ae.Status)

	_, err = f.svc.ListDrivers(context.Background(), "owner", "missing")
	assert.Equal(t, 404, appError(t, err).Status)
}

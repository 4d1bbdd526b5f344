package triprepo

import (
	"testing"

	"github.com/innocentmk82/efecosall-sub001/internal/adapters/contracttest"
	memgrouprepo "github.com/innocentmk82/efecosall-sub001/internal/adapters/memory/grouprepo"
	memprofilerepo "github.com/innocentmk82/efecosall-sub001/internal/adapters/memory/profilerepo"
	grouprepoport "github.com/innocentmk82/efecosall-sub001/internal/ports/out/grouprepo"
	profilerepoport "github.com/innocentmk82/efecosall-sub001/internal/ports/out/profilerepo"
	triprepoport "github.com/innocentmk82/efecosall-sub001/internal/ports/out/triprepo"
)

func TestContract_TripRepo(t *testing.T) {
	contracttest.RunTripRepo(
		t,
		func(t *testing.T) (profilerepoport.Repository, func()) {
			t.Helper()
			return memprofilerepo.NewRepo(), nil
		},
		func(t *testing.T) (grouprepoport.Repository, func()) {
			t.Helper()
			return memgrouprepo.NewRepo(), nil
		},
		func(t *testing.T) (triprepoport.Repository, func()) {
			t.Helper()
			return NewRepo(), nil
		},
	)
}

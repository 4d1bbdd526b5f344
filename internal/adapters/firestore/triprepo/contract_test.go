package triprepo

import (
	"testing"

	"github.com/innocentmk82/efecosall-sub001/internal/adapters/contracttest"
	fsgrouprepo "github.com/innocentmk82/efecosall-sub001/internal/adapters/firestore/grouprepo"
	fsprofilerepo "github.com/innocentmk82/efecosall-sub001/internal/adapters/firestore/profilerepo"
	"github.com/innocentmk82/efecosall-sub001/internal/adapters/firestore/testutil"
	grouprepoport "github.com/innocentmk82/efecosall-sub001/internal/ports/out/grouprepo"
	profilerepoport "github.com/innocentmk82/efecosall-sub001/internal/ports/out/profilerepo"
	triprepoport "github.com/innocentmk82/efecosall-sub001/internal/ports/out/triprepo"
)

func TestContract_FirestoreTripRepo(t *testing.T) {
	client := testutil.OpenEmulatorClient(t)

	contracttest.RunTripRepo(t,
		func(t *testing.T) (profilerepoport.Repository, func()) {
			t.Helper()
			return fsprofilerepo.NewRepo(client), nil
		},
		func(t *testing.T) (grouprepoport.Repository, func()) {
			t.Helper()
			return fsgrouprepo.NewRepo(client), nil
		},
		func(t *testing.T) (triprepoport.Repository, func()) {
			t.Helper()
			return NewRepo(client), nil
		},
	)
}

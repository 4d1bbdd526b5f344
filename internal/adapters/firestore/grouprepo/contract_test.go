package grouprepo

import (
	"testing"

	"github.com/innocentmk82/efecosall-sub001/internal/adapters/contracttest"
	fsprofilerepo "github.com/innocentmk82/efecosall-sub001/internal/adapters/firestore/profilerepo"
	"github.com/innocentmk82/efecosall-sub001/internal/adapters/firestore/testutil"
	grouprepoport "github.com/innocentmk82/efecosall-sub001/internal/ports/out/grouprepo"
	profilerepoport "github.com/innocentmk82/efecosall-sub001/internal/ports/out/profilerepo"
)

func TestContract_FirestoreGroupRepo(t *testing.T) {
	client := testutil.OpenEmulatorClient(t)

	contracttest.RunGroupRepo(t,
		func(t *testing.T) (profilerepoport.Repository, func()) {
			t.Helper()
			return fsprofilerepo.NewRepo(client), nil
		},
		func(t *testing.T) (grouprepoport.Repository, func()) {
			t.Helper()
			return NewRepo(client), nil
		},
	)
}

package profilerepo

import (
	"testing"

	"github.com/innocentmk82/efecosall-sub001/internal/adapters/contracttest"
	memgrouprepo "github.com/innocentmk82/efecosall-sub001/internal/adapters/memory/grouprepo"
	grouprepoport "github.com/innocentmk82/efecosall-sub001/internal/ports/out/grouprepo"
	profilerepoport "github.com/innocentmk82/efecosall-sub001/internal/ports/out/profilerepo"
)

func TestContract_ProfileRepo(t *testing.T) {
	contracttest.RunProfileRepo(t,
		func(t *testing.T) (profilerepoport.Repository, func()) {
			t.Helper()
			return NewRepo(), nil
		},
		func(t *testing.T) (grouprepoport.Repository, func()) {
			t.Helper()
			return memgrouprepo.NewRepo(), nil
		},
	)
}

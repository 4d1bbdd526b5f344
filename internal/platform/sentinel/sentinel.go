package sentinel

import "errors"

// Infrastructure facts shared by every store adapter. Adapters wrap these so the
// application layer can classify failures without knowing the backend.
var (
	// ErrUnavailable means the backing store could not be reached or refused the read.
	ErrUnavailable = errors.New("store unavailable")
)

package profilerepo

import (
	"errors"

	"github.com/innocentmk82/efecosall-sub001/internal/platform/sentinel"
)

var (
	// ErrNotFound indicates the requested profile does not exist.
	ErrNotFound = errors.New("profile not found")

	// ErrSubjectAlreadyBound indicates a profile already exists for the provided subject.
	ErrSubjectAlreadyBound = errors.New("profile subject already bound")

	// ErrAlreadyExists indicates a profile already exists with the provided ID.
	ErrAlreadyExists = errors.New("profile already exists")

	// ErrInvalidID indicates the profile ID is empty or not in the store's ID format.
	ErrInvalidID = errors.New("invalid profile id")

	ErrUnavailable = sentinel.ErrUnavailable
)

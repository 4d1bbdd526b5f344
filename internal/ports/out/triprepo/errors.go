package triprepo

import (
	"errors"

	"github.com/innocentmk82/efecosall-sub001/internal/platform/sentinel"
)

var (
	ErrNotFound      = errors.New("trip not found")
	ErrAlreadyExists = errors.New("trip already exists")
	ErrInvalidID     = errors.New("invalid trip id")
	ErrUnavailable   = sentinel.ErrUnavailable
)

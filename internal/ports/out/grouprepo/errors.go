package grouprepo

import (
	"errors"

	"github.com/innocentmk82/efecosall-sub001/internal/platform/sentinel"
)

var (
	ErrNotFound      = errors.New("group not found")
	ErrAlreadyExists = errors.New("group already exists")
	ErrInvalidID     = errors.New("invalid group id")
	ErrUnavailable   = sentinel.ErrUnavailable
)

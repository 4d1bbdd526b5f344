package firestore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/innocentmk82/efecosall-sub001/internal/platform/sentinel"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Classify(nil))
	assert.ErrorIs(t, Classify(status.Error(codes.Unavailable, "down")), sentinel.ErrUnavailable)
	assert.ErrorIs(t, Classify(status.Error(codes.DeadlineExceeded, "slow")), sentinel.ErrUnavailable)

	other := errors.New("boom")
	assert.Equal(t, other, Classify(other))
	assert.False(t, errors.Is(Classify(status.Error(codes.NotFound, "x")), sentinel.ErrUnavailable))
}

func TestCodes(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNotFound(status.Error(codes.NotFound, "x")))
	assert.False(t, IsNotFound(errors.New("x")))
	assert.True(t, IsAlreadyExists(status.Error(codes.AlreadyExists, "x")))
}

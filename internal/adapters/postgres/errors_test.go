package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/innocentmk82/efecosall-sub001/internal/platform/sentinel"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Classify(nil))

	dial := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	assert.ErrorIs(t, Classify(fmt.Errorf("acquire: %w", dial)), sentinel.ErrUnavailable)
	assert.ErrorIs(t, Classify(context.DeadlineExceeded), sentinel.ErrUnavailable)
	assert.ErrorIs(t, Classify(&pgconn.PgError{Code: "08006"}), sentinel.ErrUnavailable)
	assert.ErrorIs(t, Classify(&pgconn.PgError{Code: "57P01"}), sentinel.ErrUnavailable)
	assert.ErrorIs(t, Classify(&pgconn.PgError{Code: "53300"}), sentinel.ErrUnavailable)

	unique := &pgconn.PgError{Code: UniqueViolationCode}
	assert.Equal(t, error(unique), Classify(unique))
	assert.False(t, errors.Is(Classify(&pgconn.PgError{Code: CheckViolationCode}), sentinel.ErrUnavailable))

	assert.Equal(t, context.Canceled, Classify(context.Canceled))

	other := errors.New("boom")
	assert.Equal(t, other, Classify(other))

	wrapped := fmt.Errorf("%w: db down", sentinel.ErrUnavailable)
	assert.Equal(t, wrapped, Classify(wrapped))
}

func TestAsPgError(t *testing.T) {
	t.Parallel()

	pe, ok := AsPgError(fmt.Errorf("insert: %w", &pgconn.PgError{Code: UniqueViolationCode}))
	assert.True(t, ok)
	assert.Equal(t, UniqueViolationCode, pe.Code)

	_, ok = AsPgError(errors.New("x"))
	assert.False(t, ok)
}

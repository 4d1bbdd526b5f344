package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/innocentmk82/efecosall-sub001/internal/platform/sentinel"
)

const (
	UniqueViolationCode     = "23505"
	ForeignKeyViolationCode = "23503"
	CheckViolationCode      = "23514"
)

// AsPgError unwraps err into a *pgconn.PgError when the server rejected a statement.
func AsPgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// Classify wraps connection and timeout failures in sentinel.ErrUnavailable.
// Statement errors (constraint violations, bad input) and cancellation pass through unchanged.
func Classify(err error) error {
	if err == nil || errors.Is(err, sentinel.ErrUnavailable) || errors.Is(err, context.Canceled) {
		return err
	}
	if unavailable(err) {
		return fmt.Errorf("%w: %v", sentinel.ErrUnavailable, err)
	}
	return err
}

func unavailable(err error) bool {
	if pe, ok := AsPgError(err); ok {
		// Class 08 is connection exception; 57P0x is operator shutdown; 53300 is too_many_connections.
		return strings.HasPrefix(pe.Code, "08") || strings.HasPrefix(pe.Code, "57P0") || pe.Code == "53300"
	}
	var ce *pgconn.ConnectError
	if errors.As(err, &ce) {
		return true
	}
	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}

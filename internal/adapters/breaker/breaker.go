// Package breaker wraps repositories in sony/gobreaker circuit breakers so a failing backend
// surfaces as sentinel.ErrUnavailable without waiting on every call.
package breaker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/innocentmk82/efecosall-sub001/internal/platform/sentinel"
)

// Settings configures every breaker built by this package.
type Settings struct {
	// ConsecutiveFailures trips the breaker. Zero means 5.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before allowing a probe. Zero means 30s.
	OpenTimeout time.Duration
	// Interval clears the closed-state counts. Zero keeps them until the state changes.
	Interval time.Duration

	Logger *slog.Logger
}

func newBreaker(name string, s Settings, expected ...error) *gobreaker.CircuitBreaker {
	failures := s.ConsecutiveFailures
	if failures == 0 {
		failures = 5
	}
	timeout := s.OpenTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     name,
		Interval: s.Interval,
		Timeout:  timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return !isFailure(err, expected)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("store breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})
}

// isFailure reports whether err says something about the backend's health.
// Business outcomes such as not-found and caller cancellation do not.
func isFailure(err error, expected []error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	for _, e := range expected {
		if errors.Is(err, e) {
			return false
		}
	}
	return true
}

func call[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	out, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%w: %s: %v", sentinel.ErrUnavailable, cb.Name(), err)
		}
		if v, ok := out.(T); ok {
			return v, err
		}
		return zero, err
	}
	return out.(T), nil
}

func exec(cb *gobreaker.CircuitBreaker, fn func() error) error {
	_, err := call(cb, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

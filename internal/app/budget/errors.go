package budget

import "errors"

var (
	// ErrIdentityNotFound means no profile exists for the requested ID. Not retryable.
	ErrIdentityNotFound = errors.New("identity not found")
	// ErrStoreUnavailable means a backing store failed. Retryable.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrInvalidLimit means the stored limit is negative.
	ErrInvalidLimit = errors.New("invalid limit")
	// ErrInvalidTripCost means a stored trip carries a negative cost.
	ErrInvalidTripCost = errors.New("invalid trip cost")
)

// Error is an application-layer error that can be mapped to an HTTP response.
// Err carries the classifying sentinel and the underlying cause.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func identityNotFound(cause error) *Error {
	return &Error{
		Status:  404,
		Code:    "PROFILE_NOT_FOUND",
		Message: "no profile exists for the requested identity",
		Err:     errors.Join(ErrIdentityNotFound, cause),
	}
}

func storeUnavailable(store string, cause error) *Error {
	return &Error{
		Status:  503,
		Code:    "STORE_UNAVAILABLE",
		Message: "a backing store is unavailable; retry later",
		Details: map[string]any{"store": store},
		Err:     errors.Join(ErrStoreUnavailable, cause),
	}
}

func invalidLimit(cause error) *Error {
	return &Error{
		Status:  422,
		Code:    "INVALID_LIMIT",
		Message: "the stored budget limit is negative",
		Err:     errors.Join(ErrInvalidLimit, cause),
	}
}

func invalidTripCost(cause error) *Error {
	return &Error{
		Status:  422,
		Code:    "INVALID_TRIP_COST",
		Message: "a stored trip has a negative cost",
		Details: map[string]any{"cause": cause.Error()},
		Err:     errors.Join(ErrInvalidTripCost, cause),
	}
}

func validationError(message string, details map[string]any) *Error {
	return &Error{Status: 422, Code: "VALIDATION_ERROR", Message: message, Details: details}
}

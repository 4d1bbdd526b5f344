package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/nullable"

	"github.com/innocentmk82/efecosall-sub001/internal/app/budget"
	"github.com/innocentmk82/efecosall-sub001/internal/app/groups"
	"github.com/innocentmk82/efecosall-sub001/internal/app/profiles"
	"github.com/innocentmk82/efecosall-sub001/internal/app/trips"
	"github.com/innocentmk82/efecosall-sub001/internal/platform/sentinel"
)

// ErrorResponse is the JSON envelope returned for every non-2xx response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code      string                            `json:"code"`
	Message   string                            `json:"message"`
	Details   nullable.Nullable[map[string]any] `json:"details,omitempty"`
	RequestId nullable.Nullable[string]         `json:"requestId,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, message string, details map[string]any) {
	var er ErrorResponse
	er.Error.Code = code
	er.Error.Message = message
	if details != nil {
		er.Error.Details = nullable.NewNullableWithValue(details)
	}
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		er.Error.RequestId = nullable.NewNullableWithValue(rid)
	}
	writeJSON(w, status, er)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeFailure maps an application error onto the error envelope.
// Anything that is not an app error is logged and reported as 500,
// except infrastructure outages which surface as 503.
func writeFailure(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if status, code, message, details, ok := appError(err); ok {
		writeError(w, r, status, code, message, details)
		return
	}
	switch {
	case errors.Is(err, sentinel.ErrUnavailable):
		writeError(w, r, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "backing store unavailable", nil)
	case errors.Is(err, context.Canceled):
		// Client went away; nobody reads the body.
		w.WriteHeader(499)
	default:
		logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}

func appError(err error) (int, string, string, map[string]any, bool) {
	if ae := (*budget.Error)(nil); errors.As(err, &ae) {
		return ae.Status, ae.Code, ae.Message, ae.Details, true
	}
	if ae := (*profiles.Error)(nil); errors.As(err, &ae) {
		return ae.Status, ae.Code, ae.Message, ae.Details, true
	}
	if ae := (*groups.Error)(nil); errors.As(err, &ae) {
		return ae.Status, ae.Code, ae.Message, ae.Details, true
	}
	if ae := (*trips.Error)(nil); errors.As(err, &ae) {
		return ae.Status, ae.Code, ae.Message, ae.Details, true
	}
	return 0, "", "", nil, false
}

package httpapi

import (
	"context"
	"net/http"

	"github.com/innocentmk82/efecosall-sub001/internal/domain"
)

type subjectKey struct{}

// WithSubject records the authenticated token subject on ctx.
func WithSubject(ctx context.Context, sub domain.SubjectID) context.Context {
	return context.WithValue(ctx, subjectKey{}, sub)
}

// SubjectFromContext returns the subject stored by the auth middleware.
func SubjectFromContext(ctx context.Context) (domain.SubjectID, bool) {
	v, ok := ctx.Value(subjectKey{}).(domain.SubjectID)
	return v, ok && v != ""
}

// requireSubject writes 401 and reports false when the request carries no subject.
func requireSubject(w http.ResponseWriter, r *http.Request) (domain.SubjectID, bool) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
	}
	return sub, ok
}

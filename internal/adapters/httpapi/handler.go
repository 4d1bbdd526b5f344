package httpapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/innocentmk82/efecosall-sub001/internal/app/budget"
	"github.com/innocentmk82/efecosall-sub001/internal/app/groups"
	"github.com/innocentmk82/efecosall-sub001/internal/app/profiles"
	"github.com/innocentmk82/efecosall-sub001/internal/app/trips"
	"github.com/innocentmk82/efecosall-sub001/internal/domain"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/idempotency"
)

// Handler serves the JSON API on top of the application services.
type Handler struct {
	Budget   *budget.Service
	Profiles *profiles.Service
	Groups   *groups.Service
	Trips    *trips.Service
	Idem     idempotency.Store
	Logger   *slog.Logger
}

func NewHandler(budgetSvc *budget.Service, profilesSvc *profiles.Service, groupsSvc *groups.Service, tripsSvc *trips.Service, idem idempotency.Store) *Handler {
	return &Handler{
		Budget:   budgetSvc,
		Profiles: profilesSvc,
		Groups:   groupsSvc,
		Trips:    tripsSvc,
		Idem:     idem,
		Logger:   slog.Default(),
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeFailure(w, r, h.Logger, err)
}

// caller resolves the authenticated subject to its profile.
// It writes the error response itself and reports false when there is none.
func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (domain.Profile, bool) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return nil, false
	}
	p, err := h.Profiles.GetMyProfile(r.Context(), sub)
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	return p, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "missing request body", nil)
			return false
		}
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid request body", map[string]any{"cause": err.Error()})
		return false
	}
	return true
}

// asOfParam reads the optional asOf=YYYY-MM-DD query parameter. The date is pinned to
// midday in the budget timezone so it always lands in the intended month.
func (h *Handler) asOfParam(w http.ResponseWriter, r *http.Request) (*time.Time, bool) {
	var d *openapi_types.Date
	if err := runtime.BindQueryParameter("form", true, false, "asOf", r.URL.Query(), &d); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid asOf", map[string]any{"asOf": "must be YYYY-MM-DD"})
		return nil, false
	}
	if d == nil {
		return nil, true
	}
	t := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, h.Budget.Location())
	return &t, true
}

func requiredField(w http.ResponseWriter, r *http.Request, field string) {
	writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "missing "+field, map[string]any{field: "required"})
}

func hashBody(canon any) (string, error) {
	raw, err := json.Marshal(canon)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// idempotent runs a mutating operation under the Idempotency-Key protocol:
// the same subject+key+route+body replays the stored response, the same
// subject+key+route with a different body is rejected with 409.
func (h *Handler) idempotent(w http.ResponseWriter, r *http.Request, route string, canon any, status int, run func() (any, error)) {
	ctx := r.Context()
	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if key == "" {
		requiredField(w, r, "Idempotency-Key")
		return
	}
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	bodyHash, err := hashBody(canon)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	metaFP := idempotency.Fingerprint{
		Key:      idempotency.Key(key),
		Subject:  sub,
		Method:   r.Method,
		Route:    route,
		BodyHash: "",
	}
	respFP := metaFP
	respFP.BodyHash = bodyHash

	if h.Idem != nil {
		if meta, ok, err := h.Idem.Get(ctx, metaFP); err != nil {
			h.fail(w, r, err)
			return
		} else if ok {
			if string(meta.Body) != bodyHash {
				writeError(w, r, http.StatusConflict, "IDEMPOTENCY_KEY_REUSE", "idempotency key reuse with different payload", nil)
				return
			}
		} else {
			_ = h.Idem.Put(ctx, metaFP, idempotency.Record{
				StatusCode:  0,
				ContentType: "text/plain",
				Body:        []byte(bodyHash),
				CreatedAt:   time.Now().UTC(),
			})
		}

		if rec, ok, err := h.Idem.Get(ctx, respFP); err != nil {
			h.fail(w, r, err)
			return
		} else if ok && rec.StatusCode == status && strings.HasPrefix(rec.ContentType, "application/json") {
			w.Header().Set("Content-Type", rec.ContentType)
			w.Header().Set("Idempotent-Replayed", "true")
			w.WriteHeader(rec.StatusCode)
			_, _ = w.Write(rec.Body)
			return
		}
	}

	resp, err := run()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	b, err := json.Marshal(resp)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	b = append(b, '\n')

	if h.Idem != nil {
		_ = h.Idem.Put(ctx, respFP, idempotency.Record{
			StatusCode:  status,
			ContentType: "application/json",
			Body:        b,
			CreatedAt:   time.Now().UTC(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	memclock "github.com/innocentmk82/efecosall-sub001/internal/adapters/memory/clock"
	memgrouprepo "github.com/innocentmk82/efecosall-sub001/internal/adapters/memory/grouprepo"
	memidempotency "github.com/innocentmk82/efecosall-sub001/internal/adapters/memory/idempotency"
	memprofilerepo "github.com/innocentmk82/efecosall-sub001/internal/adapters/memory/profilerepo"
	memtriprepo "github.com/innocentmk82/efecosall-sub001/internal/adapters/memory/triprepo"
	"github.com/innocentmk82/efecosall-sub001/internal/app/budget"
	"github.com/innocentmk82/efecosall-sub001/internal/app/groups"
	"github.com/innocentmk82/efecosall-sub001/internal/app/profiles"
	"github.com/innocentmk82/efecosall-sub001/internal/app/trips"
)

type testAPI struct {
	h       http.Handler
	handler *Handler
	clk     *memclock.ManualClock
	trips   *memtriprepo.Repo
}

// newTestAPI wires the handler on memory stores behind the dev auth shim,
// so requests pick their subject with X-Debug-Subject.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	profileRepo := memprofilerepo.NewRepo()
	groupRepo := memgrouprepo.NewRepo()
	tripRepo := memtriprepo.NewRepo()

	h := NewHandler(
		budget.NewService(profileRepo, tripRepo, groupRepo, clk, budget.WithLogger(logger)),
		profiles.NewService(profileRepo, groupRepo, clk, profiles.WithLogger(logger)),
		groups.NewService(groupRepo, profileRepo, clk, groups.WithLogger(logger)),
		trips.NewService(tripRepo, profileRepo, clk, trips.WithLogger(logger)),
		memidempotency.NewStore(),
	)
	h.Logger = logger

	return &testAPI{
		h:       NewRouterWithOptions(h, RouterOptions{AuthMiddleware: NewDevAuthMiddleware("")}),
		handler: h,
		clk:     clk,
		trips:   tripRepo,
	}
}

func (a *testAPI) do(t *testing.T, method, path, subject string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if subject != "" {
		req.Header.Set("X-Debug-Subject", subject)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) createCitizen(t *testing.T, subject string, limit string) Profile {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/profiles", subject, map[string]any{
		"displayName":    "  Citizen   " + subject + " ",
		"role":           "citizen",
		"personalBudget": limit,
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create citizen: got %d body=%s", rec.Code, rec.Body.String())
	}
	var resp ProfileResponse
	decodeJSON(t, rec, &resp)
	return resp.Profile
}

func (a *testAPI) createGroup(t *testing.T, ownerSubject, name, defaultLimit string) Group {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/groups", ownerSubject, map[string]any{
		"name":                    name,
		"defaultMonthlyFuelLimit": defaultLimit,
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create group: got %d body=%s", rec.Code, rec.Body.String())
	}
	var resp GroupResponse
	decodeJSON(t, rec, &resp)
	return resp.Group
}

func (a *testAPI) createDriver(t *testing.T, subject string, groupID string) Profile {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/profiles", subject, map[string]any{
		"displayName":     "Driver " + subject,
		"role":            "driver",
		"businessGroupId": groupID,
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create driver: got %d body=%s", rec.Code, rec.Body.String())
	}
	var resp ProfileResponse
	decodeJSON(t, rec, &resp)
	return resp.Profile
}

func (a *testAPI) recordTrip(t *testing.T, subject, key string, start time.Time, cost string) *httptest.ResponseRecorder {
	t.Helper()
	return a.do(t, http.MethodPost, "/trips", subject, map[string]any{
		"vehicleLabel": "Van 1",
		"startTime":    start.Format(time.RFC3339),
		"cost":         cost,
	}, map[string]string{"Idempotency-Key": key})
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response: %v body=%s", err, rec.Body.String())
	}
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var er ErrorResponse
	decodeJSON(t, rec, &er)
	return er.Error.Code
}

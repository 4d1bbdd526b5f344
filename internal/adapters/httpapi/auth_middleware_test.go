package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/innocentmk82/efecosall-sub001/internal/platform/auth/jwks_testutil"
	"github.com/innocentmk82/efecosall-sub001/internal/platform/auth/jwtverifier"
	"github.com/innocentmk82/efecosall-sub001/internal/platform/config"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newTestAuthRouter(t *testing.T) (http.Handler, func(now time.Time, kid string) string) {
	t.Helper()

	jwksSrv, setKeys := jwks_testutil.NewRotatingJWKSServer()
	t.Cleanup(jwksSrv.Close)

	kp, err := jwks_testutil.GenerateRSAKeypair("kid-1")
	if err != nil {
		t.Fatalf("GenerateRSAKeypair: %v", err)
	}
	setKeys([]jwks_testutil.Keypair{kp})

	cfg := config.JWTConfig{
		Issuer:                 "test-iss",
		Audience:               "test-aud",
		JWKSURL:                jwksSrv.URL,
		ClockSkew:              0,
		JWKSRefreshInterval:    10 * time.Minute,
		JWKSMinRefreshInterval: 0,
		HTTPTimeout:            2 * time.Second,
	}

	clk := fixedClock{t: time.Unix(1700000000, 0)}
	v := jwtverifier.NewWithOptions(cfg, nil, clk)

	mint := func(now time.Time, kid string) string {
		if kid != kp.Kid {
			t.Fatalf("unsupported kid in test: %s", kid)
		}
		tok, err := jwks_testutil.MintRS256JWT(kp, cfg.Issuer, cfg.Audience, "profile-123", now, 5*time.Minute, nil)
		if err != nil {
			t.Fatalf("MintRS256JWT: %v", err)
		}
		return tok
	}

	h := NewRouterWithOptions(newTestAPI(t).handler, RouterOptions{
		AuthMiddleware: NewAuthMiddleware(v),
		MetricsHandler: promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{}),
	})

	return h, mint
}

func TestAuthMiddleware_MissingHeader_401(t *testing.T) {
	t.Parallel()

	h, _ := newTestAuthRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/budget/status", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusUnauthorized)
	}
	var er ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if er.Error.Code != "UNAUTHORIZED" {
		t.Fatalf("code: got %q", er.Error.Code)
	}
	if !er.Error.RequestId.IsSpecified() || er.Error.RequestId.IsNull() {
		t.Fatalf("expected requestId to be set")
	}
	if rid, err := er.Error.RequestId.Get(); err != nil || rid == "" {
		t.Fatalf("expected requestId to be a non-empty string")
	}
}

func TestAuthMiddleware_MalformedHeader_401(t *testing.T) {
	t.Parallel()

	h, _ := newTestAuthRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/budget/status", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_ExpiredToken_401(t *testing.T) {
	t.Parallel()

	h, mint := newTestAuthRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/profiles/me", nil)
	req.Header.Set("Authorization", "Bearer "+mint(time.Unix(1700000000, 0).Add(-time.Hour), "kid-1"))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_ValidToken_AllowsRequestAndSetsSubject(t *testing.T) {
	t.Parallel()

	h, mint := newTestAuthRouter(t)
	authz := "Bearer " + mint(time.Unix(1700000000, 0), "kid-1")

	// No profile bound yet: the subject reached the handler and was looked up.
	req := httptest.NewRequest(http.MethodGet, "/profiles/me", nil)
	req.Header.Set("Authorization", authz)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d want %d body=%s", rec.Code, http.StatusNotFound, rec.Body.String())
	}
	if code := decodeErrorCode(t, rec); code != "PROFILE_NOT_PROVISIONED" {
		t.Fatalf("code: got %q", code)
	}
}

func TestAuthMiddleware_PublicPathsSkipAuth(t *testing.T) {
	t.Parallel()

	h, _ := newTestAuthRouter(t)
	for _, p := range []string{"/healthz", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, p, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: got %d want %d", p, rec.Code, http.StatusOK)
		}
	}
}

func TestRequestError_Is422JSON(t *testing.T) {
	t.Parallel()

	h, mint := newTestAuthRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/profiles", strings.NewReader("{"))
	req.Header.Set("Authorization", "Bearer "+mint(time.Unix(1700000000, 0), "kid-1"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d want %d body=%s", rec.Code, http.StatusUnprocessableEntity, rec.Body.String())
	}
	if code := decodeErrorCode(t, rec); code != "VALIDATION_ERROR" {
		t.Fatalf("code: got %q", code)
	}
}

func TestDevAuthMiddleware_MissingSubject_401(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/budget/alerts", "", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusUnauthorized)
	}
}

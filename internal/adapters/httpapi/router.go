package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterOptions struct {
	// AuthMiddleware authenticates every request except /healthz and /metrics.
	AuthMiddleware func(http.Handler) http.Handler
	// Logger enables per-request logging when set.
	Logger *slog.Logger
	// MetricsHandler is mounted at /metrics when set.
	MetricsHandler http.Handler
}

// NewRouter constructs the API HTTP router without authentication.
func NewRouter(h *Handler) http.Handler {
	return NewRouterWithOptions(h, RouterOptions{})
}

func NewRouterWithOptions(h *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if opts.Logger != nil {
		r.Use(RequestLogger(opts.Logger))
	}
	r.Use(middleware.Recoverer)
	if opts.AuthMiddleware != nil {
		r.Use(opts.AuthMiddleware)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}

	r.Post("/profiles", h.CreateMyProfile)
	r.Get("/profiles/me", h.GetMyProfile)
	r.Patch("/profiles/me", h.UpdateMyProfile)

	r.Post("/trips", h.RecordTrip)
	r.Get("/trips", h.ListMyTrips)

	r.Get("/budget/usage", h.GetMonthlyUsage)
	r.Get("/budget/status", h.GetBudgetStatus)
	r.Get("/budget/alerts", h.GetBudgetAlerts)
	r.Post("/budget/check", h.CheckBudget)

	r.Post("/groups", h.CreateGroup)
	r.Get("/groups", h.ListMyGroups)
	r.Get("/groups/{groupId}", h.GetGroup)
	r.Get("/groups/{groupId}/drivers", h.ListDrivers)
	r.Put("/groups/{groupId}/drivers/{profileId}/limit", h.SetDriverLimit)
	r.Get("/groups/{groupId}/budget", h.GetGroupBudget)
	r.Get("/groups/{groupId}/usage", h.GetGroupUsage)

	return r
}

// RequestLogger logs one line per request once the response is written.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				level := slog.LevelInfo
				if status >= http.StatusInternalServerError {
					level = slog.LevelError
				}
				logger.LogAttrs(r.Context(), level, "http request",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Int("status", status),
					slog.Int("bytes", ww.BytesWritten()),
					slog.Duration("duration", time.Since(start)),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/andrewzhng2/TRVL/internal/auth"
	"github.com/andrewzhng2/TRVL/internal/backlog"
	"github.com/andrewzhng2/TRVL/internal/metrics"
	"github.com/andrewzhng2/TRVL/internal/trip"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RouterDeps holds all dependencies for the API router.
type RouterDeps struct {
	Auth           *auth.Service
	Backlog        *backlog.Service
	Trips          *trip.Service
	Metrics        *metrics.Metrics
	AllowedOrigins []string

	// DBPing reports store reachability for the health check. A nil func
	// is treated as healthy (used by tests without a database).
	DBPing func(ctx context.Context) error
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chimw.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(secureHeaders)
	r.Use(corsMiddleware(deps.AllowedOrigins))
	r.Use(slogRequestLogger)
	if deps.Metrics != nil {
		r.Use(metricsMiddleware(deps.Metrics))
	}

	// Handlers.
	authh := newAuthHandler(deps.Auth, deps.Metrics)
	cards := newBacklogHandler(deps.Backlog)
	trips := newTripsHandler(deps.Trips)
	legs := newLegsHandler(deps.Trips, trips)
	travel := newTravelHandler(deps.Trips, trips)
	schedule := newScheduleHandler(deps.Trips, trips, deps.Metrics)

	// Health check.
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		db := "connected"
		status := http.StatusOK
		if deps.DBPing != nil {
			if err := deps.DBPing(req.Context()); err != nil {
				db = "unreachable"
				status = http.StatusServiceUnavailable
			}
		}
		writeJSON(w, status, map[string]string{"status": "ok", "database": db})
	})

	// Metrics.
	if deps.Metrics != nil {
		r.Get("/metrics", deps.Metrics.Handler())
		r.Handle("/metrics/prometheus", deps.Metrics.PrometheusHandler())
	}

	// Auth.
	r.Post("/auth/google", authh.LoginGoogle)
	r.Post("/auth/logout", authh.Logout)
	r.Route("/auth/me", func(ar chi.Router) {
		ar.Use(auth.RequireUser(deps.Auth))
		ar.Get("/", authh.Me)
	})

	// Backlog cards. Reads are public; writes stamp the creator when a
	// session is present.
	r.Route("/backlog/cards", func(br chi.Router) {
		br.Use(auth.OptionalUser(deps.Auth))
		br.Get("/", cards.ListCards)
		br.Post("/", cards.CreateCard)
		br.Patch("/{id}", cards.UpdateCard)
		br.Delete("/{id}", cards.DeleteCard)
	})

	// Trips and nested planning resources.
	r.Route("/trips", func(tr chi.Router) {
		tr.Use(auth.OptionalUser(deps.Auth))

		tr.Get("/", trips.ListTrips)
		tr.Post("/", trips.CreateTrip)

		tr.Group(func(jr chi.Router) {
			jr.Use(auth.RequireUser(deps.Auth))
			jr.Post("/join", trips.Join)
		})

		tr.Route("/{id}", func(ir chi.Router) {
			ir.Patch("/", trips.UpdateTrip)
			ir.Delete("/", trips.DeleteTrip)
			ir.Get("/sections", trips.ListSections)
			ir.Get("/members", trips.ListMembers)

			ir.Get("/legs", legs.ListLegs)
			ir.Post("/legs", legs.CreateLeg)
			ir.Patch("/legs/{legID}", legs.UpdateLeg)
			ir.Delete("/legs/{legID}", legs.DeleteLeg)

			ir.Get("/travel", travel.ListSegments)
			ir.Post("/travel", travel.CreateSegment)
			ir.Patch("/travel/{segmentID}", travel.UpdateSegment)
			ir.Delete("/travel/{segmentID}", travel.DeleteSegment)

			ir.Get("/schedule", schedule.ListSchedule)
			ir.Post("/schedule", schedule.OverwriteSchedule)
		})
	})

	return r
}

// slogRequestLogger is a simple structured logging middleware using slog.
func slogRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes", ww.BytesWritten(),
			"request_id", RequestIDFromContext(r.Context()),
		)
	})
}

// metricsMiddleware records per-request Prometheus metrics keyed by the
// chi route pattern rather than the raw path.
func metricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			pattern := chi.RouteContext(r.Context()).RoutePattern()
			if pattern == "" {
				pattern = "unmatched"
			}

			m.HTTPRequestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(ww.Status())).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
			m.HTTPResponseSize.WithLabelValues(r.Method, pattern).Observe(float64(ww.BytesWritten()))
		})
	}
}

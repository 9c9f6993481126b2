/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend
  5. RateLimit:  Per-client token bucket (stamps come from phones on
                 flaky networks that retry aggressively)
  6. NoCache:    Stamp data changes every second; clients must not
                 cache API responses

ROUTE GROUPS:
  /api/stamp, /api/status    Clocking in and out
  /api/day, /api/week        Computed summaries
  /api/timeinfo              End-of-day predictions
  /api/sessions              Manual session management
  /api/overtime              Ledger balance and adjustments
  /api/statistics            Range aggregation
  /api/config                Work-rule settings

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.
  Meant to run on a trusted home or office network.

SEE ALSO:
  - handlers.go: Handler implementations
  - ratelimit.go: Rate limiting middleware
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(RateLimit(rate.Limit(20), 40))
	r.Use(noCache)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Clocking
		r.Post("/stamp", h.Stamp)
		r.Get("/status", h.Status)

		// Computed summaries
		r.Get("/day/{date}", h.GetDay)
		r.Get("/week/{year}/{week}", h.GetWeek)
		r.Get("/timeinfo", h.TimeInfo)

		// Manual session management
		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", h.ListSessions)
			r.Post("/", h.CreateSession)
			r.Delete("/{id}", h.DeleteBooking)
		})

		// Overtime ledger
		r.Route("/overtime", func(r chi.Router) {
			r.Get("/", h.GetOvertime)
			r.Post("/adjustments", h.CreateAdjustment)
		})

		// Statistics
		r.Get("/statistics", h.GetStatistics)

		// Work configuration
		r.Route("/config", func(r chi.Router) {
			r.Get("/", h.GetConfig)
			r.Put("/", h.PutConfig)
		})
	})

	return r
}

// noCache forbids intermediary and client caching of API responses.
// Every figure served here is derived from the live booking history.
func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

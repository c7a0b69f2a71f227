/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests from the configured origins

ROUTE GROUPS:
  /api/conventions/*    Convention catalog and set resolution
  /api/periods/*        Period and frequency parsing
  /api/adjust, /roll, /add, /year-fraction
                        Stateless date operations
  /api/calendars/*      Business day counts and custom calendars

SECURITY NOTE:
  No authentication middleware. Calendar writes are open to any caller
  that passes CORS.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// DefaultAllowedOrigins is used when no origins are configured.
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultAllowedOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/conventions", func(r chi.Router) {
			r.Get("/", h.ListConventions)
			r.Post("/resolve", h.ResolveConventions)
		})

		r.Get("/periods/{text}", h.GetPeriod)

		// Date operations
		r.Post("/adjust", h.Adjust)
		r.Post("/roll", h.Roll)
		r.Post("/add", h.Add)
		r.Post("/year-fraction", h.YearFraction)

		// Calendar routes
		r.Route("/calendars/{name}", func(r chi.Router) {
			r.Put("/", h.SaveCalendar)
			r.Delete("/", h.DeleteCalendar)
			r.Get("/business-days", h.BusinessDays)
			r.Get("/holidays", h.ListHolidays)
			r.Post("/holidays", h.CreateHoliday)
			r.Delete("/holidays/{date}", h.DeleteHoliday)
		})
	})

	return r
}

/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/trainees/*   Trainee config and per-trainee records/aggregates
  /api/progress     Batch OJT progress

SECURITY NOTE:
  No authentication middleware. Auth and session mechanics live in the
  surrounding application, not in this service.

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

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/trainees", func(r chi.Router) {
			r.Get("/", h.ListTrainees)
			r.Post("/", h.SaveTrainee)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetTrainee)
				r.Post("/complete", h.CompleteTrainee)
				r.Post("/terminate", h.TerminateTrainee)

				r.Get("/records", h.ListRecords)
				r.Post("/records", h.SubmitRecord)
				r.Put("/records/{date}", h.AmendRecord)

				r.Get("/summary/weekly", h.GetWeeklySummary)
				r.Get("/reports/monthly", h.GetMonthlyReport)
				r.Get("/progress", h.GetProgress)
			})
		})

		// Batch progress across all active ojt trainees
		r.Get("/progress", h.ListProgress)
	})

	return r
}

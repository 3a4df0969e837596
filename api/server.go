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

ROUTE GROUPS:

	/api/subunits/*        Subunit, roster, and shift operations
	/api/assignments/*     Assignment lifecycle
	/api/configurations/*  Rotation configuration management
	/api/holidays/*        Holiday calendar
	/api/scheduler/*       Auto-scheduler control
	/api/scenarios/*       Demo scenarios

SECURITY NOTE:

	No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

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
		// Subunit routes
		r.Route("/subunits", func(r chi.Router) {
			r.Get("/", h.ListSubunits)
			r.Post("/", h.CreateSubunit)
			r.Get("/{id}", h.GetSubunit)
			r.Get("/{id}/completeness", h.GetCompleteness)
			r.Get("/{id}/shifts", h.ListShifts)
			r.Get("/{id}/coverage", h.GetCoverage)
			r.Get("/{id}/assignments", h.ListAssignments)
			r.Post("/{id}/assignments", h.CreateAssignment)
			r.Post("/{id}/generate", h.Generate)
			r.Post("/{id}/rotate", h.Rotate)
			r.Post("/{id}/regenerate", h.Regenerate)
		})

		// Assignment routes
		r.Route("/assignments", func(r chi.Router) {
			r.Delete("/{id}", h.EndAssignment)
		})

		// Configuration routes
		r.Route("/configurations", func(r chi.Router) {
			r.Get("/", h.ListConfigurations)
			r.Post("/", h.CreateConfiguration)
		})

		// Holiday routes
		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/", h.CreateHoliday)
		})

		// Scheduler routes
		r.Route("/scheduler", func(r chi.Router) {
			r.Post("/run", h.RunScheduler)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	// Landing page listing the API surface.
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Shift Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Shift Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/subunits">/api/subunits</a> - List subunits</li>
<li><a href="/api/configurations">/api/configurations</a> - List rotation configurations</li>
<li><a href="/api/scenarios">/api/scenarios</a> - List demo scenarios</li>
</ul>
</body>
</html>`))
	})

	return r
}

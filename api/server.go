/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:      Request logging
  2. Recoverer:   Panic recovery (500 instead of crash)
  3. RequestID:   Unique ID per request for tracing
  4. CORS:        Cross-origin requests for frontend
  5. RequireAuth: Bearer token on everything past /api/login

ROUTE GROUPS:
  /api/login            Authentication (public)
  /api/days/*           Day ledger operations
  /api/history          Range queries
  /api/customers/*      Customer projections
  /api/reports/*        XLSX downloads
  /api/users/*          Account management (list open, writes admin only)
  /api/config           Register branding

SEE ALSO:
  - handlers.go: Handler implementations
  - middleware.go: Auth and role gating
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

	r.Route("/api", func(r chi.Router) {
		// Public
		r.Post("/login", h.Login)

		// Everything else requires a session
		r.Group(func(r chi.Router) {
			r.Use(h.RequireAuth)

			r.Post("/password", h.ChangePassword)

			// Day ledger routes
			r.Route("/days", func(r chi.Router) {
				r.Get("/today", h.GetToday)
				r.Route("/{date}", func(r chi.Router) {
					r.Get("/", h.GetDay)
					r.Post("/income", h.AddIncome)
					r.Post("/income/daily", h.QuickDaily)
					r.Post("/expenses", h.AddExpense)
					r.Delete("/movements/{kind}/{id}", h.DeleteMovement)
					r.Post("/close", h.CloseDay)
				})
			})

			r.Get("/closures", h.ListClosures)

			// Projection routes
			r.Get("/history", h.GetHistory)
			r.Route("/customers", func(r chi.Router) {
				r.Get("/", h.ListCustomers)
				r.Get("/{name}", h.GetCustomerHistory)
			})

			// Report routes
			r.Route("/reports", func(r chi.Router) {
				r.Get("/day/{date}", h.ExportDay)
				r.Get("/period", h.ExportPeriod)
				r.Get("/month", h.ExportMonth)
				r.Get("/customer/{name}", h.ExportCustomer)
			})

			// Config routes
			r.Get("/config", h.GetConfig)
			r.Put("/config", h.SetConfig)

			// Account routes
			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.ListUsers)
				r.Group(func(r chi.Router) {
					r.Use(h.RequireAdmin)
					r.Post("/", h.CreateUser)
					r.Delete("/{username}", h.DeleteUser)
				})
			})
		})
	})

	return r
}

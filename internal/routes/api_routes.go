package routes

import (
	"github.com/go-chi/chi/v5"

	"infinite-experiment/flightdeck/internal/api"
	"infinite-experiment/flightdeck/internal/config"
	"infinite-experiment/flightdeck/internal/middleware"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
func RegisterAPIRoutes(r chi.Router, cfg *config.Config, deps *api.Dependencies, handlers *api.Handlers) {
	limiter := middleware.NewRateLimiter(cfg.RateLimit)

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.InFlightMiddleware(deps.Metrics, "api_v1"))
		v1.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret, deps.Repo.Keys)) // global: all routes must be authenticated

		// Reads are open to every authenticated caller
		v1.Get("/routes", handlers.ListRoutes())
		v1.Get("/routes/{id}", handlers.GetRoute())
		v1.Get("/instances", handlers.ListInstances())
		v1.Get("/instances/search", handlers.ListInstances())
		v1.Get("/instances/{id}", handlers.GetInstance())
		v1.Get("/instances/{id}/gate-options", handlers.GateOptions())

		// Operator-only schedule management
		v1.Group(func(ops chi.Router) {
			ops.Use(middleware.IsOperatorMiddleware())
			ops.Post("/routes", handlers.CreateRoute())
			ops.Post("/instances", handlers.CreateInstance())
			ops.Put("/instances/{id}", handlers.UpdateInstanceStatus())
			ops.Put("/instances/{id}/gate", handlers.ReassignGate())
		})

		// Bookings: passengers act for themselves, rate limited per account
		v1.Group(func(bk chi.Router) {
			bk.Use(limiter.Middleware)
			bk.Post("/bookings", handlers.CreateBooking())
			bk.Get("/bookings", handlers.ListBookings())
			bk.Patch("/bookings/{id}/status", handlers.UpdateBookingStatus())
		})
	})
}

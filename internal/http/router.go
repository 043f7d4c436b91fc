package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stayseek/venue-bookings/internal/idempotency"
	"github.com/stayseek/venue-bookings/internal/observability"
	"github.com/stayseek/venue-bookings/internal/rateLimit"
)

func SetupRouter(h *Handlers, logger observability.Logger, rl *rateLimit.RateLimiter, idemp *idempotency.Idempotency) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggerMiddleware(logger))
	r.Use(MetricsMiddleware)
	r.Use(TracingMiddleware)
	r.Use(JWTMiddleware(h.cfg.JWTSecret))
	r.Use(RateLimitMiddleware(rl))

	r.Post("/v1/auth/register", h.Register)
	r.Post("/v1/auth/login", h.Login)

	r.Get("/v1/venues", h.ListVenues)
	r.Get("/v1/venues/{id}", h.GetVenue)
	r.Get("/v1/venues/{id}/availability", h.GetAvailability)
	r.Get("/v1/venues/{id}/quote", h.GetQuote)

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth)
		r.Use(IdempotencyMiddleware(idemp))

		r.Post("/v1/venues", h.CreateVenue)
		r.Put("/v1/venues/{id}", h.UpdateVenue)
		r.Delete("/v1/venues/{id}", h.DeleteVenue)
		r.Post("/v1/venues/{id}/bookings/import", h.ImportBookings)

		r.Post("/v1/holds", h.CreateHold)
		r.Post("/v1/bookings", h.CreateBooking)
		r.Get("/v1/bookings/{id}", h.GetBooking)
		r.Delete("/v1/bookings/{id}", h.CancelBooking)
		r.Get("/v1/profiles/{name}/bookings", h.ListProfileBookings)
	})

	r.Get("/v1/healthz", h.Healthz)
	r.Get("/v1/readyz", h.Readyz)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}

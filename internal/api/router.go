package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/digihealth/clinic-booking/internal/booking"
	"github.com/digihealth/clinic-booking/internal/identity"
)

type RouterConfig struct {
	Service  *booking.Service
	Resolver *identity.Resolver
	PgPool   *pgxpool.Pool
	Redis    *redis.Client
	Logger   zerolog.Logger
	Env      string
	Version  string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Authenticated API
	r.Route("/api", func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Resolver))

		r.Get("/doctors", listDoctorsHandler(cfg.Service))
		r.Get("/doctors/{doctorID}/slots", availableSlotsHandler(cfg.Service))
		r.Get("/doctors/{doctorID}/work-days", workDaysHandler(cfg.Service))
		r.Put("/doctors/me/working-hours", setWorkingHoursHandler(cfg.Service))

		r.Post("/appointments", bookAppointmentHandler(cfg.Service))
		r.Get("/appointments/my", myAppointmentsHandler(cfg.Service))
		r.Put("/appointments/{id}/status", updateStatusHandler(cfg.Service))
		r.Put("/appointments/{id}/reschedule", rescheduleHandler(cfg.Service))
	})

	return r
}

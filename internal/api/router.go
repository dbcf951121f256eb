package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/remedyexcel/clinic-server/internal/blog"
	"github.com/remedyexcel/clinic-server/internal/scheduling"
)

type RouterConfig struct {
	Scheduling *scheduling.Service
	Blog       blog.Store
	Validate   *validator.Validate
	Log        *zap.Logger
	PgPool     *pgxpool.Pool // nil unless STORAGE_DRIVER=postgres
	Redis      *redis.Client // nil unless LOCK_DRIVER=redis
	Env        string
	Version    string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Log))

	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Route("/api", func(r chi.Router) {
		r.Get("/availability", availabilityHandler(cfg.Scheduling))
		r.Put("/availability", replaceAvailabilityHandler(cfg.Scheduling))

		r.Get("/appointments", listAppointmentsHandler(cfg.Scheduling))
		r.Post("/appointments", bookAppointmentHandler(cfg.Scheduling, cfg.Validate))
		r.Get("/appointments/{id}", getAppointmentHandler(cfg.Scheduling))
		r.Put("/appointments/{id}", updateAppointmentHandler(cfg.Scheduling, cfg.Validate))

		r.Get("/blog", listPostsHandler(cfg.Blog))
		r.Post("/blog", createPostHandler(cfg.Blog))
		r.Get("/blog/{id}", getPostHandler(cfg.Blog, cfg.Log))
		r.Put("/blog/{id}", updatePostHandler(cfg.Blog))
		r.Delete("/blog/{id}", deletePostHandler(cfg.Blog))
	})

	return r
}

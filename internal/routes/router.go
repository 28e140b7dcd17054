package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tyrehub/catalog/internal/api"
	"tyrehub/catalog/internal/logging"
	"tyrehub/catalog/internal/metrics"
	"tyrehub/catalog/internal/middleware"
)

// RouterOptions carries what the router needs besides the dependencies.
type RouterOptions struct {
	// BaseCtx bounds admin-triggered import runs; cancel it on shutdown.
	BaseCtx        context.Context
	Metrics        *metrics.MetricsRegistry
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
	UpSince        time.Time
}

func RegisterRoutes(deps *api.Dependencies, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(opts.Metrics))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	logging.Info("Router initialized with metrics and logging middleware")

	r.Get("/hc", api.LivenessHandler())
	r.Get("/healthCheck", api.HealthCheckHandler(deps.DB, opts.UpSince))
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	handlers := api.NewHandlers(deps)
	importHandler := api.NewImportHandler(opts.BaseCtx, deps.Services.Import, deps.ImportFile)

	RegisterAPIRoutes(r, handlers, importHandler, deps)

	return r
}

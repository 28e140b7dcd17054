package routes

import (
	"github.com/go-chi/chi/v5"

	"tyrehub/catalog/internal/api"
	"tyrehub/catalog/internal/middleware"
)

// RegisterAPIRoutes registers the public catalogue routes and the admin API.
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, importHandler *api.ImportHandler, deps *api.Dependencies) {
	// Public catalogue
	r.Get("/tyres", handlers.ListTyres())
	r.Get("/tyres/{slug}", handlers.GetTyre())

	r.Route("/catalog", func(catalog chi.Router) {
		catalog.Get("/products/{slug}", handlers.GetCatalogProduct())
		catalog.Get("/lookup/tyre-dimensions", handlers.ListDimensions())
		catalog.Get("/lookup/seasons", handlers.ListSeasons())
		catalog.Get("/lookup/brands", handlers.ListBrands())
	})

	// API v1 routes
	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Group(func(admin chi.Router) {
			admin.Use(middleware.AuthMiddleware(deps.Services.Signer))
			admin.Use(middleware.IsAdminMiddleware())

			admin.With(middleware.NewRateLimiter(1, 5).Middleware).
				Post("/admin/import", importHandler.TriggerImport())
			admin.Get("/admin/import/runs", importHandler.ListRuns())
		})
	})
}

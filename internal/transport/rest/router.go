package rest

import (
	"log/slog"

	"github.com/frahmantamala/monthly-budget/internal/budget"
	"github.com/frahmantamala/monthly-budget/internal/transport/middleware"
	"github.com/go-chi/chi"
)

func RegisterAllRoutes(router *chi.Mux, healthHandler *HealthHandler, budgetHandler *budget.Handler, logger *slog.Logger) {
	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if budgetHandler == nil {
			return
		}

		r.Get("/state", budgetHandler.GetState)
		r.Get("/summary", budgetHandler.GetSummary)

		r.Route("/onboarding", func(or chi.Router) {
			or.Post("/", budgetHandler.ApplyOnboarding)
			or.Post("/categories", budgetHandler.CompleteCategorySetup)
		})

		r.Route("/categories", func(cr chi.Router) {
			cr.Post("/", budgetHandler.CreateCategory)
			cr.Put("/order", budgetHandler.ReorderCategories) // PUT /categories/order
			cr.Patch("/{id}", budgetHandler.UpdateCategory)
			cr.Delete("/{id}", budgetHandler.DeleteCategory)
		})

		r.Route("/expenses", func(er chi.Router) {
			er.Post("/", budgetHandler.CreateExpense)
			er.Delete("/{id}", budgetHandler.DeleteExpense)
		})

		r.Post("/reset", budgetHandler.Reset)
	})
}

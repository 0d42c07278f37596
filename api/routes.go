package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires the public reads and the admin-gated mutations.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(HTTPLoggingMiddleware)

		r.Get("/healthz", handlers.healthHandler.health())

		r.Get("/posts", handlers.postHandler.listPosts())
		r.Get("/posts/{postID}", handlers.postHandler.getPost())
	})

	// Mutations require the admin secret
	r.Group(func(r chi.Router) {
		r.Use(HTTPLoggingMiddleware)
		r.Use(authMiddleware.requireAdmin)

		r.Post("/posts", handlers.postHandler.upsertPost())
		r.Delete("/posts/{postID}", handlers.postHandler.deletePost())
	})
}

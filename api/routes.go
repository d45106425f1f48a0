package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// setupPublicRoutes mounts the landing page, blog, legal and health endpoints
func setupPublicRoutes(r chi.Router, handlers *routeHandlers) {
	r.Get("/health", handlers.healthHandler.getHealth())

	// Contact intake responses must never be cached
	r.Group(func(r chi.Router) {
		r.Use(middleware.NoCache)

		r.Post("/api/landing/contact", handlers.contactHandler.submitContact())
		r.Options("/api/landing/contact", handlers.contactHandler.preflight())
	})

	// Blog Post Handler endpoints
	r.Get("/api/blog/posts", handlers.blogPostHandler.getAllBlogPosts())
	r.Get("/api/blog/posts/{slug}", handlers.blogPostHandler.getBlogPost())

	// Legal Handler endpoints
	r.Get("/api/legal/{type}", handlers.legalHandler.getLegalDocument())
}

// setupAdminRoutes mounts the audit export behind bearer authentication
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	if handlers.adminHandler == nil {
		return
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.NoCache)
		r.Use(authMiddleware.authenticateAdmin)

		r.Get("/api/admin/contact-submissions", handlers.adminHandler.listContactSubmissions())
	})
}

package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires the public blog surface and the authenticated mutation
// surface. The date-based detail pattern and the id-based share pattern both
// start with a wildcard segment, so each carries a shape constraint.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/", handlers.postHandler.listPosts())
		r.Get("/tag/{tagSlug}/", handlers.postHandler.listPosts())

		r.Get("/{year:[0-9]{4}}/{month:[0-9]{2}}/{day:[0-9]{2}}/{slug}/", handlers.postHandler.postDetail())
		r.Post("/{year:[0-9]{4}}/{month:[0-9]{2}}/{day:[0-9]{2}}/{slug}/", handlers.postHandler.postDetail())

		r.Get("/{postID:[0-9a-fA-F-]{36}}/share/", handlers.shareHandler.sharePost())
		r.Post("/{postID:[0-9a-fA-F-]{36}}/share/", handlers.shareHandler.sharePost())

		r.Post("/login/", handlers.authHandler.login())

		r.Get("/feed/", handlers.feedHandler.atomFeed())
		r.Get("/sitemap.xml", handlers.feedHandler.sitemap())

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticate)

			r.Get("/create_post/", handlers.postHandler.createPostForm())
			r.Post("/create_post/", handlers.postHandler.createPost())
			r.Put("/posts/{postID}", handlers.postHandler.updatePost())
			r.Delete("/posts/{postID}", handlers.postHandler.deletePost())
		})
	})
}

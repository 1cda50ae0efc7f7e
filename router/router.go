package router

import (
	"go-social-api/handler"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "go-social-api/docs"
)

// NewRouter wires all routes. The authentication filter runs on every
// request and never rejects by itself; protected routes are enforced by the
// RequireAuth / RequireAdmin guards.
func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	postHandler *handler.PostHandler,
	authMiddleware *handler.AuthMiddleware,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Public routes
	mux.Handle("POST /register", handler.ErrorHandlingMiddleware(userHandler.Register))
	mux.Handle("POST /auth/public/login", handler.ErrorHandlingMiddleware(authHandler.Login))
	mux.Handle("POST /auth/public/logout", handler.ErrorHandlingMiddleware(authHandler.Logout))
	mux.Handle("POST /auth/refresh-token", handler.ErrorHandlingMiddleware(authHandler.Refresh))

	// Authenticated routes
	mux.Handle("GET /api/me", handler.ErrorHandlingMiddleware(handler.RequireAuth(userHandler.GetMe)))
	mux.Handle("PATCH /api/me", handler.ErrorHandlingMiddleware(handler.RequireAuth(userHandler.UpdateMe)))
	mux.Handle("PUT /api/me/password", handler.ErrorHandlingMiddleware(handler.RequireAuth(userHandler.UpdatePassword)))
	mux.Handle("DELETE /api/me", handler.ErrorHandlingMiddleware(handler.RequireAuth(userHandler.DisableMe)))

	mux.Handle("POST /api/users/{id}/follow", handler.ErrorHandlingMiddleware(handler.RequireAuth(userHandler.Follow)))
	mux.Handle("DELETE /api/users/{id}/follow", handler.ErrorHandlingMiddleware(handler.RequireAuth(userHandler.Unfollow)))
	mux.Handle("GET /api/users/{id}/posts", handler.ErrorHandlingMiddleware(postHandler.ListUserPosts))

	mux.Handle("POST /api/posts", handler.ErrorHandlingMiddleware(handler.RequireAuth(postHandler.CreatePost)))
	mux.Handle("GET /api/posts/{id}", handler.ErrorHandlingMiddleware(postHandler.GetPost))
	mux.Handle("PATCH /api/posts/{id}", handler.ErrorHandlingMiddleware(handler.RequireAuth(postHandler.UpdatePost)))
	mux.Handle("DELETE /api/posts/{id}", handler.ErrorHandlingMiddleware(handler.RequireAuth(postHandler.DeletePost)))
	mux.Handle("POST /api/posts/{id}/like", handler.ErrorHandlingMiddleware(handler.RequireAuth(postHandler.LikePost)))
	mux.Handle("DELETE /api/posts/{id}/like", handler.ErrorHandlingMiddleware(handler.RequireAuth(postHandler.UnlikePost)))

	// Admin routes
	mux.Handle("GET /api/admin/users", handler.ErrorHandlingMiddleware(handler.RequireAdmin(userHandler.GetAllUsers)))
	mux.Handle("PUT /api/admin/users/{id}/role", handler.ErrorHandlingMiddleware(handler.RequireAdmin(userHandler.UpdateUserRole)))

	var root http.Handler = mux
	root = authMiddleware.Authenticate(root)
	root = handler.RequestIDMiddleware(root)
	return root
}

package routes

import (
	"time"

	"github.com/corsinf/usuarios-api/internal/auth"
	"github.com/corsinf/usuarios-api/internal/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	userHandler *handlers.UserHandler,
	authHandler *handlers.AuthHandler,
	tokenManager *auth.TokenManager,
) {
	// Login is the only public route; keep credential stuffing slow.
	router.With(httprate.LimitByIP(10, time.Minute)).Post("/auth/login", authHandler.Login)

	router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokenManager))

		r.Get("/users", userHandler.SearchUsers)
		r.Get("/users/{id}", userHandler.GetUser)

		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(60, time.Minute))
			r.Post("/users", userHandler.CreateUser)
			r.Put("/users/{id}", userHandler.UpdateUser)
			r.Put("/users/{id}/password", userHandler.ChangePassword)
			r.Delete("/users/{id}", userHandler.DeleteUser)
		})
	})
}

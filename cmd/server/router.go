package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"taskboard/internal/api"
	apiMiddleware "taskboard/internal/api/middleware"
	"taskboard/internal/service/auth"
)

// setupRouter configures the application router with middleware and routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	taskHandler := api.NewTaskHandler(app.taskService)
	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, auth.NewBcryptVerifier())
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			taskHandler.RegisterRoutes(r)
		})
	})

	healthHandler := api.NewHealthHandler(app.db, app.queueReceiver)
	r.Get("/health", healthHandler.Check)

	return r
}

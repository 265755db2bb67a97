package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/meeting-api/internal/api"
	apiMiddleware "github.com/phrazzld/meeting-api/internal/api/middleware"
	"github.com/phrazzld/meeting-api/internal/platform/metrics"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(app.httpMetrics.Middleware)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.verifier)
	meetingHandler := api.NewMeetingHandler(app.meetingService, app.logger)

	r.Get("/", api.Liveness)
	r.Get("/health", api.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(app.registry))

	r.Route("/api/meetings", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		meetingHandler.Routes(r)
	})

	return r
}

package main

import (
	"net/http"

	"github.com/birdapp/woodpecker/internal/api"
	apiMiddleware "github.com/birdapp/woodpecker/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	studyHandler := api.NewStudyHandler(app.studyService, app.registry, app.logger)
	r.Route("/api", studyHandler.Routes)

	var pinger api.Pinger
	if app.db != nil {
		pinger = app.db
	}
	r.Get("/health", api.NewHealthHandler(pinger, app.logger).Health)

	return r
}

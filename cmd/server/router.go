package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/viral-scripts/internal/api"
	apiMiddleware "github.com/phrazzld/viral-scripts/internal/api/middleware"
	"github.com/phrazzld/viral-scripts/internal/platform/ws"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	catalogHandler := api.NewCatalogHandler(app.config.LLM.Provider, app.sessions)
	wizardHandler := api.NewWizardHandler(
		app.sessions,
		app.tokens,
		ws.NewHandler(app.hub, nil, app.logger),
		app.logger,
	)
	sessionAuth := apiMiddleware.NewSessionAuth(app.tokens)

	api.Mount(r, catalogHandler, wizardHandler, sessionAuth)

	return r
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/viral-scripts/internal/api/middleware"
)

// Mount registers the health check and the /api routes on r. Session routes
// sit behind auth.
func Mount(r chi.Router, catalog *CatalogHandler, wiz *WizardHandler, auth *middleware.SessionAuth) {
	r.Get("/health", catalog.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/languages", catalog.Languages)
		r.Get("/categories", catalog.Categories)
		r.Post("/sessions", wiz.CreateSession)

		r.Route("/sessions/{"+middleware.SessionIDParam+"}", func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Get("/", wiz.GetSession)
			r.Post("/start", wiz.Start)
			r.Post("/language", wiz.ChooseLanguage)
			r.Post("/topic", wiz.ChooseTopic)
			r.Post("/reset", wiz.Reset)
			r.Get("/wait", wiz.Wait)
			r.Get("/export", wiz.Export)
			r.Get("/ws", wiz.Stream)
		})
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		HandleAPIError(w, req, errNotFound, "")
	})
}

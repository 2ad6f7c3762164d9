package api

import (
	"net/http"

	"github.com/phrazzld/viral-scripts/internal/api/shared"
	"github.com/phrazzld/viral-scripts/internal/domain"
)

// SessionCounter reports the number of open sessions.
type SessionCounter interface {
	Len() int
}

// CatalogHandler serves the static lists and the health check.
type CatalogHandler struct {
	provider string
	sessions SessionCounter
}

// NewCatalogHandler creates a CatalogHandler. provider is the configured
// model provider name reported by the health check.
func NewCatalogHandler(provider string, sessions SessionCounter) *CatalogHandler {
	return &CatalogHandler{provider: provider, sessions: sessions}
}

// Health handles GET /health.
func (h *CatalogHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Provider: h.provider}
	if h.sessions != nil {
		resp.Sessions = h.sessions.Len()
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Languages handles GET /api/languages.
func (h *CatalogHandler) Languages(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, LanguagesResponse{Languages: domain.Languages()})
}

// Categories handles GET /api/categories.
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, CategoriesResponse{Categories: domain.Categories()})
}

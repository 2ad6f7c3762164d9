package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/viral-scripts/internal/api/middleware"
	"github.com/phrazzld/viral-scripts/internal/api/shared"
	"github.com/phrazzld/viral-scripts/internal/session"
)

// sessionFromRequest loads the session named by the route. It writes the
// error response and returns false when the session cannot be used.
func (h *WizardHandler) sessionFromRequest(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, middleware.SessionIDParam)
	sess, err := h.store.Get(id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, false
	}
	return sess, true
}

// decodeAndValidate reads a JSON body into v and validates it, writing a
// 400 response on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}

// waitTimeout parses ?timeout= in seconds, clamped to (0, max].
func waitTimeout(r *http.Request, def, max time.Duration) time.Duration {
	raw := r.URL.Query().Get("timeout")
	if raw == "" {
		return def
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return def
	}
	d := time.Duration(secs) * time.Second
	if d > max {
		return max
	}
	return d
}

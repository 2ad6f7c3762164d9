package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/viral-scripts/internal/api/shared"
	"github.com/phrazzld/viral-scripts/internal/session"
)

// SessionIDParam is the route parameter holding the session id.
const SessionIDParam = "id"

// TokenAuthorizer checks that a token grants access to a session.
// *session.Tokens implements it.
type TokenAuthorizer interface {
	Authorize(ctx context.Context, token, sessionID string) error
}

// SessionAuth guards the per-session routes.
type SessionAuth struct {
	tokens TokenAuthorizer
}

// NewSessionAuth creates a SessionAuth.
func NewSessionAuth(tokens TokenAuthorizer) *SessionAuth {
	return &SessionAuth{tokens: tokens}
}

// Authenticate requires a token whose subject is the session in the route.
// The token is read from "Authorization: Bearer <token>" or, for clients
// that cannot set headers such as browser websockets, from ?token=.
func (m *SessionAuth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := tokenFromRequest(r)
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}
		if token == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization required")
			return
		}

		sessionID := chi.URLParam(r, SessionIDParam)
		if err := m.tokens.Authorize(r.Context(), token, sessionID); err != nil {
			switch {
			case errors.Is(err, session.ErrExpiredToken):
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Token expired", err)
			case errors.Is(err, session.ErrInvalidToken), errors.Is(err, session.ErrMissingToken):
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid token", err,
					shared.WithElevatedLogLevel())
			case errors.Is(err, session.ErrWrongSession):
				shared.RespondWithErrorAndLog(w, r, http.StatusForbidden, "Token not valid for this session", err,
					shared.WithElevatedLogLevel())
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.WithSessionID(r.Context(), sessionID)))
	})
}

// tokenFromRequest returns the presented token. ok is false when an
// Authorization header is present but malformed.
func tokenFromRequest(r *http.Request) (token string, ok bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, value, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(value) == "" {
			return "", false
		}
		return strings.TrimSpace(value), true
	}
	return r.URL.Query().Get("token"), true
}

package api

import (
	"time"

	"github.com/phrazzld/viral-scripts/internal/domain"
	"github.com/phrazzld/viral-scripts/internal/wizard"
)

// LanguageRequest is the body of POST /api/sessions/{id}/language.
type LanguageRequest struct {
	Language string `json:"language" validate:"required,max=32"`
}

// TopicRequest is the body of POST /api/sessions/{id}/topic. Exactly one of
// Topic (free text) and Category (a preset id) is set.
type TopicRequest struct {
	Topic    string `json:"topic,omitempty"    validate:"required_without=Category,max=500"`
	Category string `json:"category,omitempty" validate:"required_without=Topic,excluded_with=Topic,max=32"`
}

// CreateSessionResponse is returned when a session is opened.
type CreateSessionResponse struct {
	SessionID string          `json:"session_id"`
	Token     string          `json:"token"`
	ExpiresAt string          `json:"expires_at"`
	Session   SessionResponse `json:"session"`
}

// SessionResponse is a session's state with the view rendered for it.
type SessionResponse struct {
	State wizard.Snapshot `json:"state"`
	View  wizard.View     `json:"view"`
}

// LanguagesResponse lists the supported languages.
type LanguagesResponse struct {
	Languages []domain.Language `json:"languages"`
}

// CategoriesResponse lists the topic presets.
type CategoriesResponse struct {
	Categories []domain.Category `json:"categories"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Provider string `json:"provider,omitempty"`
	Sessions int    `json:"sessions"`
}

func newSessionResponse(snap wizard.Snapshot) SessionResponse {
	return SessionResponse{State: snap, View: wizard.Render(snap)}
}

func formatExpiry(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

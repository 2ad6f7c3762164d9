package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/viral-scripts/internal/api/shared"
	"github.com/phrazzld/viral-scripts/internal/domain"
	"github.com/phrazzld/viral-scripts/internal/events"
	"github.com/phrazzld/viral-scripts/internal/export"
	"github.com/phrazzld/viral-scripts/internal/platform/ws"
	"github.com/phrazzld/viral-scripts/internal/session"
	"github.com/phrazzld/viral-scripts/internal/wizard"
)

// Wait bounds for GET /api/sessions/{id}/wait.
const (
	DefaultWaitTimeout = 30 * time.Second
	MaxWaitTimeout     = 2 * time.Minute
)

// SessionStore opens and looks up sessions. *session.Store implements it.
type SessionStore interface {
	Create(ctx context.Context) (*session.Session, error)
	Get(id string) (*session.Session, error)
}

// TokenIssuer signs session tokens. *session.Tokens implements it.
type TokenIssuer interface {
	Issue(ctx context.Context, sessionID string) (string, time.Time, error)
}

// StreamServer attaches a websocket client to a session. *ws.Handler
// implements it.
type StreamServer interface {
	Serve(w http.ResponseWriter, r *http.Request, sessionID string, initial func() (*ws.Message, error))
}

// WizardHandler serves the session routes.
type WizardHandler struct {
	store  SessionStore
	tokens TokenIssuer
	stream StreamServer
	logger *slog.Logger
}

// NewWizardHandler creates a WizardHandler. stream may be nil, in which case
// the websocket route answers 404.
func NewWizardHandler(store SessionStore, tokens TokenIssuer, stream StreamServer, logger *slog.Logger) *WizardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WizardHandler{
		store:  store,
		tokens: tokens,
		stream: stream,
		logger: logger.With("component", "wizard_handler"),
	}
}

// CreateSession handles POST /api/sessions.
func (h *WizardHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.Create(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create session")
		return
	}

	token, expiresAt, err := h.tokens.Issue(r.Context(), sess.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to create session", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, CreateSessionResponse{
		SessionID: sess.ID,
		Token:     token,
		ExpiresAt: formatExpiry(expiresAt),
		Session:   newSessionResponse(sess.Machine.Snapshot()),
	})
}

// GetSession handles GET /api/sessions/{id}.
func (h *WizardHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newSessionResponse(sess.Machine.Snapshot()))
}

// Start handles POST /api/sessions/{id}/start.
func (h *WizardHandler) Start(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}
	snap, err := sess.Machine.Start(r.Context())
	h.respondTransition(w, r, http.StatusOK, snap, err)
}

// ChooseLanguage handles POST /api/sessions/{id}/language.
func (h *WizardHandler) ChooseLanguage(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req LanguageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	lang, err := domain.ParseLanguage(req.Language)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	snap, err := sess.Machine.ChooseLanguage(r.Context(), lang)
	h.respondTransition(w, r, http.StatusOK, snap, err)
}

// ChooseTopic handles POST /api/sessions/{id}/topic. The generation runs in
// the background, so a successful request answers 202 in the generating step.
func (h *WizardHandler) ChooseTopic(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req TopicRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	var (
		topic domain.Topic
		err   error
	)
	if req.Category != "" {
		topic, err = domain.TopicForCategory(req.Category)
	} else {
		topic, err = domain.NewTopic(req.Topic)
	}
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	snap, err := sess.Machine.ChooseTopic(r.Context(), topic)
	if err == nil {
		h.logger.InfoContext(r.Context(), "generation requested",
			"session_id", sess.ID,
			"language", snap.Language,
			"step", snap.Step)
	}
	h.respondTransition(w, r, http.StatusAccepted, snap, err)
}

// Reset handles POST /api/sessions/{id}/reset.
func (h *WizardHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}
	snap, err := sess.Machine.Reset(r.Context())
	h.respondTransition(w, r, http.StatusOK, snap, err)
}

// Wait handles GET /api/sessions/{id}/wait. It answers once the session is
// no longer generating, or with the current state when ?timeout= (seconds)
// runs out.
func (h *WizardHandler) Wait(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), waitTimeout(r, DefaultWaitTimeout, MaxWaitTimeout))
	defer cancel()

	snap, err := sess.Machine.Wait(ctx)
	if err != nil && r.Context().Err() != nil {
		// Client went away.
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newSessionResponse(snap))
}

// Export handles GET /api/sessions/{id}/export?format=markdown|html.
func (h *WizardHandler) Export(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	snap := sess.Machine.Snapshot()
	if snap.Step != wizard.StepResults {
		HandleAPIError(w, r, export.ErrNoResult, "")
		return
	}

	body, err := export.Render(export.Document{
		Language: snap.Language,
		Topic:    snap.Topic,
		Result:   snap.Result,
	}, format)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to export script")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="viral-script-%s.%s"`, shortID(sess.ID), format.Extension()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write export", "error", err)
	}
}

// Stream handles GET /api/sessions/{id}/ws. The first message is the
// current state; every later transition follows as it happens.
func (h *WizardHandler) Stream(w http.ResponseWriter, r *http.Request) {
	if h.stream == nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Streaming is not enabled")
		return
	}

	sess, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	// The snapshot is read once the client is registered, so a transition
	// racing the upgrade is either in it or broadcast after it.
	h.stream.Serve(w, r, sess.ID, func() (*ws.Message, error) {
		payload, err := json.Marshal(sess.Machine.Snapshot())
		if err != nil {
			return nil, err
		}
		return &ws.Message{Type: events.TypeStateChanged, Payload: payload}, nil
	})
}

func (h *WizardHandler) respondTransition(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	snap wizard.Snapshot,
	err error,
) {
	if err != nil {
		if errors.Is(err, wizard.ErrInvalidTransition) || errors.Is(err, wizard.ErrGenerationInFlight) {
			h.logger.DebugContext(r.Context(), "rejected wizard event",
				"step", snap.Step,
				"error", err)
		}
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, status, newSessionResponse(snap))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/viral-scripts/internal/api"
	"github.com/phrazzld/viral-scripts/internal/api/middleware"
	"github.com/phrazzld/viral-scripts/internal/config"
	"github.com/phrazzld/viral-scripts/internal/events"
	"github.com/phrazzld/viral-scripts/internal/generation"
	"github.com/phrazzld/viral-scripts/internal/mocks"
	"github.com/phrazzld/viral-scripts/internal/platform/ws"
	"github.com/phrazzld/viral-scripts/internal/session"
	"github.com/phrazzld/viral-scripts/internal/task"
	"github.com/phrazzld/viral-scripts/internal/wizard"
	"github.com/stretchr/testify/require"
)

const testSigningKey = "api-test-signing-key-at-least-32-characters"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testAPI struct {
	router http.Handler
	store  *session.Store
	tokens *session.Tokens
	hub    *ws.Hub
}

type apiOptions struct {
	maxSessions int
	issuer      api.TokenIssuer
}

func newTestAPI(t *testing.T, gen generation.Generator, opts ...func(*apiOptions)) *testAPI {
	t.Helper()

	o := apiOptions{maxSessions: 10}
	for _, opt := range opts {
		opt(&o)
	}

	logger := discardLogger()

	runner := task.NewTaskRunner(task.DefaultTaskRunnerConfig(), logger)
	require.NoError(t, runner.Start())
	t.Cleanup(runner.Stop)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(hub)

	store := session.NewStore(o.maxSessions, func(id string) *wizard.Machine {
		return wizard.New(id, runner, gen, emitter, logger)
	}, emitter, logger)

	tokens, err := session.NewTokens(config.SessionConfig{
		SigningKey: testSigningKey,
		TokenTTL:   time.Hour,
	}, logger)
	require.NoError(t, err)

	issuer := api.TokenIssuer(tokens)
	if o.issuer != nil {
		issuer = o.issuer
	}

	r := chi.NewRouter()
	r.Use(middleware.NewTraceMiddleware(logger))
	api.Mount(r,
		api.NewCatalogHandler("gemini", store),
		api.NewWizardHandler(store, issuer, ws.NewHandler(hub, nil, logger), logger),
		middleware.NewSessionAuth(tokens))

	return &testAPI{router: r, store: store, tokens: tokens, hub: hub}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

// createSession opens a session and returns its id and token.
func (a *testAPI) createSession(t *testing.T) (string, string) {
	t.Helper()
	rr := a.do(t, http.MethodPost, "/api/sessions", "", nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp api.CreateSessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.SessionID, resp.Token
}

// toTopic drives a session to awaiting-topic.
func (a *testAPI) toTopic(t *testing.T, id, token string) {
	t.Helper()
	rr := a.do(t, http.MethodPost, "/api/sessions/"+id+"/start", token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rr = a.do(t, http.MethodPost, "/api/sessions/"+id+"/language", token, map[string]string{"language": "Inglês"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func decodeSession(t *testing.T, rr *httptest.ResponseRecorder) api.SessionResponse {
	t.Helper()
	var resp api.SessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return resp
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	msg, _ := resp["error"].(string)
	return msg
}

var _ api.TokenIssuer = (*mocks.MockSessionTokens)(nil)

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/phrazzld/viral-scripts/internal/api"
	"github.com/phrazzld/viral-scripts/internal/domain"
	"github.com/phrazzld/viral-scripts/internal/events"
	"github.com/phrazzld/viral-scripts/internal/mocks"
	"github.com/phrazzld/viral-scripts/internal/platform/ws"
	"github.com/phrazzld/viral-scripts/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSession(t *testing.T) {
	a := newTestAPI(t, &mocks.MockGenerator{})

	rr := a.do(t, http.MethodPost, "/api/sessions", "", nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp api.CreateSessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.NotEmpty(t, resp.ExpiresAt)
	assert.Equal(t, wizard.StepIdle, resp.Session.State.Step)
	assert.Equal(t, "CREATE VIRAL PROPHECIES", resp.Session.View.Title)

	id, err := a.tokens.Validate(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.SessionID, id)
}

func TestCreateSession_StoreFull(t *testing.T) {
	a := newTestAPI(t, &mocks.MockGenerator{}, func(o *apiOptions) { o.maxSessions = 1 })
	a.createSession(t)

	rr := a.do(t, http.MethodPost, "/api/sessions", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestCreateSession_TokenFailure(t *testing.T) {
	issuer := &mocks.MockSessionTokens{IssueErr: errors.New("signing failed")}
	a := newTestAPI(t, &mocks.MockGenerator{}, func(o *apiOptions) { o.issuer = issuer })

	rr := a.do(t, http.MethodPost, "/api/sessions", "", nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Failed to create session", errorMessage(t, rr))
}

func TestWizardFlow(t *testing.T) {
	want := mocks.SampleScriptResponse("Moon landing hoax")
	gen := mocks.NewMockGeneratorWithResponse(want)
	a := newTestAPI(t, gen)
	id, token := a.createSession(t)
	base := "/api/sessions/" + id

	rr := a.do(t, http.MethodPost, base+"/start", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeSession(t, rr)
	assert.Equal(t, wizard.StepAwaitingLanguage, resp.State.Step)
	assert.Len(t, resp.View.Options, 3)

	rr = a.do(t, http.MethodPost, base+"/language", token, map[string]string{"language": "english"})
	require.Equal(t, http.StatusOK, rr.Code)
	resp = decodeSession(t, rr)
	assert.Equal(t, wizard.StepAwaitingTopic, resp.State.Step)
	assert.Equal(t, domain.LanguageEnglish, resp.State.Language)

	rr = a.do(t, http.MethodPost, base+"/topic", token, map[string]string{"topic": "  Moon landing hoax  "})
	require.Equal(t, http.StatusAccepted, rr.Code, rr.Body.String())

	rr = a.do(t, http.MethodGet, base+"/wait?timeout=5", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	resp = decodeSession(t, rr)
	assert.Equal(t, wizard.StepResults, resp.State.Step)
	assert.Equal(t, want, resp.State.Result)
	assert.Equal(t, "MISSION ACCOMPLISHED", resp.View.Title)
	assert.Equal(t, []domain.Topic{"Moon landing hoax"}, gen.GenerateScriptCalls.Topics)

	rr = a.do(t, http.MethodGet, base, token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, wizard.StepResults, decodeSession(t, rr).State.Step)

	rr = a.do(t, http.MethodPost, base+"/reset", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	resp = decodeSession(t, rr)
	assert.Equal(t, wizard.StepAwaitingLanguage, resp.State.Step)
	assert.Empty(t, resp.State.Language)
	assert.Empty(t, resp.State.Topic)
	assert.Nil(t, resp.State.Result)
}

func TestChooseTopic_FailedGeneration(t *testing.T) {
	a := newTestAPI(t, mocks.MockGeneratorWithEmptyResponse())
	id, token := a.createSession(t)
	a.toTopic(t, id, token)

	rr := a.do(t, http.MethodPost, "/api/sessions/"+id+"/topic", token, map[string]string{"topic": "Moon landing hoax"})
	require.Equal(t, http.StatusAccepted, rr.Code)

	rr = a.do(t, http.MethodGet, "/api/sessions/"+id+"/wait", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeSession(t, rr)
	assert.Equal(t, wizard.StepError, resp.State.Step)
	assert.Equal(t, wizard.FailureMessage, resp.State.ErrorMessage)
	assert.Equal(t, "TRANSMISSION FAILED", resp.View.Title)
	assert.Equal(t, domain.LanguageEnglish, resp.State.Language)
	assert.Equal(t, domain.Topic("Moon landing hoax"), resp.State.Topic)
}

func TestChooseTopic_Category(t *testing.T) {
	gen := mocks.NewMockGeneratorWithResponse(mocks.SampleScriptResponse("tech"))
	a := newTestAPI(t, gen)
	id, token := a.createSession(t)
	a.toTopic(t, id, token)

	rr := a.do(t, http.MethodPost, "/api/sessions/"+id+"/topic", token, map[string]string{"category": "tech"})
	require.Equal(t, http.StatusAccepted, rr.Code, rr.Body.String())
	assert.Equal(t, domain.Topic("TECH & BIG TECH"), decodeSession(t, rr).State.Topic)

	rr = a.do(t, http.MethodGet, "/api/sessions/"+id+"/wait", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []domain.Topic{"TECH & BIG TECH"}, gen.GenerateScriptCalls.Topics)
}

func TestChooseTopic_BadInput(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{"empty topic", map[string]string{"topic": ""}},
		{"spaces", map[string]string{"topic": "   "}},
		{"whitespace", map[string]string{"topic": "\t\n"}},
		{"no fields", map[string]string{}},
		{"both fields", map[string]string{"topic": "x", "category": "tech"}},
		{"unknown category", map[string]string{"category": "sports"}},
		{"custom category", map[string]string{"category": "custom"}},
		{"malformed json", `{"topic":`},
		{"unknown field", map[string]string{"subject": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &mocks.MockGenerator{}
			a := newTestAPI(t, gen)
			id, token := a.createSession(t)
			a.toTopic(t, id, token)

			rr := a.do(t, http.MethodPost, "/api/sessions/"+id+"/topic", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())

			rr = a.do(t, http.MethodGet, "/api/sessions/"+id, token, nil)
			assert.Equal(t, wizard.StepAwaitingTopic, decodeSession(t, rr).State.Step)
			assert.Equal(t, 0, gen.CallCount())
		})
	}
}

func TestChooseLanguage_BadInput(t *testing.T) {
	a := newTestAPI(t, &mocks.MockGenerator{})
	id, token := a.createSession(t)
	rr := a.do(t, http.MethodPost, "/api/sessions/"+id+"/start", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = a.do(t, http.MethodPost, "/api/sessions/"+id+"/language", token, map[string]string{"language": "Klingon"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Unsupported language", errorMessage(t, rr))

	rr = a.do(t, http.MethodPost, "/api/sessions/"+id+"/language", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid language: required field", errorMessage(t, rr))
}

func TestInvalidTransitions(t *testing.T) {
	a := newTestAPI(t, &mocks.MockGenerator{})
	id, token := a.createSession(t)
	base := "/api/sessions/" + id

	rr := a.do(t, http.MethodPost, base+"/language", token, map[string]string{"language": "Inglês"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "Action not allowed in the current step", errorMessage(t, rr))

	rr = a.do(t, http.MethodPost, base+"/reset", token, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = a.do(t, http.MethodPost, base+"/topic", token, map[string]string{"topic": "x"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = a.do(t, http.MethodGet, base, token, nil)
	assert.Equal(t, wizard.StepIdle, decodeSession(t, rr).State.Step)
}

func TestChooseTopic_WhileGenerating(t *testing.T) {
	gate := make(chan struct{})
	gen := &mocks.MockGenerator{Response: mocks.SampleScriptResponse("x"), Gate: gate}
	a := newTestAPI(t, gen)
	id, token := a.createSession(t)
	a.toTopic(t, id, token)
	base := "/api/sessions/" + id

	rr := a.do(t, http.MethodPost, base+"/topic", token, map[string]string{"topic": "first"})
	require.Equal(t, http.StatusAccepted, rr.Code)
	<-gen.Started()

	rr = a.do(t, http.MethodPost, base+"/topic", token, map[string]string{"topic": "second"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "A script is already being generated", errorMessage(t, rr))

	rr = a.do(t, http.MethodGet, base+"/wait?timeout=1", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeSession(t, rr)
	assert.Equal(t, wizard.StepGenerating, resp.State.Step, "wait returns the current state on timeout")
	assert.True(t, resp.View.Busy)

	rr = a.do(t, http.MethodGet, base+"/export", token, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	close(gate)
	rr = a.do(t, http.MethodGet, base+"/wait", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, wizard.StepResults, decodeSession(t, rr).State.Step)
	assert.Equal(t, 1, gen.CallCount())
}

func TestSessionAuthorization(t *testing.T) {
	a := newTestAPI(t, &mocks.MockGenerator{})
	id, token := a.createSession(t)
	otherID, otherToken := a.createSession(t)

	rr := a.do(t, http.MethodGet, "/api/sessions/"+id, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = a.do(t, http.MethodGet, "/api/sessions/"+id, "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = a.do(t, http.MethodGet, "/api/sessions/"+id, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = a.do(t, http.MethodGet, "/api/sessions/"+otherID, otherToken, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = a.do(t, http.MethodGet, "/api/sessions/"+id+"?token="+token, "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestUnknownSession(t *testing.T) {
	a := newTestAPI(t, &mocks.MockGenerator{})
	token, _, err := a.tokens.Issue(context.Background(), "missing")
	require.NoError(t, err)

	rr := a.do(t, http.MethodGet, "/api/sessions/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Session not found", errorMessage(t, rr))
}

func TestExport(t *testing.T) {
	a := newTestAPI(t, mocks.NewMockGeneratorWithResponse(mocks.SampleScriptResponse("Moon landing hoax")))
	id, token := a.createSession(t)
	a.toTopic(t, id, token)
	base := "/api/sessions/" + id

	rr := a.do(t, http.MethodPost, base+"/topic", token, map[string]string{"topic": "Moon landing hoax"})
	require.Equal(t, http.StatusAccepted, rr.Code)
	rr = a.do(t, http.MethodGet, base+"/wait", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = a.do(t, http.MethodGet, base+"/export", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), ".md")
	assert.True(t, strings.HasPrefix(rr.Body.String(), "# BREAKING NEWS: Moon landing hoax"))

	rr = a.do(t, http.MethodGet, base+"/export?format=html", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "<h1>")

	rr = a.do(t, http.MethodGet, base+"/export?format=pdf", token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStream(t *testing.T) {
	a := newTestAPI(t, &mocks.MockGenerator{})
	id, token := a.createSession(t)

	server := httptest.NewServer(a.router)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/sessions/" + id + "/ws?token=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })

	read := func() wizard.Snapshot {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var msg ws.Message
		require.NoError(t, conn.ReadJSON(&msg))
		require.Equal(t, events.TypeStateChanged, msg.Type)
		var snap wizard.Snapshot
		require.NoError(t, json.Unmarshal(msg.Payload, &snap))
		return snap
	}

	assert.Equal(t, wizard.StepIdle, read().Step)
	require.Eventually(t, func() bool { return a.hub.Count(id) == 1 }, time.Second, 5*time.Millisecond)

	rr := a.do(t, http.MethodPost, "/api/sessions/"+id+"/start", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	snap := read()
	assert.Equal(t, wizard.StepAwaitingLanguage, snap.Step)
	assert.Equal(t, id, snap.SessionID)
}

func TestStream_RequiresToken(t *testing.T) {
	a := newTestAPI(t, &mocks.MockGenerator{})
	id, _ := a.createSession(t)

	rr := a.do(t, http.MethodGet, "/api/sessions/"+id+"/ws", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

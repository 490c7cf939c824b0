package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/capra/internal/domain/models"
	"github.com/mamadbah2/capra/internal/service/assistant"
)

type erroringCompleter struct{}

func (erroringCompleter) Complete(context.Context, string, string) (string, error) {
	return "", errors.New("dial tcp: timeout")
}

type echoCompleter struct{}

func (echoCompleter) Complete(_ context.Context, _ string, question string) (string, error) {
	return "You asked: " + question, nil
}

func newAssistantRouter(c assistant.Completer) *gin.Engine {
	chat := assistant.NewChat(assistant.NewBridge(c, nil, nil), nil, nil)
	h := NewAssistantHandler(chat, nil)
	r := gin.New()
	r.POST("/ask", h.Ask)
	r.GET("/transcript/:sessionId", h.Transcript)
	return r
}

func TestAssistantAsk(t *testing.T) {
	r := newAssistantRouter(echoCompleter{})

	w := do(r, http.MethodPost, "/ask", models.AskRequest{SessionID: "s1", Question: "When is Bella due?"})

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.AskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "You asked: When is Bella due?", resp.Reply)
	require.Len(t, resp.Transcript, 3)
	assert.Equal(t, assistant.Greeting, resp.Transcript[0].Content)

	w = do(r, http.MethodGet, "/transcript/s1", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Transcript, 3)
}

func TestAssistantAsk_FailureIsStillOK(t *testing.T) {
	r := newAssistantRouter(erroringCompleter{})

	w := do(r, http.MethodPost, "/ask", map[string]string{"question": "hi"})

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.AskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, assistant.FailureReply, resp.Reply)
	assert.NotEmpty(t, resp.SessionID)
}

func TestAssistantAsk_RejectsBlankQuestion(t *testing.T) {
	r := newAssistantRouter(echoCompleter{})

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/ask", map[string]string{"question": "   "}).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/ask", map[string]string{}).Code)
}

package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/capra/internal/domain/models"
)

// ChatService answers questions and keeps their transcripts.
type ChatService interface {
	Ask(ctx context.Context, sessionID, question string) models.AskResponse
	Transcript(sessionID string) []models.ChatMessage
}

// AssistantHandler exposes the farm assistant over HTTP.
type AssistantHandler struct {
	chat   ChatService
	logger *zap.Logger
}

// NewAssistantHandler constructs the assistant HTTP handler.
func NewAssistantHandler(chat ChatService, logger *zap.Logger) *AssistantHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssistantHandler{chat: chat, logger: logger}
}

// Ask answers a question. A session id is generated when the caller has none.
// Assistant failures are reported in the reply text, never as an HTTP error.
func (h *AssistantHandler) Ask(c *gin.Context) {
	var req models.AskRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question must not be blank"})
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	c.JSON(http.StatusOK, h.chat.Ask(c.Request.Context(), req.SessionID, req.Question))
}

// Transcript returns the messages of a session.
func (h *AssistantHandler) Transcript(c *gin.Context) {
	sessionID := c.Param("sessionId")
	c.JSON(http.StatusOK, models.AskResponse{
		SessionID:  sessionID,
		Transcript: h.chat.Transcript(sessionID),
	})
}

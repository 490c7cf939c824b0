package assistant

import (
	"context"
	"strings"

	"github.com/mamadbah2/capra/internal/domain/models"
)

// SnapshotSource provides the farm state a question is answered against.
type SnapshotSource interface {
	Snapshot() models.Snapshot
}

// Chat ties the bridge to per-session transcripts.
type Chat struct {
	bridge   *Bridge
	sessions *SessionManager
	source   SnapshotSource
}

// NewChat wires a chat over bridge. A nil sessions manager gets a fresh one.
func NewChat(bridge *Bridge, sessions *SessionManager, source SnapshotSource) *Chat {
	if sessions == nil {
		sessions = NewSessionManager()
	}
	return &Chat{bridge: bridge, sessions: sessions, source: source}
}

// Ask records the question, answers it against the current snapshot and records the reply.
func (c *Chat) Ask(ctx context.Context, sessionID, question string) models.AskResponse {
	question = strings.TrimSpace(question)

	var snap models.Snapshot
	if c.source != nil {
		snap = c.source.Snapshot()
	}
	reply := c.bridge.Ask(ctx, question, snap)

	transcript := c.sessions.Append(sessionID,
		models.ChatMessage{Role: models.ChatRoleUser, Content: question},
		models.ChatMessage{Role: models.ChatRoleAI, Content: reply},
	)
	return models.AskResponse{SessionID: sessionID, Reply: reply, Transcript: transcript}
}

// Transcript returns the session's messages.
func (c *Chat) Transcript(sessionID string) []models.ChatMessage {
	return c.sessions.Transcript(sessionID)
}

// Reset forgets the session.
func (c *Chat) Reset(sessionID string) {
	c.sessions.Clear(sessionID)
}

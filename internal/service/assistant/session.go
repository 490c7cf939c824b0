package assistant

import (
	"sync"

	"github.com/mamadbah2/capra/internal/domain/models"
)

// SessionManager keeps one chat transcript per session. Transcripts live only in
// memory; the bridge itself is stateless.
type SessionManager struct {
	sessions map[string][]models.ChatMessage
	mu       sync.RWMutex
}

// NewSessionManager creates an empty session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string][]models.ChatMessage),
	}
}

// Transcript returns a copy of the session's messages, starting with the greeting.
func (sm *SessionManager) Transcript(sessionID string) []models.ChatMessage {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if msgs, exists := sm.sessions[sessionID]; exists {
		return append([]models.ChatMessage(nil), msgs...)
	}
	return []models.ChatMessage{{Role: models.ChatRoleAI, Content: Greeting}}
}

// Append adds messages to the session and returns the resulting transcript.
func (sm *SessionManager) Append(sessionID string, msgs ...models.ChatMessage) []models.ChatMessage {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	current, exists := sm.sessions[sessionID]
	if !exists {
		current = []models.ChatMessage{{Role: models.ChatRoleAI, Content: Greeting}}
	}
	current = append(current, msgs...)
	sm.sessions[sessionID] = current
	return append([]models.ChatMessage(nil), current...)
}

// Clear forgets a session.
func (sm *SessionManager) Clear(sessionID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, sessionID)
}

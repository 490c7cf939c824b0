package models

// OutboundMessageRequest is a text message pushed to a WhatsApp recipient.
type OutboundMessageRequest struct {
	To         string `json:"to" binding:"required"`
	Message    string `json:"message" binding:"required"`
	PreviewURL bool   `json:"preview_url"`
}

// ChatRole identifies the author of a transcript entry.
type ChatRole string

const (
	ChatRoleUser ChatRole = "user"
	ChatRoleAI   ChatRole = "ai"
)

// ChatMessage is one entry of an assistant transcript.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// AskRequest is the body of an assistant question.
type AskRequest struct {
	SessionID string `json:"sessionId"`
	Question  string `json:"question" binding:"required"`
}

// AskResponse carries the assistant reply together with the updated transcript.
type AskResponse struct {
	SessionID  string        `json:"sessionId"`
	Reply      string        `json:"reply"`
	Transcript []ChatMessage `json:"transcript"`
}

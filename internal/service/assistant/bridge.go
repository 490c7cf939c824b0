package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/capra/internal/domain/models"
	"github.com/mamadbah2/capra/internal/metrics"
	"github.com/mamadbah2/capra/internal/service/views"
)

const (
	// EmptyReply is returned when the completion service answers with no text.
	EmptyReply = "I couldn't generate a response. Please try again."
	// FailureReply is returned whenever the completion call fails.
	FailureReply = "I'm having trouble connecting to the satellite. Please check your connection or API key."
	// Greeting opens every transcript.
	Greeting = "Hello! I am your AI Farm Assistant. Ask me about your herd health, breeding schedules, or financial insights."

	recentTransactionLimit = 5
)

const preamble = `You are an expert Veterinary and Goat Farm Management Assistant.
You help farmers with advice on goat health, breeding, nutrition, and analyzing farm data.
The user will provide a question and sometimes JSON data about their herd.

Guidelines:
- Provide practical, actionable advice.
- If analyzing data, summarize key trends (e.g., "Weight gain is steady", "Expenses are rising").
- If the query is medical, always include a disclaimer: "Consult a local vet for a definitive diagnosis."
- Be concise and professional.

Current Herd Context:
%s
`

// Completer sends one question with a system prompt to a text-completion service.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, question string) (string, error)
}

// HerdContext is the bounded summary of the farm sent along with a question.
type HerdContext struct {
	TotalGoats         int                  `json:"totalGoats"`
	Breeds             []string             `json:"breeds"`
	RecentTransactions []models.Transaction `json:"recentTransactions"`
	SickGoats          []models.HerdMember  `json:"sickGoats"`
	PregnantGoats      int                  `json:"pregnantGoats"`
}

// Bridge turns farm questions into completion calls. It never fails: any error
// is logged and replaced by FailureReply.
type Bridge struct {
	completer Completer
	logger    *zap.Logger
	metrics   metrics.Recorder
	now       func() time.Time
}

// NewBridge wires a bridge. A nil completer makes every question return FailureReply.
func NewBridge(completer Completer, rec metrics.Recorder, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Bridge{completer: completer, logger: logger, metrics: rec, now: time.Now}
}

// BuildContext summarizes snap as of now.
func BuildContext(snap models.Snapshot, now time.Time) HerdContext {
	recent := views.TransactionsByDate(snap.Transactions)
	if len(recent) > recentTransactionLimit {
		recent = recent[:recentTransactionLimit]
	}
	return HerdContext{
		TotalGoats:         len(snap.Herd),
		Breeds:             views.Breeds(snap.Herd),
		RecentTransactions: recent,
		SickGoats:          views.SickWithin(snap.Herd, now, views.SickWindow),
		PregnantGoats:      views.CountHerd(snap.Herd, now).Pregnant,
	}
}

// SystemPrompt renders the instruction preamble around the serialized context.
func SystemPrompt(hc HerdContext) (string, error) {
	payload, err := json.Marshal(hc)
	if err != nil {
		return "", fmt.Errorf("encode herd context: %w", err)
	}
	return fmt.Sprintf(preamble, payload), nil
}

// Ask answers question using snap as context. The snapshot is read once, at call time.
func (b *Bridge) Ask(ctx context.Context, question string, snap models.Snapshot) string {
	if b.completer == nil {
		b.logger.Warn("assistant asked without a configured completion provider")
		b.metrics.AssistantCall("unconfigured")
		return FailureReply
	}

	prompt, err := SystemPrompt(BuildContext(snap, b.now()))
	if err != nil {
		b.logger.Error("failed to build assistant prompt", zap.Error(err))
		b.metrics.AssistantCall("error")
		return FailureReply
	}

	reply, err := b.complete(ctx, prompt, question)
	if err != nil {
		b.logger.Error("assistant completion failed", zap.Error(err))
		b.metrics.AssistantCall("error")
		return FailureReply
	}
	if reply == "" {
		b.metrics.AssistantCall("empty")
		return EmptyReply
	}

	b.metrics.AssistantCall("ok")
	return reply
}

// complete shields the caller from panics inside provider SDKs.
func (b *Bridge) complete(ctx context.Context, prompt, question string) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("completion panicked: %v", r)
		}
	}()
	return b.completer.Complete(ctx, prompt, question)
}

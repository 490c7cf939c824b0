package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/capra/internal/config"
	"github.com/mamadbah2/capra/internal/domain/models"
	"github.com/mamadbah2/capra/internal/service/commands"
	client "github.com/mamadbah2/capra/pkg/clients/whatsapp"
)

const sendTimeout = 10 * time.Second

// MessagingService describes the operations the HTTP layer can perform.
type MessagingService interface {
	VerifyWebhookToken(mode, verifyToken, challenge string) (string, error)
	HandleWebhook(ctx context.Context, payload models.WebhookPayload) error
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// CommandHandler executes slash commands.
type CommandHandler interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Assistant answers free-text questions within a session.
type Assistant interface {
	Ask(ctx context.Context, sessionID, question string) models.AskResponse
}

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	cfg       config.WhatsAppConfig
	client    client.Client
	assistant Assistant
	commands  CommandHandler
	logger    *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance. dispatcher may be nil, in
// which case every message goes to the assistant.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, client client.Client, assistant Assistant, dispatcher CommandHandler, logger *zap.Logger) *MetaWhatsAppService {
	svc := &MetaWhatsAppService{
		cfg:       cfg,
		client:    client,
		assistant: assistant,
		commands:  dispatcher,
		logger:    logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// VerifyWebhookToken validates the callback verification token.
func (s *MetaWhatsAppService) VerifyWebhookToken(mode, verifyToken, challenge string) (string, error) {
	if mode == "" || verifyToken == "" {
		return "", errors.New("missing mode or verify token")
	}

	if !strings.EqualFold(mode, "subscribe") {
		return "", fmt.Errorf("unsupported hub.mode %s", mode)
	}

	if verifyToken != s.cfg.VerifyToken {
		return "", errors.New("invalid verify token")
	}

	return challenge, nil
}

// HandleWebhook answers every inbound message in payload. The first failure is
// returned after all messages have been attempted.
func (s *MetaWhatsAppService) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	var firstErr error

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if err := s.handleInboundMessage(ctx, msg); err != nil {
					s.logger.Error("failed to handle inbound message", zap.Error(err), zap.String("message_id", msg.ID))
					if firstErr == nil {
						firstErr = err
					}
				}
			}
		}
	}

	return firstErr
}

func (s *MetaWhatsAppService) handleInboundMessage(ctx context.Context, msg models.InboundMessage) error {
	text := strings.TrimSpace(extractMessageText(msg))
	if text == "" {
		s.logger.Debug("ignoring message without text", zap.String("type", msg.Type), zap.String("from", msg.From))
		return nil
	}

	reply := s.replyTo(ctx, msg.From, text)
	return s.send(ctx, msg.From, reply, false)
}

func (s *MetaWhatsAppService) replyTo(ctx context.Context, from, text string) string {
	if s.commands != nil && models.IsCommand(text) {
		cmd := models.ParseCommand(text)
		s.logger.Info("parsed inbound command",
			zap.String("from", from),
			zap.String("command", string(cmd.Type)),
			zap.Strings("args", cmd.Args))

		reply, err := s.commands.HandleCommand(ctx, cmd, from)
		switch {
		case err == nil:
			return reply
		case errors.Is(err, commands.ErrInvalidArguments):
			return "Could not read that command.\n" + commands.HelpText()
		case errors.Is(err, commands.ErrUnsupportedCommand):
			return "Unknown command.\n" + commands.HelpText()
		default:
			s.logger.Error("command failed", zap.Error(err), zap.String("command", string(cmd.Type)))
			return "Sorry, that command could not be completed. Please try again."
		}
	}

	if s.assistant == nil {
		return commands.HelpText()
	}
	return s.assistant.Ask(ctx, sessionID(from), text).Reply
}

// SendOutbound lets internal operators push quick notifications via HTTP.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	return s.send(ctx, req.To, req.Message, req.PreviewURL)
}

func (s *MetaWhatsAppService) send(ctx context.Context, to, body string, preview bool) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	_, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         to,
		Body:       body,
		PreviewURL: preview,
	})
	return err
}

func sessionID(from string) string {
	return "whatsapp:" + from
}

func extractMessageText(msg models.InboundMessage) string {
	if msg.Text != nil {
		return msg.Text.Body
	}
	if msg.Interactive != nil && msg.Interactive.ButtonReply != nil {
		return msg.Interactive.ButtonReply.Title
	}
	return ""
}

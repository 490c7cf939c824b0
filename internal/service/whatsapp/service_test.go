package whatsapp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/capra/internal/config"
	"github.com/mamadbah2/capra/internal/domain/models"
	"github.com/mamadbah2/capra/internal/service/commands"
	client "github.com/mamadbah2/capra/pkg/clients/whatsapp"
)

type recordingClient struct {
	sent []client.SendTextMessageRequest
	err  error
}

func (r *recordingClient) SendTextMessage(_ context.Context, req client.SendTextMessageRequest) (*client.SendTextMessageResponse, error) {
	r.sent = append(r.sent, req)
	return &client.SendTextMessageResponse{}, r.err
}

type fakeAssistant struct {
	sessions  []string
	questions []string
}

func (f *fakeAssistant) Ask(_ context.Context, sessionID, question string) models.AskResponse {
	f.sessions = append(f.sessions, sessionID)
	f.questions = append(f.questions, question)
	return models.AskResponse{SessionID: sessionID, Reply: "answer: " + question}
}

type fakeCommands struct {
	reply string
	err   error
	got   []models.Command
}

func (f *fakeCommands) HandleCommand(_ context.Context, cmd models.Command, _ string) (string, error) {
	f.got = append(f.got, cmd)
	return f.reply, f.err
}

func textPayload(from string, bodies ...string) models.WebhookPayload {
	msgs := make([]models.InboundMessage, 0, len(bodies))
	for i, b := range bodies {
		msgs = append(msgs, models.InboundMessage{
			From: from,
			ID:   string(rune('a' + i)),
			Type: "text",
			Text: &models.TextContent{Body: b},
		})
	}
	return models.WebhookPayload{Entry: []models.WebhookEntry{{
		Changes: []models.WebhookChange{{Value: models.WebhookValue{Messages: msgs}}},
	}}}
}

func TestVerifyWebhookToken(t *testing.T) {
	svc := NewMetaWhatsAppService(config.WhatsAppConfig{VerifyToken: "secret"}, &recordingClient{}, nil, nil, nil)

	got, err := svc.VerifyWebhookToken("subscribe", "secret", "42")
	require.NoError(t, err)
	assert.Equal(t, "42", got)

	_, err = svc.VerifyWebhookToken("subscribe", "wrong", "42")
	assert.Error(t, err)
	_, err = svc.VerifyWebhookToken("unsubscribe", "secret", "42")
	assert.Error(t, err)
	_, err = svc.VerifyWebhookToken("", "", "42")
	assert.Error(t, err)
}

func TestHandleWebhook_QuestionGoesToAssistant(t *testing.T) {
	wa := &recordingClient{}
	assistant := &fakeAssistant{}
	cmds := &fakeCommands{}
	svc := NewMetaWhatsAppService(config.WhatsAppConfig{}, wa, assistant, cmds, nil)

	err := svc.HandleWebhook(context.Background(), textPayload("224600", " Is Bella due soon? "))

	require.NoError(t, err)
	assert.Empty(t, cmds.got)
	assert.Equal(t, []string{"whatsapp:224600"}, assistant.sessions)
	assert.Equal(t, []string{"Is Bella due soon?"}, assistant.questions)
	require.Len(t, wa.sent, 1)
	assert.Equal(t, "224600", wa.sent[0].To)
	assert.Equal(t, "answer: Is Bella due soon?", wa.sent[0].Body)
}

func TestHandleWebhook_CommandsAreDispatched(t *testing.T) {
	wa := &recordingClient{}
	assistant := &fakeAssistant{}
	cmds := &fakeCommands{reply: "Expense recorded"}
	svc := NewMetaWhatsAppService(config.WhatsAppConfig{}, wa, assistant, cmds, nil)

	err := svc.HandleWebhook(context.Background(), textPayload("224600", "/expense 40 Feed"))

	require.NoError(t, err)
	require.Len(t, cmds.got, 1)
	assert.Equal(t, models.CommandExpense, cmds.got[0].Type)
	assert.Empty(t, assistant.questions)
	assert.Equal(t, "Expense recorded", wa.sent[0].Body)
}

func TestHandleWebhook_CommandErrorsBecomeHelp(t *testing.T) {
	wa := &recordingClient{}
	cmds := &fakeCommands{err: commands.ErrInvalidArguments}
	svc := NewMetaWhatsAppService(config.WhatsAppConfig{}, wa, &fakeAssistant{}, cmds, nil)

	require.NoError(t, svc.HandleWebhook(context.Background(), textPayload("1", "/income abc")))
	assert.Contains(t, wa.sent[0].Body, commands.HelpText())

	cmds.err = errors.New("disk full")
	require.NoError(t, svc.HandleWebhook(context.Background(), textPayload("1", "/income 5")))
	assert.Contains(t, wa.sent[1].Body, "could not be completed")
}

func TestHandleWebhook_SkipsNonTextAndReportsSendFailure(t *testing.T) {
	wa := &recordingClient{err: errors.New("meta down")}
	svc := NewMetaWhatsAppService(config.WhatsAppConfig{}, wa, &fakeAssistant{}, nil, nil)

	payload := textPayload("1", "hello", "again")
	payload.Entry[0].Changes[0].Value.Messages = append(payload.Entry[0].Changes[0].Value.Messages,
		models.InboundMessage{From: "1", Type: "image"})

	err := svc.HandleWebhook(context.Background(), payload)

	assert.Error(t, err)
	assert.Len(t, wa.sent, 2)
}

func TestSendOutbound(t *testing.T) {
	wa := &recordingClient{}
	svc := NewMetaWhatsAppService(config.WhatsAppConfig{}, wa, nil, nil, nil)

	err := svc.SendOutbound(context.Background(), models.OutboundMessageRequest{To: "9", Message: "report", PreviewURL: true})

	require.NoError(t, err)
	assert.Equal(t, client.SendTextMessageRequest{To: "9", Body: "report", PreviewURL: true}, wa.sent[0])
}

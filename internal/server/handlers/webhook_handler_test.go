package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/capra/internal/domain/models"
)

type stubMessaging struct {
	handleErr error
	sendErr   error
	payloads  []models.WebhookPayload
}

func (s *stubMessaging) VerifyWebhookToken(mode, token, challenge string) (string, error) {
	if mode == "subscribe" && token == "secret" {
		return challenge, nil
	}
	return "", errors.New("invalid verify token")
}

func (s *stubMessaging) HandleWebhook(_ context.Context, p models.WebhookPayload) error {
	s.payloads = append(s.payloads, p)
	return s.handleErr
}

func (s *stubMessaging) SendOutbound(context.Context, models.OutboundMessageRequest) error {
	return s.sendErr
}

func newWebhookRouter(svc *stubMessaging) *gin.Engine {
	h := NewWebhookHandler(svc, nil)
	r := gin.New()
	r.GET("/webhook", h.Verify)
	r.POST("/webhook", h.Receive)
	r.POST("/send-message", h.Notify)
	return r
}

func TestWebhookVerify(t *testing.T) {
	r := newWebhookRouter(&stubMessaging{})

	w := do(r, http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=123", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "123", w.Body.String())

	w = do(r, http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=nope&hub.challenge=123", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestWebhookReceive_AcknowledgesEvenOnFailure(t *testing.T) {
	svc := &stubMessaging{handleErr: errors.New("send failed")}
	r := newWebhookRouter(svc)

	w := do(r, http.MethodPost, "/webhook", map[string]any{"object": "whatsapp_business_account", "entry": []any{}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, svc.payloads, 1)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/webhook", "{").Code)
}

func TestWebhookNotify(t *testing.T) {
	svc := &stubMessaging{}
	r := newWebhookRouter(svc)

	assert.Equal(t, http.StatusAccepted, do(r, http.MethodPost, "/send-message", map[string]string{"to": "1", "message": "hi"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/send-message", map[string]string{"to": "1"}).Code)

	svc.sendErr = errors.New("meta down")
	assert.Equal(t, http.StatusBadGateway, do(r, http.MethodPost, "/send-message", map[string]string{"to": "1", "message": "hi"}).Code)
}

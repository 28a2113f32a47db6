package platforms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sepehrdad/Hydra-Marketing/config"
	"github.com/sepehrdad/Hydra-Marketing/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWhatsAppSender(baseURL string) WhatsAppSender {
	return NewWhatsAppSender(config.WhatsAppConfig{
		APIBaseURL:    baseURL,
		PhoneNumberID: "phone-1",
		AccessToken:   "wa-token",
		Timeout:       5 * time.Second,
	})
}

func TestWhatsAppValidRecipient(t *testing.T) {
	sender := newWhatsAppSender("http://unused")

	assert.True(t, sender.ValidRecipient("+15551234567"))
	assert.True(t, sender.ValidRecipient("15551234567"))
	assert.True(t, sender.ValidRecipient("  +15551234567  "))

	assert.False(t, sender.ValidRecipient(""))
	assert.False(t, sender.ValidRecipient("+1555"))
	assert.False(t, sender.ValidRecipient("not-a-number"))
	assert.False(t, sender.ValidRecipient("+1555123456789012"))
}

func TestWhatsAppSendTextMessage(t *testing.T) {
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/phone-1/messages", r.URL.Path)
		require.Equal(t, "Bearer wa-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.001"}]}`))
	}))
	defer server.Close()

	sender := newWhatsAppSender(server.URL)
	result := sender.SendMessage(context.Background(), "+15551234567", WhatsAppMessage{
		MessageType: models.WhatsAppMessageTypeText,
		Body:        "hello",
	})

	require.True(t, result.Success, "reason: %s", result.Reason)
	assert.Equal(t, "wamid.001", result.ExternalID)
	assert.Equal(t, "whatsapp", payload["messaging_product"])
	assert.Equal(t, "15551234567", payload["to"], "plus prefix is stripped for the cloud api")
	assert.Equal(t, "text", payload["type"])
}

func TestWhatsAppSendTemplateMessage(t *testing.T) {
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.002"}]}`))
	}))
	defer server.Close()

	sender := newWhatsAppSender(server.URL)
	result := sender.SendMessage(context.Background(), "15551234567", WhatsAppMessage{
		MessageType:  models.WhatsAppMessageTypeTemplate,
		TemplateName: "order_update",
	})

	require.True(t, result.Success)
	assert.Equal(t, "template", payload["type"])
	template, ok := payload["template"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "order_update", template["name"])
}

func TestWhatsAppSendProviderRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Recipient phone number not in allowed list"}}`))
	}))
	defer server.Close()

	sender := newWhatsAppSender(server.URL)
	result := sender.SendMessage(context.Background(), "+15551234567", WhatsAppMessage{
		MessageType: models.WhatsAppMessageTypeText,
		Body:        "hello",
	})

	assert.False(t, result.Success)
	assert.Contains(t, result.Reason, "http status 400")
	assert.Contains(t, result.Reason, "not in allowed list")
}

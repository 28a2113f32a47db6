package platforms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sepehrdad/Hydra-Marketing/config"
	"github.com/sepehrdad/Hydra-Marketing/models"
)

// WhatsAppMessage describes one outbound WhatsApp message
type WhatsAppMessage struct {
	MessageType  models.WhatsAppMessageType
	TemplateName string
	Body         string
	MediaURL     string
}

// WhatsAppSender delivers messages through the WhatsApp Cloud API using the
// platform-level business credential from config (no per-customer OAuth).
type WhatsAppSender interface {
	SendMessage(ctx context.Context, recipient string, msg WhatsAppMessage) PublishResult
	ValidRecipient(recipient string) bool
}

type whatsAppClient struct {
	cfg    config.WhatsAppConfig
	client *http.Client
}

// NewWhatsAppSender creates a WhatsApp Cloud API client
func NewWhatsAppSender(cfg config.WhatsAppConfig) WhatsAppSender {
	return &whatsAppClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// ValidRecipient checks for an E.164-shaped phone number
func (c *whatsAppClient) ValidRecipient(recipient string) bool {
	number := strings.TrimPrefix(strings.TrimSpace(recipient), "+")
	if len(number) < 8 || len(number) > 15 {
		return false
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SendMessage posts one message to the Cloud API. Provider rejections and
// transport errors both come back as a failed result with a reason.
func (c *whatsAppClient) SendMessage(ctx context.Context, recipient string, msg WhatsAppMessage) PublishResult {
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                strings.TrimPrefix(strings.TrimSpace(recipient), "+"),
	}

	switch msg.MessageType {
	case models.WhatsAppMessageTypeTemplate:
		payload["type"] = "template"
		payload["template"] = map[string]any{
			"name":     msg.TemplateName,
			"language": map[string]any{"code": "en"},
		}
	default:
		if msg.MediaURL != "" {
			payload["type"] = "image"
			payload["image"] = map[string]any{
				"link":    msg.MediaURL,
				"caption": msg.Body,
			}
		} else {
			payload["type"] = "text"
			payload["text"] = map[string]any{"body": msg.Body}
		}
	}

	b, _ := json.Marshal(payload)
	url := fmt.Sprintf("%s/%s/messages", c.cfg.APIBaseURL, c.cfg.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return failure(fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return failure(fmt.Sprintf("transport: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return failure(readAPIError(resp))
	}

	var out struct {
		Messages []struct {
			ID string `json:"id"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return failure(fmt.Sprintf("decode response: %v", err))
	}
	if len(out.Messages) == 0 {
		return failure("no message id in response")
	}

	return published(out.Messages[0].ID)
}

package platforms

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/sepehrdad/Hydra-Marketing/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailValidRecipient(t *testing.T) {
	sender := NewEmailSender(config.EmailConfig{})

	assert.True(t, sender.ValidRecipient("user@example.com"))
	assert.True(t, sender.ValidRecipient("  user@example.com  "))

	assert.False(t, sender.ValidRecipient(""))
	assert.False(t, sender.ValidRecipient("not-an-address"))
	assert.False(t, sender.ValidRecipient("Name <user@example.com>"))
}

func TestEmailSendHonorsContextDeadline(t *testing.T) {
	// SMTP server that accepts the connection but never sends a greeting
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		for {
			// Hold each connection open without speaking SMTP
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			_ = conn
		}
	}()

	sender := NewEmailSender(config.EmailConfig{
		Host:      "127.0.0.1",
		Port:      ln.Addr().(*net.TCPAddr).Port,
		FromEmail: "noreply@hydra.example",
		FromName:  "Hydra",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	result := sender.SendEmail(ctx, "user@example.com", "subject", "<p>body</p>")

	assert.False(t, result.Success)
	assert.Contains(t, result.Reason, "context deadline exceeded")
	assert.Less(t, time.Since(start), 5*time.Second, "the stalled session must not block past the deadline")
}

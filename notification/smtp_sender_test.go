package notification_test

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/Shakilofficial/nextmart-server/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage_WithAttachment(t *testing.T) {
	att := &notification.Attachment{
		Filename:    "Invoice_abc123.pdf",
		ContentType: "application/pdf",
		Content:     []byte("%PDF-1.4 test content"),
	}

	msg := string(notification.BuildMessage(
		"Nexa <noreply@nexa.com>",
		"rahim@example.com",
		"Order confirmed - Payment Success!",
		"<html><body>hi</body></html>",
		att,
	))

	assert.Contains(t, msg, "From: Nexa <noreply@nexa.com>\r\n")
	assert.Contains(t, msg, "To: rahim@example.com\r\n")
	assert.Contains(t, msg, "MIME-Version: 1.0\r\n")
	assert.Contains(t, msg, "Content-Type: multipart/mixed;")
	assert.Contains(t, msg, "Content-Type: text/html; charset=UTF-8")
	assert.Contains(t, msg, `Content-Disposition: attachment; filename="Invoice_abc123.pdf"`)
	assert.Contains(t, msg, "Content-Transfer-Encoding: base64")

	encoded := base64.StdEncoding.EncodeToString(att.Content)
	assert.Contains(t, msg, encoded)
}

func TestBuildMessage_WithoutAttachment(t *testing.T) {
	msg := string(notification.BuildMessage(
		"Nexa <noreply@nexa.com>",
		"rahim@example.com",
		"Hello",
		"<p>plain html</p>",
		nil,
	))

	assert.Contains(t, msg, "Content-Type: text/html; charset=UTF-8\r\n")
	assert.NotContains(t, msg, "multipart/mixed")
	assert.True(t, strings.HasSuffix(msg, "<p>plain html</p>"))
}

func TestBuildMessage_Base64LineLength(t *testing.T) {
	att := &notification.Attachment{
		Filename: "big.pdf",
		Content:  make([]byte, 4096),
	}

	msg := string(notification.BuildMessage("a@b.c", "d@e.f", "s", "body", att))

	for _, line := range strings.Split(msg, "\r\n") {
		assert.LessOrEqual(t, len(line), 78)
	}
}

func TestOrderInvoiceBody(t *testing.T) {
	body, err := notification.OrderInvoiceBody("Rahim Uddin")

	require.NoError(t, err)
	assert.Contains(t, body, "Rahim Uddin")
	assert.Contains(t, body, "Nexa")
}

func TestNewSMTPSender_RequiresConfig(t *testing.T) {
	_, err := notification.NewSMTPSender("", "587", "user", "pass", "Nexa")
	assert.Error(t, err)

	_, err = notification.NewSMTPSender("smtp.example.com", "587", "user", "pass", "Nexa")
	assert.NoError(t, err)
}

package notification

import "context"

// Attachment is a binary file attached to an outgoing email.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// EmailSender delivers an HTML email with an optional attachment. It must
// report failure as an error rather than panic across the caller's boundary.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string, attachment *Attachment) error
}

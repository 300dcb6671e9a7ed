package port

import "context"

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	SendWelcomeEmail(ctx context.Context, toEmail, toName, role string) error
}

package noop

import (
	"context"

	"go.uber.org/zap"

	"billdesk/internal/port"
)

type noopSender struct {
	log         *zap.Logger
	frontendURL string
}

// NewSender creates an EmailSender that only logs what it would have sent.
func NewSender(log *zap.Logger, frontendURL string) port.EmailSender {
	return &noopSender{log: log, frontendURL: frontendURL}
}

func (s *noopSender) SendWelcomeEmail(_ context.Context, toEmail, toName, role string) error {
	s.log.Info("noop email: welcome",
		zap.String("to", toEmail),
		zap.String("name", toName),
		zap.String("role", role),
		zap.String("login_url", s.frontendURL+"/login"),
	)
	return nil
}

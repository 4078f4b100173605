package auth

import (
	"context"

	"github.com/xelth-com/jobintake/internal/logger"
)

// Message is an account email (confirmation or password reset)
type Message struct {
	To      string
	Subject string
	Link    string
}

// Mailer delivers account emails
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes the message to the log instead of sending it
type LogMailer struct {
	log *logger.Logger
}

func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log.With("component", "mailer")}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.log.Info("Account email", "to", msg.To, "subject", msg.Subject, "link", msg.Link)
	return nil
}

package mailer

import (
	"context"

	"go.uber.org/zap"
)

// Message is a fully rendered email.
type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender only writes the message to the log. It is the default driver for
// local runs.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.log.Info("email not delivered, log driver in use",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}

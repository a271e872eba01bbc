package notification

import (
	"context"
	"log"
)

// LogSMSSender stands in for a real SMS gateway. The upstream providers are
// deployment-specific; in development the code is logged so flows stay
// testable end to end.
type LogSMSSender struct{}

func NewLogSMSSender() *LogSMSSender {
	return &LogSMSSender{}
}

func (s *LogSMSSender) Send(_ context.Context, msg Message) error {
	log.Printf("[DEV MODE] SMS would be sent to %s: your verification code is %s", msg.Recipient, msg.Code)
	return nil
}

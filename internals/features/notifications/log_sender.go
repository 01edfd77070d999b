package notifications

import (
	"context"
	"log"
)

// LogSender writes the notification to the server log instead of
// delivering it. Used in development and whenever SES is unconfigured.
type LogSender struct{}

func (LogSender) SendFollowUp(ctx context.Context, to, subject, body string) error {
	log.Printf("[NOTIFY] to=%s subject=%q body=%q", to, subject, body)
	return nil
}

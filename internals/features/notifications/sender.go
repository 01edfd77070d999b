package notifications

import (
	"context"
	"log"
	"sync"

	"gerejaku_backend/internals/configs"
)

// Sender is the follow-up notification capability. Sending is always
// best-effort: callers log failures and never fail the triggering
// request on a send error.
type Sender interface {
	SendFollowUp(ctx context.Context, to, subject, body string) error
}

var (
	mu     sync.RWMutex
	sender Sender = LogSender{}
)

// Init installs the process-wide sender. Called once at startup.
func Init(s Sender) {
	mu.Lock()
	defer mu.Unlock()
	if s == nil {
		s = LogSender{}
	}
	sender = s
}

// Get returns the installed sender; defaults to the logging stub so
// there is never a nil sender to guard against.
func Get() Sender {
	mu.RLock()
	defer mu.RUnlock()
	return sender
}

// NewSenderFromEnv picks the SES sender when SES_FROM_ADDRESS is
// configured, the logging stub otherwise.
func NewSenderFromEnv() Sender {
	if configs.SESFromAddress == "" {
		log.Println("📭 follow-up notifications: logging stub active")
		return LogSender{}
	}
	s, err := NewSESSender(configs.SESRegion, configs.SESFromAddress)
	if err != nil {
		log.Printf("[WARN] SES sender init failed (%v), falling back to log output", err)
		return LogSender{}
	}
	log.Println("📬 follow-up notifications: SES sender active")
	return s
}

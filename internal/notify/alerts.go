package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/sohamn21/nektech-connect/pkg/logging"
)

// AlertService emails operators when a provider dispatch is recorded as
// an error. The scheduling endpoint acks optimistically toward users, so
// this is the channel where silent provider failures become visible.
type AlertService struct {
	sender EmailSender
	to     string
	logger *logging.Logger
}

// NewAlertService creates an alert service. sender may be nil; alerts are
// then dropped with a log line only.
func NewAlertService(sender EmailSender, to string, logger *logging.Logger) *AlertService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AlertService{sender: sender, to: to, logger: logger}
}

// DispatchFailed reports a failed provider dispatch. Errors sending the
// alert itself are swallowed; alerting must never affect request paths.
func (a *AlertService) DispatchFailed(ctx context.Context, kind, recipient, errText string) {
	if a == nil {
		return
	}
	if a.sender == nil || a.to == "" {
		a.logger.Warn("dispatch failure (alerting not configured)",
			"kind", kind, "recipient", recipient, "error", errText)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	msg := EmailMessage{
		To:      a.to,
		Subject: fmt.Sprintf("[nekconnect] %s dispatch failed", kind),
		Body:    fmt.Sprintf("Dispatch kind: %s\nRecipient: %s\nProvider error: %s\n", kind, recipient, errText),
	}
	if err := a.sender.Send(ctx, msg); err != nil {
		a.logger.Warn("failed to send dispatch failure alert", "error", err, "kind", kind)
	}
}

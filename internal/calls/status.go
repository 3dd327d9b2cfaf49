package calls

import "strings"

// Scheduled call statuses. Transitions are one-directional:
// pending -> in_progress (provider accepted the call)
// in_progress -> completed | failed (provider status callback)
// pending -> error (provider rejected at creation)
// No record re-enters pending after leaving it.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusError      = "error"
)

// MapProviderStatus folds the telephony provider's status vocabulary into
// the record status enum. Unmodeled inputs pass through lower-cased as-is.
func MapProviderStatus(providerStatus string) string {
	switch s := strings.ToLower(strings.TrimSpace(providerStatus)); s {
	case "completed":
		return StatusCompleted
	case "busy", "no-answer", "failed", "canceled":
		return StatusFailed
	default:
		return s
	}
}

// Package events defines the interaction record written for every inbound
// fulfillment request, plus the append-only store that persists it.
package events

import (
	"time"
)

// Source identifies the provenance of an inbound fulfillment request.
type Source string

const (
	// SourceTelephony marks events arriving from the IVR telephony
	// integration.
	SourceTelephony Source = "telephony"
	// SourceChat marks events arriving from the WhatsApp chat integration.
	SourceChat Source = "chat"
	// SourceText marks events from plain-text test consoles.
	SourceText Source = "text"
)

// FromProvider maps the raw provenance marker carried by the intent
// classifier to a Source. Unknown markers are treated as text consoles.
func FromProvider(marker string) Source {
	switch marker {
	case "telephony", "GOOGLE_TELEPHONY", "twilio", "AUDIO_TELEPHONY":
		return SourceTelephony
	case "whatsapp", "chat":
		return SourceChat
	default:
		return SourceText
	}
}

// InteractionEvent is an immutable record of one inbound intent event.
// It is created by the webhook gateway and appended by the Store; the
// service never mutates or deletes logged events.
type InteractionEvent struct {
	ID         string    `json:"id"`
	Source     Source    `json:"source"`
	IntentName string    `json:"intent_name"`
	UserInput  string    `json:"user_input,omitempty"`
	Language   string    `json:"language"`
	CallerID   string    `json:"caller_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

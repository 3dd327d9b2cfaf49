// Package channel renders resolved replies into channel-specific wire
// payloads. The two delivery channels are a closed variant set: telephony
// (TwiML markup executed by the voice provider) and chat (plain
// fulfillment text). Each variant owns its rendering rules.
package channel

import (
	"fmt"

	"github.com/sohamn21/nektech-connect/internal/events"
	"github.com/sohamn21/nektech-connect/internal/intent"
)

// Channel is the closed set of delivery channels.
type Channel string

const (
	// Telephony renders TwiML markup for the voice provider.
	Telephony Channel = "telephony"
	// Chat renders plain fulfillment text for the messaging provider.
	Chat Channel = "chat"
)

// ForSource selects the rendering channel for an event source. Telephony
// sources get markup; chat and text consoles get fulfillment text.
func ForSource(source events.Source) Channel {
	if source == events.SourceTelephony {
		return Telephony
	}
	return Chat
}

// Render produces the wire payload and content type for the given channel.
// An unrecognized channel is a programming-contract violation: the gateway
// must never construct one, so this panics rather than mis-rendering.
func Render(ch Channel, reply intent.Reply, opts TelephonyOptions) ([]byte, string) {
	switch ch {
	case Telephony:
		body, err := RenderTelephony(reply, opts)
		if err != nil {
			// xml.Marshal of the fixed TwiML structs cannot fail with
			// well-formed text; treat it as the same contract violation.
			panic(fmt.Sprintf("channel: telephony render: %v", err))
		}
		return body, "application/xml"
	case Chat:
		return RenderChat(reply), "application/json"
	default:
		panic(fmt.Sprintf("channel: unknown channel %q", ch))
	}
}

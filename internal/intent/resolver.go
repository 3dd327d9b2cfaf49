// Package intent maps classified intent names to localized replies and
// channel control directives. The mapping is a closed, hand-maintained
// table: recognized intents are declared as static configuration so the
// set stays auditable and exhaustively testable.
package intent

import (
	"github.com/sohamn21/nektech-connect/internal/events"
	"github.com/sohamn21/nektech-connect/internal/locale"
)

// Recognized intent names, as emitted by the upstream classifier.
const (
	IntentWelcome     = "Welcome"
	IntentOptions     = "Options"
	IntentProductInfo = "ProductInfo"
	IntentTraining    = "Training"
	IntentMarketplace = "Marketplace"
	IntentGoodbye     = "Goodbye"
)

// Reply is the channel-independent outcome of resolving an intent.
type Reply struct {
	// Text is the localized response to deliver.
	Text string
	// Terminal instructs the telephony channel to end the call.
	Terminal bool
	// GatherInput instructs the telephony channel to solicit one more
	// input from the caller. Never set together with Terminal.
	GatherInput bool
}

// directive captures the fixed control semantics of one recognized intent.
type directive struct {
	terminal bool
	gather   bool
}

// directives is the closed intent table. Intents absent from this map
// resolve to the fallback text with no control directive.
var directives = map[string]directive{
	IntentWelcome:     {gather: true},
	IntentOptions:     {gather: true},
	IntentProductInfo: {},
	IntentTraining:    {},
	IntentMarketplace: {},
	IntentGoodbye:     {terminal: true},
}

// Known reports whether name is a recognized intent.
func Known(name string) bool {
	_, ok := directives[name]
	return ok
}

// Resolve maps an interaction event to a localized reply with the control
// directives owned by the event's intent. The lookup is deterministic and
// side-effect free.
func Resolve(event events.InteractionEvent) Reply {
	d, ok := directives[event.IntentName]
	if !ok {
		return Reply{Text: locale.Resolve(locale.FallbackKey, event.Language)}
	}
	return Reply{
		Text:        locale.Resolve(event.IntentName, event.Language),
		Terminal:    d.terminal,
		GatherInput: d.gather,
	}
}

package intent

import (
	"testing"

	"github.com/sohamn21/nektech-connect/internal/events"
	"github.com/sohamn21/nektech-connect/internal/locale"
)

func TestResolveDirectives(t *testing.T) {
	tests := []struct {
		intent      string
		terminal    bool
		gatherInput bool
	}{
		{IntentWelcome, false, true},
		{IntentOptions, false, true},
		{IntentProductInfo, false, false},
		{IntentTraining, false, false},
		{IntentMarketplace, false, false},
		{IntentGoodbye, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.intent, func(t *testing.T) {
			reply := Resolve(events.InteractionEvent{IntentName: tt.intent, Language: locale.LangEnglish})
			if reply.Text == "" {
				t.Fatal("reply text is empty")
			}
			if reply.Terminal != tt.terminal {
				t.Errorf("Terminal = %v, want %v", reply.Terminal, tt.terminal)
			}
			if reply.GatherInput != tt.gatherInput {
				t.Errorf("GatherInput = %v, want %v", reply.GatherInput, tt.gatherInput)
			}
		})
	}
}

func TestResolveNeverSetsBothDirectives(t *testing.T) {
	for name := range directives {
		reply := Resolve(events.InteractionEvent{IntentName: name, Language: locale.LangEnglish})
		if reply.Terminal && reply.GatherInput {
			t.Errorf("intent %q resolved to both Terminal and GatherInput", name)
		}
	}
}

func TestResolveUnknownIntent(t *testing.T) {
	reply := Resolve(events.InteractionEvent{IntentName: "BookFlight", Language: locale.LangMarathi})
	if reply.Text != locale.Resolve(locale.FallbackKey, locale.LangMarathi) {
		t.Errorf("unknown intent text = %q, want localized fallback", reply.Text)
	}
	if reply.Terminal || reply.GatherInput {
		t.Error("unknown intent must carry no control directives")
	}
}

func TestResolveLocalizesText(t *testing.T) {
	en := Resolve(events.InteractionEvent{IntentName: IntentWelcome, Language: locale.LangEnglish})
	hi := Resolve(events.InteractionEvent{IntentName: IntentWelcome, Language: locale.LangHindi})
	if en.Text == hi.Text {
		t.Error("expected different text for en and hi")
	}
}

func TestKnown(t *testing.T) {
	if !Known(IntentTraining) {
		t.Error("Known(Training) = false")
	}
	if Known("Pizza") {
		t.Error("Known(Pizza) = true")
	}
}

package channel

import (
	"encoding/xml"

	"github.com/sohamn21/nektech-connect/internal/intent"
	"github.com/sohamn21/nektech-connect/internal/locale"
)

// TelephonyOptions carries the per-request knobs for TwiML rendering.
type TelephonyOptions struct {
	// ActionURL is where a Gather posts the collected digits. Required
	// when the reply requests further input.
	ActionURL string
	// Language is the platform language code (en/hi/mr) used to pick the
	// provider voice locale.
	Language string
}

// TwiML is the markup document returned to the voice provider. Field
// order matters: the provider executes verbs top to bottom.
type TwiML struct {
	XMLName xml.Name `xml:"Response"`
	Say     *Say     `xml:"Say,omitempty"`
	Gather  *Gather  `xml:"Gather,omitempty"`
	Hangup  *Hangup  `xml:"Hangup,omitempty"`
}

// Say speaks text to the caller.
type Say struct {
	Language string `xml:"language,attr,omitempty"`
	Text     string `xml:",chardata"`
}

// Gather collects keypad digits and posts them back to Action.
type Gather struct {
	Action    string `xml:"action,attr,omitempty"`
	Method    string `xml:"method,attr,omitempty"`
	NumDigits int    `xml:"numDigits,attr,omitempty"`
	Timeout   int    `xml:"timeout,attr,omitempty"`
}

// Hangup terminates the call.
type Hangup struct{}

// voiceLocales maps platform language codes to provider voice locales.
var voiceLocales = map[string]string{
	locale.LangEnglish: "en-IN",
	locale.LangHindi:   "hi-IN",
	locale.LangMarathi: "mr-IN",
}

// VoiceLocale returns the provider voice locale for a platform language,
// defaulting to Indian English.
func VoiceLocale(language string) string {
	if v, ok := voiceLocales[language]; ok {
		return v
	}
	return voiceLocales[locale.LangEnglish]
}

// RenderTelephony builds the TwiML document for a resolved reply. The
// document always speaks the reply text; exactly one of a gather
// directive, a hangup directive, or nothing follows, driven by the
// reply's control flags.
func RenderTelephony(reply intent.Reply, opts TelephonyOptions) ([]byte, error) {
	doc := TwiML{
		Say: &Say{
			Language: VoiceLocale(opts.Language),
			Text:     reply.Text,
		},
	}

	switch {
	case reply.GatherInput:
		doc.Gather = &Gather{
			Action:    opts.ActionURL,
			Method:    "POST",
			NumDigits: 1,
			Timeout:   5,
		}
	case reply.Terminal:
		doc.Hangup = &Hangup{}
	}

	body, err := xml.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

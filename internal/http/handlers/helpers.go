// Package handlers contains the HTTP handlers for the fulfillment
// gateway: the intent webhook, the telephony follow-up and callback
// endpoints, the dispatch triggers, and the admin read surface.
package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

// VoiceWebhookURL builds the public URL of the IVR digit endpoint. The
// webhook secret rides as access_token because the telephony provider
// cannot set an Authorization header on gather post-backs; without it
// every follow-up digit POST would be rejected by the bearer middleware.
func VoiceWebhookURL(publicBaseURL, webhookSecret string) string {
	u := strings.TrimRight(publicBaseURL, "/") + "/webhooks/voice"
	if webhookSecret != "" {
		u += "?access_token=" + url.QueryEscape(webhookSecret)
	}
	return u
}

// triggerResponse is the common shape of the scheduling/send trigger
// replies.
type triggerResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	CallID    string `json:"callId,omitempty"`
	MessageID string `json:"messageId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package channel

import (
	"encoding/json"

	"github.com/sohamn21/nektech-connect/internal/intent"
)

// FulfillmentResponse is the JSON payload returned to non-telephony
// callers. Chat is turn-based at the provider layer, so the payload
// carries no control directives.
type FulfillmentResponse struct {
	FulfillmentText string `json:"fulfillmentText"`
}

// RenderChat builds the chat payload for a resolved reply. Control flags
// are intentionally ignored: the messaging channel has no in-band gather
// or hangup concept.
func RenderChat(reply intent.Reply) []byte {
	body, _ := json.Marshal(FulfillmentResponse{FulfillmentText: reply.Text})
	return body
}

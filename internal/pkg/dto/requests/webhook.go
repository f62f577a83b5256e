package requests

// GatewayWebhookEvent is the gateway-specific webhook envelope. Only the
// event type and the payment id are trusted; everything else is re-fetched.
type GatewayWebhookEvent struct {
	ID     int64  `json:"id,omitempty"`
	Type   string `json:"type"`
	Action string `json:"action,omitempty"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

package requests

import (
	"time"

	"github.com/goccy/go-json"
)

const (
	RetryChannelEmail    = "email"
	RetryChannelWhatsApp = "whatsapp"
)

// RetryOperation is a unit of notification work handed to the retry queue
// after a synchronous delivery attempt failed. The id is stable per
// notification ("email-<id>" / "whatsapp-<id>") so redelivery stays keyed.
type RetryOperation struct {
	ID          string          `json:"id"`
	Channel     string          `json:"channel"`
	Payload     json.RawMessage `json:"payload"`
	Retries     int             `json:"retries"`
	NextRetryAt time.Time       `json:"next_retry_at"`
	LastError   string          `json:"last_error,omitempty"`
}

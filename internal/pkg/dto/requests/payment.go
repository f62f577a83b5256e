package requests

type CreateIntentRequest struct {
	Purpose    string  `json:"purpose" validate:"required,oneof=booking unlock subscription"`
	PayerID    string  `json:"payer_id" validate:"required"`
	PayerEmail string  `json:"payer_email" validate:"required,email"`
	BookingID  string  `json:"booking_id,omitempty"`
	PlanID     string  `json:"plan_id,omitempty"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	Title      string  `json:"title,omitempty" validate:"max=120"`
}

// CreatePreferenceRequest is the gateway-side payment preference payload.
type CreatePreferenceRequest struct {
	Items             []PreferenceItem  `json:"items"`
	Payer             PreferencePayer   `json:"payer"`
	ExternalReference string            `json:"external_reference"`
	NotificationURL   string            `json:"notification_url,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

type PreferenceItem struct {
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type PreferencePayer struct {
	Email string `json:"email"`
}

package responses

type CreateIntentResponse struct {
	PaymentID   string `json:"payment_id"`
	ExternalID  string `json:"external_id"`
	CheckoutURL string `json:"checkout_url"`
}

// PreferenceResponse is the gateway's answer to a preference creation.
type PreferenceResponse struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

// GatewayPayment is the authoritative payment object fetched from the
// gateway by id after a webhook arrives.
type GatewayPayment struct {
	ID                string            `json:"id"`
	Status            string            `json:"status"`
	StatusDetail      string            `json:"status_detail,omitempty"`
	TransactionAmount float64           `json:"transaction_amount"`
	ExternalReference string            `json:"external_reference"`
	Metadata          map[string]string `json:"metadata,omitempty"`
	PayerEmail        string            `json:"payer_email,omitempty"`
}

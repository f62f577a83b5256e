package constvars

// MPWebhookEventType is the event classifier carried by gateway webhooks.
const (
	MPWebhookTypePayment = "payment"
)

// MPPaymentStatus is a typed payment status returned by the gateway.
type MPPaymentStatus string

const (
	MPPaymentStatusApproved  MPPaymentStatus = "approved"
	MPPaymentStatusPending   MPPaymentStatus = "pending"
	MPPaymentStatusInProcess MPPaymentStatus = "in_process"
	MPPaymentStatusRejected  MPPaymentStatus = "rejected"
	MPPaymentStatusCancelled MPPaymentStatus = "cancelled"
	MPPaymentStatusRefunded  MPPaymentStatus = "refunded"
)

const (
	GatewayNameMercadoPago = "mercadopago"

	// ExternalReferenceSeparator joins purpose, local payment id and
	// correlation id inside the preference external reference so the webhook
	// can classify the event without a separate lookup.
	ExternalReferenceSeparator = ":"
)

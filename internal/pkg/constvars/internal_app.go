package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
)

const (
	ResourceBookings      = "bookings"
	ResourcePayments      = "payments"
	ResourceSubscriptions = "subscriptions"
	ResourceWebhooks      = "webhooks"
)

const (
	AppPaginationUrlFormat = "%s?page=%d&page_size=%d"
)

package constvars

const (
	LoggingRequestIDKey    = "request_id"
	LoggingRequestKey      = "request"
	LoggingEndpointKey     = "endpoint"
	LoggingMethodKey       = "method"
	LoggingRemoteAddrKey   = "remote_addr"
	LoggingUserAgentKey    = "user_agent"
	LoggingQueryKey        = "query"
	LoggingStatusCodeKey   = "status_code"
	LoggingDurationKey     = "duration"
	LoggingSuccessKey      = "success"
	LoggingOperationKey    = "operation"
	LoggingErrorTypeKey    = "error_type"
	LoggingErrorCodeKey    = "error_code"
	LoggingErrorMessageKey = "error_message"

	LoggingBookingIDKey        = "booking_id"
	LoggingProviderIDKey       = "provider_id"
	LoggingClientIDKey         = "client_id"
	LoggingPaymentIDKey        = "payment_id"
	LoggingGatewayPaymentIDKey = "gateway_payment_id"
	LoggingExternalReferenceKey = "external_reference"
	LoggingSubscriptionIDKey   = "subscription_id"
	LoggingBookingStatusKey    = "booking_status"
	LoggingPaymentStatusKey    = "payment_status"
	LoggingChannelKey          = "channel"
	LoggingOperationIDKey      = "operation_id"
	LoggingRetriesKey          = "retries"
	LoggingQueueNameKey        = "queue_name"
	LoggingRedisKey            = "redis_key"

	LoggingLockValueKey          = "lock_value"
	LoggingLockExpirationTimeKey = "lock_expiration_time"
	LoggingLockStoredValueKey    = "lock_stored_value"
	LoggingLockExpectedValueKey  = "lock_expected_value"
)

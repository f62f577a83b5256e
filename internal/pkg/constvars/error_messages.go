package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email",
	"min":      "must be at least %s characters long",
	"max":      "maximum at %s characters long",
	"numeric":  "must be a number",
	"len":      "must be %s characters long",
	"oneof":    "must be one of [%s]",
	"gt":       "must be greater than %s",
	"gte":      "must be greater than or equal to %s",
	"lt":       "must be less than %s",
	"lte":      "must be less than or equal to %s",
	"url":      "must be a valid URL",
	"uuid":     "must be a valid UUID",
	"datetime": "must match the %s format",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"min":      true,
	"max":      true,
	"len":      true,
	"gt":       true,
	"gte":      true,
	"lt":       true,
	"lte":      true,
	"oneof":    true,
	"datetime": true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientBookingNotFound               = "booking not found"
	ErrClientInvalidBookingStatus          = "the requested status is not valid"
	ErrClientInvalidTransition             = "this booking can no longer be moved to the requested status"
	ErrClientBookingAlreadyScheduled       = "this booking already has a scheduled date and time"
	ErrClientSlotUnavailable               = "the selected date and time is no longer available for this provider"
	ErrClientPaymentRequired               = "accepting this booking requires an active subscription or an unlock payment"
	ErrClientReviewNotAllowed              = "only completed bookings can be reviewed"
	ErrClientReviewAlreadySubmitted        = "this booking already has a review"
	ErrClientPaymentGatewayUnavailable     = "the payment provider is temporarily unavailable, please try again"
)

// Error messages for developers
const (
	ErrDevInvalidInput      = "invalid input"
	ErrDevValidationFailed  = "input validation failed"
	ErrDevCannotParseJSON   = "cannot parse JSON into struct or other data types"
	ErrDevCannotMarshalJSON = "cannot convert struct or other data types to JSON"
	ErrDevCannotParseDate   = "cannot parse the requested date"
	ErrDevServerProcess     = "server cannot process the request"

	ErrDevServerDeadlineExceeded = "server deadline exceeded when processing request"
	ErrDevMissingRequestID       = "request ID not found in request context"

	ErrDevBookingNotFound          = "booking document not found"
	ErrDevBookingStatusTerminal    = "booking is already in a terminal status"
	ErrDevBookingInvalidTransition = "requested status is not a permitted successor of the current status"
	ErrDevBookingAlreadyScheduled  = "booking already carries a scheduled date and time"
	ErrDevBookingSlotConflict      = "another active booking occupies the same provider, date and time"
	ErrDevBookingNotOwnedByActor   = "acting provider does not own this booking"
	ErrDevBookingReviewNotAllowed  = "provider review requires a completed booking"
	ErrDevBookingReviewDuplicate   = "booking already has a provider review"
	ErrDevPaymentUnlockRequired    = "no active subscription and no approved unlock payment for this booking"
	ErrDevPaymentPurposeUnknown    = "payment external reference carries an unknown purpose"

	ErrDevGatewayCreatePreference = "payment gateway preference creation failed"
	ErrDevGatewayFetchPayment     = "payment gateway payment fetch failed"

	ErrDevDBFailedToFindDocument    = "database cannot find document with given filter and arguments"
	ErrDevDBFailedToInsertDocument  = "database cannot insert the document"
	ErrDevDBFailedToUpdateDocument  = "database cannot update document with given filter and arguments"
	ErrDevDBFailedToIterateDocument = "database cannot iterate documents from cursor"
	ErrDevDBStringNotObjectID       = "given string cannot be converted to mongo ObjectID"

	ErrDevRedisGetData       = "redis cannot get data with given key"
	ErrDevRedisSetData       = "redis cannot set data with given key and value"
	ErrDevRedisDeleteData    = "redis cannot delete data with given key"
	ErrDevRedisReleaseLock   = "redis cannot release lock for given key"
	ErrDevRabbitMQPublish    = "rabbitmq cannot publish message to queue %s"
	ErrDevSMTPSendEmail      = "smtp server %s cannot send the email"
	ErrDevWhatsAppSend       = "whatsapp gateway cannot deliver the message"
	ErrDevCreateHTTPRequest  = "cannot build HTTP request to external collaborator"
	ErrDevSendHTTPRequest    = "cannot send HTTP request to external collaborator"
)

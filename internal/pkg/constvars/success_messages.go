package constvars

const (
	// Generic messages
	ResponseUnknown = "unknown"
	ResponseSuccess = "success"
	ResponseError   = "error"

	// Booking messages
	BookingAcceptedSuccess  = "booking accepted successfully"
	BookingRejectedSuccess  = "booking rejected successfully"
	BookingCompletedSuccess = "booking completed successfully"
	BookingCancelledSuccess = "booking cancelled successfully"
	BookingScheduledSuccess = "booking scheduled successfully"
	BookingReviewedSuccess  = "review submitted successfully"

	// Payment messages
	PaymentIntentCreatedSuccess   = "payment intent created successfully"
	PaymentWebhookProcessedCalled = "payment webhook processed"
)

package constvars

const (
	MongoCollectionBookings      = "bookings"
	MongoCollectionPayments      = "payments"
	MongoCollectionSubscriptions = "subscriptions"
)

const (
	// BookingScheduledTimeLayout is the exact wall-clock string stored on a
	// scheduled booking ("HH:MM"). Conflict checks compare it verbatim.
	BookingScheduledTimeLayout = "15:04"
	BookingScheduledDateLayout = "2006-01-02"
)

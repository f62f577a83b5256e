package requests

type EmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type WhatsAppMessage struct {
	PhoneNumber string `json:"phone_number"`
	Message     string `json:"message"`
}

// NotificationParty is the slice of a user the dispatcher needs to address a
// message. Account data itself is owned by an external collaborator.
type NotificationParty struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// BookingStatusNotification is the payload fanned out after every booking
// transition.
type BookingStatusNotification struct {
	BookingID   string            `json:"booking_id"`
	NewStatus   string            `json:"new_status"`
	Client      NotificationParty `json:"client"`
	Provider    NotificationParty `json:"provider"`
	ServiceName string            `json:"service_name"`
}

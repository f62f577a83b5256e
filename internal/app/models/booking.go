package models

import (
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingAccepted  BookingStatus = "ACCEPTED"
	BookingRejected  BookingStatus = "REJECTED"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingExpired   BookingStatus = "EXPIRED"
)

type BookingType string

const (
	BookingTypeQuote      BookingType = "QUOTE"
	BookingTypeScheduling BookingType = "SCHEDULING"
)

// bookingTransitions is the closed successor table. A status missing from the
// map is terminal.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:  {BookingAccepted, BookingRejected, BookingExpired},
	BookingAccepted: {BookingCompleted, BookingCancelled},
}

// ParseBookingStatus validates an externally supplied status value.
func ParseBookingStatus(raw string) (BookingStatus, bool) {
	switch BookingStatus(raw) {
	case BookingPending, BookingAccepted, BookingRejected,
		BookingCompleted, BookingCancelled, BookingExpired:
		return BookingStatus(raw), true
	}
	return "", false
}

func (s BookingStatus) IsTerminal() bool {
	_, ok := bookingTransitions[s]
	return !ok
}

// CanTransitionTo reports whether target is a permitted successor of s.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, next := range bookingTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsActive reports whether a booking in this status still occupies its slot.
func (s BookingStatus) IsActive() bool {
	switch s {
	case BookingPending, BookingAccepted, BookingCompleted:
		return true
	}
	return false
}

// ActiveBookingStatuses are the statuses that count for slot occupancy.
var ActiveBookingStatuses = []BookingStatus{BookingPending, BookingAccepted, BookingCompleted}

type ProviderReview struct {
	Rating    int       `bson:"rating" json:"rating"`
	Comment   string    `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
}

type Booking struct {
	ID             string          `bson:"_id,omitempty" json:"id"`
	ClientID       string          `bson:"clientId" json:"client_id"`
	ProviderID     string          `bson:"providerId" json:"provider_id"`
	ServiceID      string          `bson:"serviceId" json:"service_id"`
	RequestType    BookingType     `bson:"requestType" json:"request_type"`
	Status         BookingStatus   `bson:"status" json:"status"`
	Description    string          `bson:"description,omitempty" json:"description,omitempty"`
	ScheduledDate  *time.Time      `bson:"scheduledDate,omitempty" json:"scheduled_date,omitempty"`
	ScheduledTime  string          `bson:"scheduledTime,omitempty" json:"scheduled_time,omitempty"`
	EstimatedPrice *float64        `bson:"estimatedPrice,omitempty" json:"estimated_price,omitempty"`
	FinalPrice     *float64        `bson:"finalPrice,omitempty" json:"final_price,omitempty"`
	ExpiresAt      *time.Time      `bson:"expiresAt,omitempty" json:"expires_at,omitempty"`
	ProviderReview *ProviderReview `bson:"providerReview,omitempty" json:"provider_review,omitempty"`
	CreatedAt      time.Time       `bson:"createdAt" json:"created_at"`
	UpdatedAt      time.Time       `bson:"updatedAt" json:"updated_at"`
}

// StatusMessage is the human-readable message returned alongside a successful
// transition.
func (s BookingStatus) StatusMessage() string {
	switch s {
	case BookingAccepted:
		return "Booking accepted. The provider will get in touch to confirm details."
	case BookingRejected:
		return "Booking rejected."
	case BookingCompleted:
		return "Booking completed. The client can now leave a review."
	case BookingCancelled:
		return "Booking cancelled."
	case BookingExpired:
		return "Booking expired without a provider response."
	default:
		return "Booking updated."
	}
}

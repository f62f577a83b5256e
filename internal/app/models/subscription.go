package models

import (
	"time"
)

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "ACTIVE"
	SubscriptionExpired   SubscriptionStatus = "EXPIRED"
	SubscriptionCancelled SubscriptionStatus = "CANCELLED"
)

// Plan identifiers known to the marketplace. Only the professional monthly
// plan grants unlimited acceptance without per-booking unlock payments.
const (
	PlanProfessionalMonthly = "professional-monthly"
	PlanBasic               = "basic"
)

type Subscription struct {
	ID                string             `bson:"_id,omitempty" json:"id"`
	ServiceProviderID string             `bson:"serviceProviderId" json:"service_provider_id"`
	PlanID            string             `bson:"planId" json:"plan_id"`
	Status            SubscriptionStatus `bson:"status" json:"status"`
	StartDate         time.Time          `bson:"startDate" json:"start_date"`
	EndDate           *time.Time         `bson:"endDate,omitempty" json:"end_date,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updated_at"`
}

// GrantsUnlimitedAcceptance reports whether this subscription lets the
// provider accept bookings without an unlock payment at the given instant.
func (s *Subscription) GrantsUnlimitedAcceptance(now time.Time) bool {
	if s == nil || s.Status != SubscriptionActive {
		return false
	}
	if s.PlanID != PlanProfessionalMonthly {
		return false
	}
	return s.EndDate == nil || s.EndDate.After(now)
}

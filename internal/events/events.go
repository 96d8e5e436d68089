// Package events describes the booking lifecycle events sent to the broker
package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/HouseRent-BookingService/internal/domain"
)

// Routing keys on the bookings exchange
const (
	BookingCreated        = "booking.created"
	BookingStatusChanged  = "booking.status_changed"
	BookingCancelled      = "booking.cancelled"
	BookingRescheduled    = "booking.rescheduled"
	BookingMessageAdded   = "booking.message_added"
	BookingPaymentUpdated = "booking.payment_updated"
	BookingDeleted        = "booking.deleted"
)

// BookingEvent is the message body. It carries a snapshot of the booking
// without the message history.
type BookingEvent struct {
	Type          string          `json:"type"`
	BookingID     string          `json:"bookingId"`
	PropertyID    string          `json:"propertyId"`
	TenantID      string          `json:"tenantId"`
	OwnerID       string          `json:"ownerId"`
	ActorID       string          `json:"actorId,omitempty"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"paymentStatus"`
	StartDate     string          `json:"startDate"`
	EndDate       string          `json:"endDate"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	DepositAmount decimal.Decimal `json:"depositAmount"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

// NewBookingEvent builds the event body for b
func NewBookingEvent(eventType string, b *domain.Booking, actorID string, occurredAt time.Time) BookingEvent {
	return BookingEvent{
		Type:          eventType,
		BookingID:     b.ID.String(),
		PropertyID:    b.PropertyID,
		TenantID:      b.TenantID,
		OwnerID:       b.OwnerID,
		ActorID:       actorID,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		StartDate:     b.StartDate.Format(domain.DateFormat),
		EndDate:       b.EndDate.Format(domain.DateFormat),
		TotalAmount:   b.TotalAmount,
		DepositAmount: b.DepositAmount,
		OccurredAt:    occurredAt.UTC(),
	}
}

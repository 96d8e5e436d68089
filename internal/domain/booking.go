package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusApproved  BookingStatus = "approved"
	StatusRejected  BookingStatus = "rejected"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// PaymentStatus represents the payment state of a booking.
// It moves independently of BookingStatus.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPartial   PaymentStatus = "partial"
	PaymentCompleted PaymentStatus = "completed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// CancellationStatus represents the refund processing state of a cancellation
type CancellationStatus string

const (
	CancellationPending   CancellationStatus = "pending"
	CancellationProcessed CancellationStatus = "processed"
)

// Booking represents a tenant's request to occupy a property for a date range
type Booking struct {
	ID         uuid.UUID
	PropertyID string
	TenantID   string
	OwnerID    string // copied from the property at creation time

	StartDate time.Time
	EndDate   time.Time

	TotalAmount   decimal.Decimal
	DepositAmount decimal.Decimal

	Status        BookingStatus
	PaymentStatus PaymentStatus

	Messages     []Message
	Cancellation *Cancellation

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Message is a booking-scoped negotiation entry. Messages are append-only.
type Message struct {
	SenderID  string    `json:"senderId"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Cancellation is filled only when a cancellation has been requested
type Cancellation struct {
	Date         time.Time          `json:"date"`
	Reason       string             `json:"reason"`
	RequestedBy  string             `json:"requestedBy"`
	RefundAmount decimal.Decimal    `json:"refundAmount"`
	Status       CancellationStatus `json:"status"`
}

// BlocksAvailability returns true if the booking still occupies its dates.
// Rejected and cancelled bookings never count as a conflict.
func (b *Booking) BlocksAvailability() bool {
	return b.Status != StatusRejected && b.Status != StatusCancelled
}

// IsTerminal returns true if no further status transition is allowed
func (b *Booking) IsTerminal() bool {
	return b.Status.IsTerminal()
}

// ConflictsWith returns true if the booking blocks the candidate interval
func (b *Booking) ConflictsWith(start, end time.Time) bool {
	return b.BlocksAvailability() && Overlaps(b.StartDate, b.EndDate, start, end)
}

// IsTerminal returns true for rejected, cancelled and completed
func (s BookingStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled || s == StatusCompleted
}

// IsValid reports whether s is a known booking status
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// IsValid reports whether s is a known payment status
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPartial, PaymentCompleted, PaymentRefunded:
		return true
	}
	return false
}

// BookingsFilter selects bookings for listing and availability checks.
// Nil fields are not applied.
type BookingsFilter struct {
	PropertyID *string
	TenantID   *string
	OwnerID    *string

	// From/To select bookings whose interval touches [From, To]
	// under the inclusive overlap rule.
	From *time.Time
	To   *time.Time

	// EndBefore selects bookings whose end date is strictly before the value
	EndBefore *time.Time

	Status          *BookingStatus
	IncludeInactive bool       // include rejected and cancelled bookings
	ExcludeID       *uuid.UUID // skip this booking (re-validation of its own dates)

	// ForUpdate locks the selected rows when running inside a transaction
	ForUpdate bool

	Limit  uint64 // 0 = no limit
	Offset uint64
}

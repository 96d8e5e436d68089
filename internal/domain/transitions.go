package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// allowedTransitions lists every status change the lifecycle permits.
// Terminal statuses have no entry.
var allowedTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:  {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved: {StatusCancelled, StatusCompleted},
}

// CanTransition reports whether a booking may move from one status to another
func CanTransition(from, to BookingStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionTo moves the booking to the given status
func (b *Booking) TransitionTo(to BookingStatus, now time.Time) error {
	if !CanTransition(b.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, to)
	}
	b.Status = to
	b.UpdatedAt = now
	return nil
}

// RefundDue returns how much of the booking has been paid and must be
// returned if it is cancelled now.
func (b *Booking) RefundDue() decimal.Decimal {
	switch b.PaymentStatus {
	case PaymentCompleted:
		return b.TotalAmount
	case PaymentPartial:
		return b.DepositAmount
	default:
		return decimal.Zero
	}
}

// Cancel transitions the booking to cancelled and records the request
func (b *Booking) Cancel(requestedBy, reason string, now time.Time) error {
	if err := b.TransitionTo(StatusCancelled, now); err != nil {
		return err
	}

	refund := b.RefundDue()
	status := CancellationProcessed
	if refund.IsPositive() {
		status = CancellationPending
	}

	b.Cancellation = &Cancellation{
		Date:         now,
		Reason:       reason,
		RequestedBy:  requestedBy,
		RefundAmount: refund,
		Status:       status,
	}
	return nil
}

// SetPaymentStatus changes the payment axis of the booking.
// Refunds are only recorded on cancelled bookings.
func (b *Booking) SetPaymentStatus(status PaymentStatus, now time.Time) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: unknown payment status %q", ErrValidation, status)
	}
	if status == PaymentRefunded && b.Status != StatusCancelled {
		return fmt.Errorf("%w: refund is only possible for a cancelled booking", ErrValidation)
	}

	b.PaymentStatus = status
	b.UpdatedAt = now
	if status == PaymentRefunded && b.Cancellation != nil {
		b.Cancellation.Status = CancellationProcessed
	}
	return nil
}

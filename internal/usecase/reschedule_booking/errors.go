package reschedule_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/HouseRent-BookingService/internal/domain"
)

var (
	// ErrBookingNotFound is returned when the booking does not exist
	ErrBookingNotFound = fmt.Errorf("%w: reschedule_booking: booking not found", domain.ErrNotFound)

	// ErrPropertyNotFound is returned when the booked property no longer exists
	ErrPropertyNotFound = fmt.Errorf("%w: reschedule_booking: property not found", domain.ErrNotFound)

	// ErrAccessDenied is returned when the caller may not change the dates
	ErrAccessDenied = fmt.Errorf("%w: reschedule_booking: access denied", domain.ErrForbidden)

	// ErrNotPending is returned when the booking has already been decided
	ErrNotPending = fmt.Errorf("%w: reschedule_booking: only pending bookings can be rescheduled", domain.ErrValidation)

	// ErrStartInPast is returned when the new stay would begin before today
	ErrStartInPast = fmt.Errorf("%w: reschedule_booking: start date is in the past", domain.ErrValidation)

	// ErrStayTooLong is returned when the new stay exceeds the maximum duration
	ErrStayTooLong = fmt.Errorf("%w: reschedule_booking: stay is too long", domain.ErrValidation)

	// ErrInternal is returned for infrastructure failures
	ErrInternal = errors.New("reschedule_booking: internal error")
)

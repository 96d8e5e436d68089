package bookings

import (
	"errors"
	"fmt"

	"github.com/m04kA/HouseRent-BookingService/internal/domain"
)

var (
	// ErrBookingNotFound is returned when the booking does not exist
	ErrBookingNotFound = fmt.Errorf("%w: service: booking not found", domain.ErrNotFound)

	// ErrAccessDenied is returned when the caller lacks the capability for the action
	ErrAccessDenied = fmt.Errorf("%w: service: access denied", domain.ErrForbidden)

	// ErrInvalidInput is returned for malformed requests
	ErrInvalidInput = fmt.Errorf("%w: service: invalid input data", domain.ErrValidation)

	// ErrInvalidStatus is returned for an unknown booking or payment status value
	ErrInvalidStatus = fmt.Errorf("%w: service: invalid status", domain.ErrValidation)

	// ErrEmptyMessage is returned when a message has no text
	ErrEmptyMessage = fmt.Errorf("%w: service: message text is empty", domain.ErrValidation)

	// ErrReasonTooLong is returned when a cancellation reason exceeds the limit
	ErrReasonTooLong = fmt.Errorf("%w: service: cancellation reason is too long", domain.ErrValidation)

	// ErrInternal is returned for infrastructure failures
	ErrInternal = errors.New("service: internal error")
)

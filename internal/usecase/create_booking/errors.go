package create_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/HouseRent-BookingService/internal/domain"
)

var (
	// ErrPropertyNotFound is returned when the property does not exist
	ErrPropertyNotFound = fmt.Errorf("%w: create_booking: property not found", domain.ErrNotFound)

	// ErrInvalidInput is returned for malformed requests
	ErrInvalidInput = fmt.Errorf("%w: create_booking: invalid input data", domain.ErrValidation)

	// ErrStartInPast is returned when the stay would begin before today
	ErrStartInPast = fmt.Errorf("%w: create_booking: start date is in the past", domain.ErrValidation)

	// ErrStayTooLong is returned when the stay exceeds the maximum duration
	ErrStayTooLong = fmt.Errorf("%w: create_booking: stay is too long", domain.ErrValidation)

	// ErrOwnProperty is returned when the owner tries to book their own property
	ErrOwnProperty = fmt.Errorf("%w: create_booking: owner cannot book their own property", domain.ErrValidation)

	// ErrAccessDenied is returned when the caller books on behalf of someone else
	ErrAccessDenied = fmt.Errorf("%w: create_booking: cannot book on behalf of another user", domain.ErrForbidden)

	// ErrInternal is returned for infrastructure failures
	ErrInternal = errors.New("create_booking: internal error")
)

package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every layer wraps one of these.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("access denied")
)

var (
	// ErrInvalidTransition is returned for a status change the lifecycle forbids
	ErrInvalidTransition = fmt.Errorf("%w: status transition is not allowed", ErrValidation)

	// ErrInvalidDateRange is returned when startDate >= endDate
	ErrInvalidDateRange = fmt.Errorf("%w: start date must be before end date", ErrValidation)

	// ErrNegativeAmount is returned for a negative monetary value
	ErrNegativeAmount = fmt.Errorf("%w: amount must not be negative", ErrValidation)

	// ErrDatesUnavailable is returned when the interval conflicts with an active booking
	ErrDatesUnavailable = fmt.Errorf("%w: property is already booked for these dates", ErrValidation)
)

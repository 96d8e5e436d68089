package complete_stays

import "errors"

var (
	// ErrInternal is returned when the approved bookings could not be listed
	ErrInternal = errors.New("complete_stays: internal error")
)

package booking

import "errors"

var (
	// ErrBookingNotFound is returned when no booking matches the ID
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrStatusChanged is returned by a conditional status update when the
	// stored status no longer matches the expected one
	ErrStatusChanged = errors.New("booking.repository: booking status changed concurrently")

	// ErrBuildQuery is returned when the SQL query could not be built
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery is returned when the SQL query failed
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow is returned when a result row could not be read
	ErrScanRow = errors.New("booking.repository: failed to scan row")

	// ErrEncode is returned when an embedded document could not be encoded or decoded
	ErrEncode = errors.New("booking.repository: failed to encode embedded document")
)

package propertyservice

import "errors"

var (
	// ErrPropertyNotFound is returned when the property does not exist
	ErrPropertyNotFound = errors.New("propertyservice client: property not found")

	// ErrInternal is returned for client-side failures
	ErrInternal = errors.New("propertyservice client: internal error")

	// ErrUnavailable is returned when the service cannot be reached or fails
	ErrUnavailable = errors.New("propertyservice client: service unavailable")

	// ErrInvalidResponse is returned when the response cannot be used
	ErrInvalidResponse = errors.New("propertyservice client: invalid response")
)

package check_availability

import (
	"errors"
	"fmt"

	"github.com/m04kA/HouseRent-BookingService/internal/domain"
)

var (
	// ErrInvalidInput is returned for malformed requests
	ErrInvalidInput = fmt.Errorf("%w: check_availability: invalid input data", domain.ErrValidation)

	// ErrInternal is returned for infrastructure failures
	ErrInternal = errors.New("check_availability: internal error")
)

package check_availability

import (
	"context"

	"github.com/m04kA/HouseRent-BookingService/internal/domain"
)

type BookingRepository interface {
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

type Metrics interface {
	IncAvailabilityCheck(available bool)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package delete_booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/HouseRent-BookingService/internal/domain"
)

type BookingService interface {
	Delete(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

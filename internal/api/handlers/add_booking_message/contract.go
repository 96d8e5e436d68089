package add_booking_message

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/HouseRent-BookingService/internal/domain"
	"github.com/m04kA/HouseRent-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	AddMessage(ctx context.Context, id uuid.UUID, req *models.AddMessageRequest) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

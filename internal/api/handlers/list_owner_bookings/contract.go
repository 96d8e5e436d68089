package list_owner_bookings

import (
	"context"

	"github.com/m04kA/HouseRent-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	ListOwnerBookings(ctx context.Context, req *models.ListOwnerBookingsRequest) (*models.Page, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

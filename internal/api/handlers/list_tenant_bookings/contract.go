package list_tenant_bookings

import (
	"context"

	"github.com/m04kA/HouseRent-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	ListTenantBookings(ctx context.Context, req *models.ListTenantBookingsRequest) (*models.Page, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

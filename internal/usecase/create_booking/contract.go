package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/HouseRent-BookingService/internal/domain"
	"github.com/m04kA/HouseRent-BookingService/internal/integrations/propertyservice"
)

// BookingRepository is the booking storage used by the use case
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// PropertyClient looks up the booked property
type PropertyClient interface {
	GetProperty(ctx context.Context, propertyID string) (*propertyservice.Property, error)
}

// TransactionManager runs the conflict check and the insert atomically
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

type Notifier interface {
	Notify(ctx context.Context, eventType string, b *domain.Booking, actorID string)
}

type Metrics interface {
	IncBookingCreated()
}

// TimeProvider returns the current time (replaced in tests)
type TimeProvider interface {
	Now() time.Time
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider returns the wall clock in UTC
type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}

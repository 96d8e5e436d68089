package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/HouseRent-BookingService/internal/domain"
)

// BookingRepository is the booking storage used by single-booking operations
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	Count(ctx context.Context, filter domain.BookingsFilter) (int, error)
	Update(ctx context.Context, booking *domain.Booking) error
	AppendMessage(ctx context.Context, id uuid.UUID, msg domain.Message) (*domain.Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TransactionManager runs fn inside one transaction carried by ctx
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

type Notifier interface {
	Notify(ctx context.Context, eventType string, b *domain.Booking, actorID string)
}

type Metrics interface {
	IncStatusTransition(from, to string)
}

type TimeProvider interface {
	Now() time.Time
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}

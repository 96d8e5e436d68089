package complete_stays

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/HouseRent-BookingService/internal/domain"
)

type BookingRepository interface {
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, expected, status domain.BookingStatus, now time.Time) error
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

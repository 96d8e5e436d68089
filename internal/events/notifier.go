package events

import (
	"context"
	"time"

	"github.com/m04kA/HouseRent-BookingService/internal/domain"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type Metrics interface {
	IncEventPublished(routingKey string, err error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

const publishTimeout = 3 * time.Second

// Notifier publishes booking events. Publishing is best-effort: a broker
// failure is logged and never fails the booking operation.
// A nil Notifier or one without a publisher does nothing.
type Notifier struct {
	publisher Publisher
	metrics   Metrics
	logger    Logger
}

// NewNotifier creates a notifier. publisher may be nil when the broker is disabled.
func NewNotifier(publisher Publisher, metrics Metrics, logger Logger) *Notifier {
	return &Notifier{
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Notify publishes an event of the given type for b
func (n *Notifier) Notify(ctx context.Context, eventType string, b *domain.Booking, actorID string) {
	if n == nil || n.publisher == nil || b == nil {
		return
	}

	// the request context may already be cancelled once the response is written
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err := n.publisher.Publish(pubCtx, eventType, NewBookingEvent(eventType, b, actorID, time.Now()))
	if n.metrics != nil {
		n.metrics.IncEventPublished(eventType, err)
	}
	if err != nil {
		n.logger.Warn("Notify: failed to publish %s for booking id=%s: %v", eventType, b.ID, err)
		return
	}

	n.logger.Info("Notify: published %s for booking id=%s", eventType, b.ID)
}

package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HouseRent-BookingService/internal/domain"
)

type recordingPublisher struct {
	keys     []string
	payloads []any
	err      error
}

func (p *recordingPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	p.keys = append(p.keys, routingKey)
	p.payloads = append(p.payloads, payload)
	return p.err
}

type countingMetrics struct {
	ok, failed int
}

func (m *countingMetrics) IncEventPublished(routingKey string, err error) {
	if err != nil {
		m.failed++
		return
	}
	m.ok++
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID:            uuid.New(),
		PropertyID:    "prop-1",
		TenantID:      "tenant-1",
		OwnerID:       "owner-1",
		StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		TotalAmount:   decimal.NewFromInt(30000),
		DepositAmount: decimal.NewFromInt(10000),
		Status:        domain.StatusApproved,
		PaymentStatus: domain.PaymentPartial,
	}
}

func TestNotifier_Publishes(t *testing.T) {
	pub := &recordingPublisher{}
	m := &countingMetrics{}
	n := NewNotifier(pub, m, nopLogger{})
	b := testBooking()

	n.Notify(context.Background(), BookingStatusChanged, b, "owner-1")

	require.Len(t, pub.payloads, 1)
	assert.Equal(t, BookingStatusChanged, pub.keys[0])

	event, ok := pub.payloads[0].(BookingEvent)
	require.True(t, ok)
	assert.Equal(t, b.ID.String(), event.BookingID)
	assert.Equal(t, "approved", event.Status)
	assert.Equal(t, "2024-03-31", event.EndDate)
	assert.Equal(t, "owner-1", event.ActorID)
	assert.Equal(t, 1, m.ok)
}

func TestNotifier_FailureIsSwallowed(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("channel closed")}
	m := &countingMetrics{}
	n := NewNotifier(pub, m, nopLogger{})

	assert.NotPanics(t, func() {
		n.Notify(context.Background(), BookingCreated, testBooking(), "tenant-1")
	})
	assert.Equal(t, 1, m.failed)
}

func TestNotifier_NilIsNoop(t *testing.T) {
	var n *Notifier
	assert.NotPanics(t, func() {
		n.Notify(context.Background(), BookingDeleted, testBooking(), "")
	})

	disabled := NewNotifier(nil, nil, nopLogger{})
	assert.NotPanics(t, func() {
		disabled.Notify(context.Background(), BookingDeleted, testBooking(), "")
	})
}

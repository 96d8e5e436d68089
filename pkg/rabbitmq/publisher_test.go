package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	declared   string
	declareErr error
	publishErr error
	published  []amqp.Publishing
	keys       []string
	closed     bool
}

func (c *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	c.declared = name
	return c.declareErr
}

func (c *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.keys = append(c.keys, exchange+"/"+key)
	c.published = append(c.published, msg)
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewPublisherWithChannel(ch, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultExchange, ch.declared)

	err = p.Publish(context.Background(), "booking.created", map[string]string{"bookingId": "b-1"})
	require.NoError(t, err)

	require.Len(t, ch.published, 1)
	assert.Equal(t, "bookings/booking.created", ch.keys[0])
	assert.Equal(t, "application/json", ch.published[0].ContentType)

	var body map[string]string
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &body))
	assert.Equal(t, "b-1", body["bookingId"])

	p.Close()
	assert.True(t, ch.closed)
}

func TestPublisher_DeclareFailureClosesChannel(t *testing.T) {
	ch := &fakeChannel{declareErr: errors.New("access refused")}
	_, err := NewPublisherWithChannel(ch, "bookings")
	assert.Error(t, err)
	assert.True(t, ch.closed)
}

func TestPublisher_PublishError(t *testing.T) {
	ch := &fakeChannel{publishErr: amqp.ErrClosed}
	p, err := NewPublisherWithChannel(ch, "bookings")
	require.NoError(t, err)

	err = p.Publish(context.Background(), "booking.deleted", struct{}{})
	assert.ErrorIs(t, err, amqp.ErrClosed)
}

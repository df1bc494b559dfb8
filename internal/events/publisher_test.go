package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/foodkart-next/internal/config"
	"github.com/foodkart-next/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("write without deadline")
	}
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestNewPublisherDisabled(t *testing.T) {
	assert.False(t, NewPublisher(nil).Enabled())
	assert.False(t, NewPublisher(&config.EventsConfig{Enabled: true}).Enabled())
	assert.False(t, NewPublisher(&config.EventsConfig{Enabled: true, Brokers: []string{" "}}).Enabled())
	assert.NoError(t, NoopPublisher{}.PublishOrderPlaced(context.Background(), OrderPlacedEvent{}))

	p := NewPublisher(&config.EventsConfig{Enabled: true, Brokers: []string{"localhost:9092"}, Topic: "foodkart.orders"})
	require.True(t, p.Enabled())
	require.NoError(t, p.Close())
}

func TestPublishOrderPlacedKeysByOrderNo(t *testing.T) {
	writer := &recordingWriter{}
	p := &KafkaPublisher{writer: writer, timeout: time.Second}

	order := &models.Order{
		OrderNo:     "555123",
		IdentityKey: "user:4",
		UserID:      4,
		Total:       models.NewMoneyFromDecimal(decimal.RequireFromString("13.99")),
		Items:       []models.OrderItem{{Quantity: 2}, {Quantity: 1}},
	}
	require.NoError(t, p.PublishOrderPlaced(context.Background(), NewOrderPlacedEvent(order)))
	require.Len(t, writer.messages, 1)
	assert.Equal(t, "555123", string(writer.messages[0].Key))

	var decoded OrderPlacedEvent
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &decoded))
	assert.Equal(t, "OrderPlaced", decoded.Type)
	assert.Equal(t, 3, decoded.ItemCount)
	assert.Equal(t, "13.99", decoded.Total)

	writer.err = errors.New("broker down")
	assert.Error(t, p.PublishOrderPlaced(context.Background(), NewOrderPlacedEvent(order)))

	require.NoError(t, p.Close())
	assert.True(t, writer.closed)
}

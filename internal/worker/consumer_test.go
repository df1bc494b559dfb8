package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/foodkart-next/internal/config"
	"github.com/foodkart-next/internal/events"
	"github.com/foodkart-next/internal/models"
	"github.com/foodkart-next/internal/queue"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOrders struct {
	orders map[string]*models.Order
	err    error
}

func (s stubOrders) GetByOrderNo(_ context.Context, orderNo string) (*models.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.orders[orderNo], nil
}

type capturePublisher struct {
	enabled bool
	err     error
	events  []events.OrderPlacedEvent
	closed  bool
}

func (p *capturePublisher) Enabled() bool { return p.enabled }

func (p *capturePublisher) PublishOrderPlaced(_ context.Context, event events.OrderPlacedEvent) error {
	p.events = append(p.events, event)
	return p.err
}

func (p *capturePublisher) Close() error {
	p.closed = true
	return nil
}

func orderPlacedTask(t *testing.T, orderNo string) *asynq.Task {
	t.Helper()
	task, err := queue.NewOrderPlacedTask(queue.OrderPlacedPayload{OrderID: 1, OrderNo: orderNo})
	require.NoError(t, err)
	return task
}

func sampleOrder() *models.Order {
	return &models.Order{
		OrderNo:     "482913",
		IdentityKey: "user:7",
		UserID:      7,
		Total:       models.NewMoneyFromDecimal(decimal.RequireFromString("14.99")),
		Items: []models.OrderItem{
			{Quantity: 2},
			{Quantity: 1},
		},
	}
}

func TestHandleOrderPlacedPublishesEvent(t *testing.T) {
	publisher := &capturePublisher{enabled: true}
	consumer := NewConsumer(stubOrders{orders: map[string]*models.Order{"482913": sampleOrder()}}, publisher)

	require.NoError(t, consumer.handleOrderPlaced(context.Background(), orderPlacedTask(t, "482913")))
	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	assert.Equal(t, "482913", event.OrderNo)
	assert.Equal(t, "user:7", event.IdentityKey)
	assert.Equal(t, 3, event.ItemCount)
	assert.Equal(t, "14.99", event.Total)

	require.NoError(t, consumer.Close())
	assert.True(t, publisher.closed)
}

func TestHandleOrderPlacedSkipsMissingOrder(t *testing.T) {
	publisher := &capturePublisher{enabled: true}
	consumer := NewConsumer(stubOrders{}, publisher)
	require.NoError(t, consumer.handleOrderPlaced(context.Background(), orderPlacedTask(t, "000001")))
	assert.Empty(t, publisher.events)
}

func TestHandleOrderPlacedRetriesOnFailures(t *testing.T) {
	lookupErr := errors.New("db down")
	consumer := NewConsumer(stubOrders{err: lookupErr}, &capturePublisher{enabled: true})
	assert.ErrorIs(t, consumer.handleOrderPlaced(context.Background(), orderPlacedTask(t, "482913")), lookupErr)

	publishErr := errors.New("broker down")
	publisher := &capturePublisher{enabled: true, err: publishErr}
	consumer = NewConsumer(stubOrders{orders: map[string]*models.Order{"482913": sampleOrder()}}, publisher)
	assert.ErrorIs(t, consumer.handleOrderPlaced(context.Background(), orderPlacedTask(t, "482913")), publishErr)
}

func TestHandleOrderPlacedInvalidPayloadSkipsRetry(t *testing.T) {
	consumer := NewConsumer(stubOrders{}, nil)
	err := consumer.handleOrderPlaced(context.Background(), asynq.NewTask(queue.TaskOrderPlaced, []byte(`{"order_id":1}`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleOrderPlacedEventsDisabled(t *testing.T) {
	publisher := &capturePublisher{enabled: false}
	consumer := NewConsumer(stubOrders{orders: map[string]*models.Order{"482913": sampleOrder()}}, publisher)
	require.NoError(t, consumer.handleOrderPlaced(context.Background(), orderPlacedTask(t, "482913")))
	assert.Empty(t, publisher.events)
}

func TestNewServiceRequiresEnabledQueue(t *testing.T) {
	_, err := NewService(&config.QueueConfig{}, NewConsumer(stubOrders{}, nil))
	assert.Error(t, err)
	_, err = NewService(&config.QueueConfig{Enabled: true}, nil)
	assert.Error(t, err)
}

package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/foodkart-next/internal/events"
	"github.com/foodkart-next/internal/logger"
	"github.com/foodkart-next/internal/models"
	"github.com/foodkart-next/internal/queue"

	"github.com/hibiken/asynq"
)

// OrderLookup 按订单号读取订单
type OrderLookup interface {
	GetByOrderNo(ctx context.Context, orderNo string) (*models.Order, error)
}

// Consumer 异步任务消费者
type Consumer struct {
	orders    OrderLookup
	publisher events.Publisher
}

// NewConsumer 创建消费者；publisher 为空时使用 NoopPublisher
func NewConsumer(orders OrderLookup, publisher events.Publisher) *Consumer {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &Consumer{orders: orders, publisher: publisher}
}

// Register 注册任务处理函数
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderPlaced, c.handleOrderPlaced)
}

// handleOrderPlaced 订单写入后投递 OrderPlaced 事件；订单不存在或载荷非法时不重试
func (c *Consumer) handleOrderPlaced(ctx context.Context, task *asynq.Task) error {
	payload, err := queue.ParseOrderPlacedPayload(task)
	if err != nil {
		logger.Warnw("worker_order_placed_payload_invalid", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if c.orders == nil {
		return errors.New("order lookup not configured")
	}
	order, err := c.orders.GetByOrderNo(ctx, payload.OrderNo)
	if err != nil {
		logger.Warnw("worker_order_placed_fetch_failed", "order_no", payload.OrderNo, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_placed_skip_not_found", "order_no", payload.OrderNo)
		return nil
	}
	if !c.publisher.Enabled() {
		logger.Debugw("worker_order_placed_skip_events_disabled", "order_no", order.OrderNo)
		return nil
	}
	if err := c.publisher.PublishOrderPlaced(ctx, events.NewOrderPlacedEvent(order)); err != nil {
		logger.Warnw("worker_order_placed_publish_failed", "order_no", order.OrderNo, "error", err)
		return err
	}
	logger.Infow("worker_order_placed_published", "order_no", order.OrderNo, "identity_key", order.IdentityKey)
	return nil
}

// Close 释放事件发布器
func (c *Consumer) Close() error {
	if c == nil || c.publisher == nil {
		return nil
	}
	return c.publisher.Close()
}

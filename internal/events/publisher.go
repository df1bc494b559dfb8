// Package events 负责向 Kafka 投递订单领域事件
package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/foodkart-next/internal/config"
	"github.com/foodkart-next/internal/constants"
	"github.com/foodkart-next/internal/models"

	"github.com/segmentio/kafka-go"
)

const defaultWriteTimeout = 5 * time.Second

// OrderPlacedEvent 下单事件
type OrderPlacedEvent struct {
	Type        string    `json:"type"`
	OrderNo     string    `json:"order_no"`
	IdentityKey string    `json:"identity_key"`
	UserID      uint      `json:"user_id"`
	ItemCount   int       `json:"item_count"`
	Total       string    `json:"total"`
	PromoCode   string    `json:"promo_code,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewOrderPlacedEvent 从订单构建事件
func NewOrderPlacedEvent(order *models.Order) OrderPlacedEvent {
	count := 0
	for _, item := range order.Items {
		count += item.Quantity
	}
	return OrderPlacedEvent{
		Type:        constants.EventOrderPlaced,
		OrderNo:     order.OrderNo,
		IdentityKey: order.IdentityKey,
		UserID:      order.UserID,
		ItemCount:   count,
		Total:       order.Total.String(),
		PromoCode:   order.PromoCode,
		CreatedAt:   order.CreatedAt,
	}
}

// Publisher 事件发布接口
type Publisher interface {
	Enabled() bool
	PublishOrderPlaced(ctx context.Context, event OrderPlacedEvent) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher kafka-go 实现
type KafkaPublisher struct {
	writer  messageWriter
	timeout time.Duration
}

// NewPublisher 按配置创建发布器，未启用时返回 NoopPublisher
func NewPublisher(cfg *config.EventsConfig) Publisher {
	if cfg == nil || !cfg.Enabled || len(cfg.Brokers) == 0 {
		return NoopPublisher{}
	}
	brokers := make([]string, 0, len(cfg.Brokers))
	for _, broker := range cfg.Brokers {
		if b := strings.TrimSpace(broker); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return NoopPublisher{}
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	timeout := defaultWriteTimeout
	if cfg.WriteTimeoutMS > 0 {
		timeout = time.Duration(cfg.WriteTimeoutMS) * time.Millisecond
	}
	return &KafkaPublisher{writer: writer, timeout: timeout}
}

// Enabled 是否启用
func (p *KafkaPublisher) Enabled() bool {
	return p != nil && p.writer != nil
}

// PublishOrderPlaced 以订单号为 key 写入事件
func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, event OrderPlacedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(event.OrderNo),
		Value: payload,
	})
}

// Close 关闭 writer
func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// NoopPublisher 未启用事件时使用
type NoopPublisher struct{}

// Enabled 恒为 false
func (NoopPublisher) Enabled() bool { return false }

// PublishOrderPlaced 直接返回
func (NoopPublisher) PublishOrderPlaced(context.Context, OrderPlacedEvent) error { return nil }

// Close 直接返回
func (NoopPublisher) Close() error { return nil }

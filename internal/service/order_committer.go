package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/foodkart-next/internal/constants"
	"github.com/foodkart-next/internal/logger"
	"github.com/foodkart-next/internal/models"
	"github.com/foodkart-next/internal/queue"
	"github.com/foodkart-next/internal/repository"

	"github.com/shopspring/decimal"
)

// OrderPlacedNotifier 下单完成后的异步通知
type OrderPlacedNotifier interface {
	EnqueueOrderPlaced(payload queue.OrderPlacedPayload) error
}

// CommitInput 提交订单参数
type CommitInput struct {
	Identity Identity
	Rule     *DiscountRule
	Totals   PricedTotals
	UserName string
	ClientIP string
}

// CommitResult 提交结果；CartCleared=false 表示订单已创建但购物车清空未确认落盘
type CommitResult struct {
	Order       *models.Order `json:"order"`
	CartCleared bool          `json:"cart_cleared"`
}

// OrderCommitter 将购物车快照写为订单并清空购物车
type OrderCommitter struct {
	orders       repository.OrderRepository
	pricing      *PricingEngine
	notifier     OrderPlacedNotifier
	flushTimeout time.Duration
	nextNumber   func() (int64, error)
}

// NewOrderCommitter 创建订单提交器
func NewOrderCommitter(orders repository.OrderRepository, pricing *PricingEngine, notifier OrderPlacedNotifier, flushTimeout time.Duration) *OrderCommitter {
	if flushTimeout <= 0 {
		flushTimeout = defaultFlushTimeout
	}
	return &OrderCommitter{
		orders:       orders,
		pricing:      pricing,
		notifier:     notifier,
		flushTimeout: flushTimeout,
		nextNumber:   randomOrderNumber,
	}
}

// Commit 提交订单
// 订单写入失败时购物车保持不变；写入成功后清空购物车并等待落盘
func (c *OrderCommitter) Commit(ctx context.Context, store *CartStore, input CommitInput) (*CommitResult, error) {
	var result *CommitResult
	err := store.CommitWith(ctx, func(tx *CartTx) error {
		lines := tx.Lines()
		if len(lines) == 0 {
			return ErrCartEmpty
		}
		quote := c.pricing.Quote(lines, input.Rule)
		if !quote.GrandTotal.Decimal.Equal(input.Totals.GrandTotal.Decimal) {
			return ErrCheckoutTotalsStale
		}

		orderNo, err := c.allocateOrderNo(ctx)
		if err != nil {
			return err
		}
		order := buildOrder(orderNo, store.Identity(), input, lines, quote)
		if err := c.orders.Create(ctx, order); err != nil {
			logger.Errorw("order_create_failed", "identity_key", store.Identity().Key(), "order_no", orderNo, "error", err)
			return fmt.Errorf("%w: %v", ErrOrderPersistFailed, err)
		}

		cleared := true
		if err := tx.Clear(); err != nil {
			cleared = false
			logger.Warnw("order_cart_clear_failed", "order_no", orderNo, "error", err)
		} else {
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.flushTimeout)
			err := tx.Flush(flushCtx)
			cancel()
			if err != nil {
				cleared = false
				logger.Warnw("order_cart_clear_failed", "order_no", orderNo, "error", err)
			}
		}
		result = &CommitResult{Order: order, CartCleared: cleared}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_placed",
		"order_no", result.Order.OrderNo,
		"identity_key", result.Order.IdentityKey,
		"total", result.Order.Total.String(),
		"cart_cleared", result.CartCleared,
	)
	if c.notifier != nil {
		payload := queue.OrderPlacedPayload{OrderID: result.Order.ID, OrderNo: result.Order.OrderNo}
		if err := c.notifier.EnqueueOrderPlaced(payload); err != nil {
			logger.Warnw("order_placed_enqueue_failed", "order_no", result.Order.OrderNo, "error", err)
		}
	}
	return result, nil
}

func (c *OrderCommitter) allocateOrderNo(ctx context.Context) (string, error) {
	for attempt := 0; attempt < constants.OrderNoMaxAttempts; attempt++ {
		n, err := c.nextNumber()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrOrderPersistFailed, err)
		}
		orderNo := fmt.Sprintf("%06d", n)
		exists, err := c.orders.ExistsOrderNo(ctx, orderNo)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrOrderPersistFailed, err)
		}
		if !exists {
			return orderNo, nil
		}
	}
	return "", ErrOrderNoExhausted
}

func randomOrderNumber() (int64, error) {
	span := big.NewInt(constants.OrderNoMax - constants.OrderNoMin + 1)
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return 0, err
	}
	return n.Int64() + constants.OrderNoMin, nil
}

func buildOrder(orderNo string, identity Identity, input CommitInput, lines models.CartLines, quote PricedTotals) *models.Order {
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		lineTotal := line.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items = append(items, models.OrderItem{
			ItemID:         line.ItemID,
			Name:           line.Name,
			UnitPrice:      line.UnitPrice,
			Quantity:       line.Quantity,
			LineTotal:      models.NewMoneyFromDecimal(lineTotal),
			RestaurantID:   line.RestaurantID,
			RestaurantName: line.RestaurantName,
		})
	}
	userName := input.UserName
	if userName == "" {
		userName = constants.GuestUserName
	}
	return &models.Order{
		OrderNo:     orderNo,
		IdentityKey: identity.Key(),
		UserID:      identity.UserID,
		UserName:    userName,
		Status:      constants.OrderStatusConfirmed,
		Subtotal:    quote.Subtotal,
		Tax:         quote.Tax,
		DeliveryFee: quote.DeliveryFee,
		Discount:    quote.Discount,
		Total:       quote.GrandTotal,
		PromoCode:   quote.AppliedCode,
		ClientIP:    input.ClientIP,
		Items:       items,
	}
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/foodkart-next/internal/config"
	"github.com/foodkart-next/internal/constants"
	"github.com/foodkart-next/internal/models"
	"github.com/foodkart-next/internal/queue"
	"github.com/foodkart-next/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingOrderRepo struct {
	repository.OrderRepository
	createErr error
	taken     map[string]bool
}

func (r *failingOrderRepo) ExistsOrderNo(_ context.Context, orderNo string) (bool, error) {
	return r.taken[orderNo], nil
}

func (r *failingOrderRepo) Create(context.Context, *models.Order) error {
	return r.createErr
}

type recordingNotifier struct {
	payloads []queue.OrderPlacedPayload
	err      error
}

func (n *recordingNotifier) EnqueueOrderPlaced(payload queue.OrderPlacedPayload) error {
	n.payloads = append(n.payloads, payload)
	return n.err
}

func loadedUserStore(t *testing.T, cloud *memoryCloudCarts, userID uint, items ...CartItemInput) *CartStore {
	t.Helper()
	store := newTestStore(t, AuthenticatedIdentity(testUser(userID), ""), cloud, repository.NewMemoryGuestCartRepository(time.Hour), CartStoreOptions{})
	require.NoError(t, store.Load(context.Background()))
	for _, item := range items {
		require.NoError(t, store.AddItem(item))
	}
	require.NoError(t, store.Flush(flushCtx(t)))
	return store
}

func TestCommitCreatesOrderAndClearsCart(t *testing.T) {
	ctx := context.Background()
	pricing := newTestPricing(t)
	orders := repository.NewOrderRepository(openServiceTestDB(t))
	notifier := &recordingNotifier{}
	committer := NewOrderCommitter(orders, pricing, notifier, time.Second)

	cloud := newMemoryCloudCarts()
	store := loadedUserStore(t, cloud, 30, whopper(), whopper(), fries())
	rule := &DiscountRule{Code: "FIVE", Kind: constants.PromoKindFlat, Value: decimal.NewFromInt(5)}
	totals := pricing.Quote(store.Lines(), rule)

	result, err := committer.Commit(ctx, store, CommitInput{Identity: store.Identity(), Rule: rule, Totals: totals, UserName: "User 30"})
	require.NoError(t, err)
	require.True(t, result.CartCleared)

	order := result.Order
	assert.Len(t, order.OrderNo, 6)
	assert.Equal(t, "user:30", order.IdentityKey)
	assert.EqualValues(t, 30, order.UserID)
	assert.Equal(t, constants.OrderStatusConfirmed, order.Status)
	assert.Equal(t, "FIVE", order.PromoCode)
	assert.Equal(t, totals.GrandTotal.String(), order.Total.String())
	require.Len(t, order.Items, 2)
	assert.Equal(t, "11.98", order.Items[0].LineTotal.String())

	stored, err := orders.GetByOrderNo(ctx, order.OrderNo)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Len(t, stored.Items, 2)

	assert.Empty(t, store.Lines())
	saved, ok := cloud.lines("user:30")
	require.True(t, ok)
	assert.Empty(t, saved, "cleared cart should be persisted before commit returns")

	require.Len(t, notifier.payloads, 1)
	assert.Equal(t, order.OrderNo, notifier.payloads[0].OrderNo)
}

func TestCommitRejectsEmptyCart(t *testing.T) {
	pricing := newTestPricing(t)
	committer := NewOrderCommitter(&failingOrderRepo{}, pricing, nil, time.Second)
	store := loadedUserStore(t, newMemoryCloudCarts(), 31)
	_, err := committer.Commit(context.Background(), store, CommitInput{Totals: pricing.Quote(nil, nil)})
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestCommitRejectsStaleTotals(t *testing.T) {
	pricing := newTestPricing(t)
	repo := &failingOrderRepo{}
	committer := NewOrderCommitter(repo, pricing, nil, time.Second)
	store := loadedUserStore(t, newMemoryCloudCarts(), 32, whopper())
	stale := pricing.Quote(store.Lines(), nil)
	require.NoError(t, store.AddItem(fries()))

	_, err := committer.Commit(context.Background(), store, CommitInput{Totals: stale})
	assert.ErrorIs(t, err, ErrCheckoutTotalsStale)
	assert.Len(t, store.Lines(), 2, "cart must be untouched")
}

func TestCommitPersistFailureKeepsCart(t *testing.T) {
	pricing := newTestPricing(t)
	notifier := &recordingNotifier{}
	committer := NewOrderCommitter(&failingOrderRepo{createErr: errInjected}, pricing, notifier, time.Second)
	store := loadedUserStore(t, newMemoryCloudCarts(), 33, whopper())

	_, err := committer.Commit(context.Background(), store, CommitInput{Totals: pricing.Quote(store.Lines(), nil)})
	assert.ErrorIs(t, err, ErrOrderPersistFailed)
	assert.Len(t, store.Lines(), 1, "cart is cleared only after the order is written")
	assert.Empty(t, notifier.payloads)
}

func TestCommitReportsUnconfirmedClear(t *testing.T) {
	pricing := newTestPricing(t)
	orders := repository.NewOrderRepository(openServiceTestDB(t))
	notifier := &recordingNotifier{err: errInjected}
	committer := NewOrderCommitter(orders, pricing, notifier, 200*time.Millisecond)
	cloud := newMemoryCloudCarts()
	store := loadedUserStore(t, cloud, 34, whopper())
	cloud.setSaveErr(errInjected)

	result, err := committer.Commit(context.Background(), store, CommitInput{Totals: pricing.Quote(store.Lines(), nil)})
	require.NoError(t, err, "order exists even when the clear write fails")
	assert.False(t, result.CartCleared)
	assert.Empty(t, store.Lines())
	assert.Len(t, notifier.payloads, 1, "enqueue failure is logged only")
}

func TestAllocateOrderNoRetriesCollisions(t *testing.T) {
	repo := &failingOrderRepo{taken: map[string]bool{"111111": true, "222222": true}}
	committer := NewOrderCommitter(repo, newTestPricing(t), nil, time.Second)
	seq := []int64{111111, 222222, 333333}
	committer.nextNumber = func() (int64, error) {
		n := seq[0]
		seq = seq[1:]
		return n, nil
	}
	orderNo, err := committer.allocateOrderNo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "333333", orderNo)

	committer.nextNumber = func() (int64, error) { return 111111, nil }
	_, err = committer.allocateOrderNo(context.Background())
	assert.ErrorIs(t, err, ErrOrderNoExhausted)

	for i := 0; i < 50; i++ {
		n, err := randomOrderNumber()
		require.NoError(t, err)
		require.True(t, n >= constants.OrderNoMin && n <= constants.OrderNoMax)
	}
}

func TestPlaceOrderFlow(t *testing.T) {
	ctx := context.Background()
	db := openServiceTestDB(t)
	pricing := newTestPricing(t)
	promos := NewPromoService(repository.NewPromoRepository(db))
	_, err := promos.CreatePromo(ctx, PromoInput{Code: "FK1313", Kind: constants.PromoKindPercentage, Value: decimal.RequireFromString("0.5"), MaxDiscount: money("13")})
	require.NoError(t, err)

	sessions := newTestSessions(t, config.CartConfig{}, newMemoryCloudCarts(), repository.NewMemoryGuestCartRepository(time.Hour))
	orders := repository.NewOrderRepository(db)
	committer := NewOrderCommitter(orders, pricing, nil, time.Second)
	checkout := NewCheckoutService(config.OrderConfig{}, sessions, promos, pricing, NewAmountConfirmationGate(), committer, nil)

	guest := GuestIdentity(testGuestToken)
	_, err = checkout.PlaceOrder(ctx, guest, PlaceOrderInput{ConfirmAmount: "0"})
	assert.ErrorIs(t, err, ErrGuestCheckoutDisabled)

	user := AuthenticatedIdentity(testUser(40), "")
	_, err = checkout.PlaceOrder(ctx, user, PlaceOrderInput{ConfirmAmount: "0"})
	assert.ErrorIs(t, err, ErrCartEmpty)

	store, err := sessions.Acquire(ctx, user)
	require.NoError(t, err)
	require.NoError(t, store.AddItem(margherita()))
	require.NoError(t, store.AddItem(margherita()))

	_, err = checkout.Preview(ctx, user, "nope")
	assert.ErrorIs(t, err, ErrPromoNotFound)

	preview, err := checkout.Preview(ctx, user, "fk1313")
	require.NoError(t, err)
	assert.Equal(t, "10.00", preview.Totals.Discount.String())
	assert.Equal(t, "14.99", preview.Totals.GrandTotal.String())

	_, err = checkout.PlaceOrder(ctx, user, PlaceOrderInput{PromoCode: "fk1313", ConfirmAmount: "15.00"})
	assert.ErrorIs(t, err, ErrConfirmationMismatch)
	assert.Len(t, store.Lines(), 1, "mismatch leaves the cart untouched")

	result, err := checkout.PlaceOrder(ctx, user, PlaceOrderInput{PromoCode: "fk1313", ConfirmAmount: "14.99"})
	require.NoError(t, err)
	assert.True(t, result.CartCleared)
	assert.Equal(t, "User 40", result.Order.UserName)
	assert.Equal(t, "FK1313", result.Order.PromoCode)
	assert.Empty(t, store.Lines())

	orderSvc := NewOrderService(config.OrderConfig{QRCodeBaseURL: "https://foodkart.example"}, orders)
	got, err := orderSvc.GetByOrderNo(ctx, user, result.Order.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, result.Order.ID, got.ID)
	_, err = orderSvc.GetByOrderNo(ctx, AuthenticatedIdentity(testUser(41), ""), result.Order.OrderNo)
	assert.ErrorIs(t, err, ErrNotFound, "orders are visible only to their owner")

	png, err := orderSvc.QRCode(ctx, user, result.Order.OrderNo)
	require.NoError(t, err)
	assert.True(t, len(png) > 8 && string(png[1:4]) == "PNG")

	list, total, err := orderSvc.ListByUser(ctx, 40, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)
}

func TestCheckoutSurfacesPromoLookupFailure(t *testing.T) {
	pricing := newTestPricing(t)
	sessions := newTestSessions(t, config.CartConfig{}, newMemoryCloudCarts(), repository.NewMemoryGuestCartRepository(time.Hour))
	checkout := NewCheckoutService(config.OrderConfig{}, sessions, NewPromoService(failingPromoRepo{}), pricing, NewAmountConfirmationGate(), nil, nil)
	_, err := checkout.Preview(context.Background(), AuthenticatedIdentity(testUser(42), ""), "FK1313")
	assert.True(t, errors.Is(err, ErrPromoLookupFailed))
}

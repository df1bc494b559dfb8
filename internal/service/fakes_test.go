package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/foodkart-next/internal/models"
	"github.com/foodkart-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errInjected = errors.New("injected failure")

// memoryCloudCarts 云端购物车的内存替身，可注入读写失败与写入阻塞
type memoryCloudCarts struct {
	mu      sync.Mutex
	carts   map[string]models.CartLines
	getErr  error
	saveErr error
	saves   int
	gate    chan struct{}
}

func newMemoryCloudCarts() *memoryCloudCarts {
	return &memoryCloudCarts{carts: make(map[string]models.CartLines)}
}

func (m *memoryCloudCarts) Get(_ context.Context, ownerKey string) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	lines, ok := m.carts[ownerKey]
	if !ok {
		return nil, nil
	}
	return &models.Cart{OwnerKey: ownerKey, Items: lines.Clone()}, nil
}

func (m *memoryCloudCarts) Save(_ context.Context, ownerKey string, lines models.CartLines) error {
	m.mu.Lock()
	gate := m.gate
	m.mu.Unlock()
	if gate != nil {
		<-gate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.carts[ownerKey] = lines.Clone()
	return nil
}

func (m *memoryCloudCarts) set(ownerKey string, lines models.CartLines) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[ownerKey] = lines.Clone()
}

func (m *memoryCloudCarts) lines(ownerKey string) (models.CartLines, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lines, ok := m.carts[ownerKey]
	return lines.Clone(), ok
}

func (m *memoryCloudCarts) setSaveErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

func (m *memoryCloudCarts) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// failingGuestCarts 读取失败的游客购物车
type failingGuestCarts struct {
	repository.GuestCartRepository
}

func (failingGuestCarts) Get(context.Context, string) (models.CartLines, bool, error) {
	return nil, false, errInjected
}

const (
	testGuestToken      = "8d7c1e8e-2b1f-4a53-9f3e-2f7f1c1a0b11"
	otherTestGuestToken = "1f0c8b9a-7e6d-4c5b-8a49-3b2a1c0d9e8f"
)

func money(v string) models.Money {
	return models.NewMoneyFromDecimal(decimal.RequireFromString(v))
}

func whopper() CartItemInput {
	return CartItemInput{ItemID: 101, Name: "Whopper", UnitPrice: money("5.99"), RestaurantID: 1, RestaurantName: "Burger King"}
}

func fries() CartItemInput {
	return CartItemInput{ItemID: 102, Name: "Fries", UnitPrice: money("2.49"), RestaurantID: 1, RestaurantName: "Burger King"}
}

func margherita() CartItemInput {
	return CartItemInput{ItemID: 201, Name: "Margherita", UnitPrice: money("10.00"), RestaurantID: 2, RestaurantName: "Pizza Hut"}
}

func testUser(id uint) *models.User {
	return &models.User{ID: id, Email: fmt.Sprintf("user%d@example.com", id), DisplayName: fmt.Sprintf("User %d", id)}
}

func newTestStore(t *testing.T, identity Identity, cloud repository.CartRepository, local repository.GuestCartRepository, opts CartStoreOptions) *CartStore {
	t.Helper()
	store := NewCartStore(identity, cloud, local, opts)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = store.Close(ctx)
	})
	return store
}

func flushCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.MigrateAll(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

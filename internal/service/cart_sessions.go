package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/foodkart-next/internal/config"
	"github.com/foodkart-next/internal/logger"
	"github.com/foodkart-next/internal/repository"
)

const (
	defaultSessionIdle  = 30 * time.Minute
	defaultFlushTimeout = 5 * time.Second
)

// CartSessions 进程内按身份管理的购物车集合
type CartSessions struct {
	cloud        repository.CartRepository
	local        repository.GuestCartRepository
	storeOpts    CartStoreOptions
	idle         time.Duration
	flushTimeout time.Duration

	mu       sync.Mutex
	stores   map[string]*CartStore
	shutdown bool
}

// NewCartSessions 创建购物车会话管理
func NewCartSessions(cfg config.CartConfig, cloud repository.CartRepository, local repository.GuestCartRepository) *CartSessions {
	idle := time.Duration(cfg.SessionIdleMinutes) * time.Minute
	if idle <= 0 {
		idle = defaultSessionIdle
	}
	flushTimeout := time.Duration(cfg.FlushTimeoutMS) * time.Millisecond
	if flushTimeout <= 0 {
		flushTimeout = defaultFlushTimeout
	}
	return &CartSessions{
		cloud:        cloud,
		local:        local,
		storeOpts:    CartStoreOptions{SingleRestaurant: cfg.SingleRestaurant},
		idle:         idle,
		flushTimeout: flushTimeout,
		stores:       make(map[string]*CartStore),
	}
}

// FlushTimeout 单次刷盘等待上限
func (m *CartSessions) FlushTimeout() time.Duration {
	return m.flushTimeout
}

// Acquire 获取身份对应的购物车，未加载时先加载；Pending 身份返回 ErrIdentityPending
func (m *CartSessions) Acquire(ctx context.Context, identity Identity) (*CartStore, error) {
	if !identity.Resolved() {
		return nil, ErrIdentityPending
	}
	key := identity.Key()

	m.mu.Lock()
	if m.shutdown {
		m.mu.Unlock()
		return nil, ErrCartClosed
	}
	store, ok := m.stores[key]
	if !ok {
		store = NewCartStore(identity, m.cloud, m.local, m.storeOpts)
		m.stores[key] = store
	}
	m.mu.Unlock()

	if err := store.Load(ctx); err != nil {
		if errors.Is(err, ErrCartClosed) {
			m.forget(key, store)
		}
		return nil, err
	}
	return store, nil
}

// With 获取购物车并执行 fn；购物车恰好被回收时重试一次
func (m *CartSessions) With(ctx context.Context, identity Identity, fn func(store *CartStore) error) error {
	for attempt := 0; ; attempt++ {
		store, err := m.Acquire(ctx, identity)
		if err == nil {
			err = fn(store)
		}
		if errors.Is(err, ErrCartClosed) && attempt == 0 {
			continue
		}
		return err
	}
}

// HandleIdentityChange 身份切换：刷盘并释放旧身份的购物车，登录时加载（必要时迁移）新身份购物车
func (m *CartSessions) HandleIdentityChange(ctx context.Context, change IdentityChange) error {
	if change.From.Resolved() && change.From.Key() != change.To.Key() {
		if err := m.Release(ctx, change.From); err != nil {
			logger.Warnw("cart_session_release_failed", "identity_key", change.From.Key(), "error", err)
		}
	}
	if !change.To.IsAuthenticated() {
		return nil
	}
	store, err := m.Acquire(ctx, change.To)
	if err != nil {
		return err
	}
	// 同一用户的会话可能已由其他设备加载，此时单独迁移本设备的游客购物车
	if _, err := store.AdoptGuest(ctx, change.To.GuestToken); err != nil {
		logger.Warnw("guest_cart_adopt_failed", "identity_key", change.To.Key(), "error", err)
	}
	return nil
}

// Release 刷盘并移除身份对应的购物车
func (m *CartSessions) Release(ctx context.Context, identity Identity) error {
	key := identity.Key()
	m.mu.Lock()
	store, ok := m.stores[key]
	if ok {
		delete(m.stores, key)
	}
	m.mu.Unlock()
	if !ok {
		return nil
	}
	return m.closeStore(ctx, store)
}

// SweepIdle 回收空闲超时的购物车，返回回收数量
func (m *CartSessions) SweepIdle(ctx context.Context, now time.Time) int {
	var idle []*CartStore
	m.mu.Lock()
	for key, store := range m.stores {
		if now.Sub(store.LastUsed()) >= m.idle {
			idle = append(idle, store)
			delete(m.stores, key)
		}
	}
	m.mu.Unlock()

	for _, store := range idle {
		if err := m.closeStore(ctx, store); err != nil {
			logger.Warnw("cart_session_sweep_flush_failed", "identity_key", store.Identity().Key(), "error", err)
		}
	}
	return len(idle)
}

// Len 当前会话数量
func (m *CartSessions) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}

// Close 刷盘并关闭全部购物车
func (m *CartSessions) Close(ctx context.Context) error {
	m.mu.Lock()
	m.shutdown = true
	stores := make([]*CartStore, 0, len(m.stores))
	for _, store := range m.stores {
		stores = append(stores, store)
	}
	m.stores = make(map[string]*CartStore)
	m.mu.Unlock()

	var firstErr error
	for _, store := range stores {
		if err := m.closeStore(ctx, store); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *CartSessions) closeStore(ctx context.Context, store *CartStore) error {
	flushCtx, cancel := context.WithTimeout(ctx, m.flushTimeout)
	defer cancel()
	if err := store.Flush(flushCtx); err != nil && !errors.Is(err, ErrCartNotLoaded) {
		logger.Warnw("cart_session_flush_failed", "identity_key", store.Identity().Key(), "error", err)
	}
	return store.Close(flushCtx)
}

func (m *CartSessions) forget(key string, store *CartStore) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if current, ok := m.stores[key]; ok && current == store {
		delete(m.stores, key)
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/foodkart-next/internal/logger"
	"github.com/foodkart-next/internal/models"
	"github.com/foodkart-next/internal/repository"

	"github.com/shopspring/decimal"
)

const defaultCartWriteTimeout = 10 * time.Second

// CartItemInput 加购的菜品快照
type CartItemInput struct {
	ItemID         uint
	Name           string
	UnitPrice      models.Money
	RestaurantID   uint
	RestaurantName string
}

// CartStoreOptions 购物车行为开关
type CartStoreOptions struct {
	SingleRestaurant bool
	WriteTimeout     time.Duration
	Now              func() time.Time
}

// CartStore 单个身份的购物车
// 操作串行执行；持久化由后台写协程按最新状态合并写入，写失败只记录日志
type CartStore struct {
	identity Identity
	cloud    repository.CartRepository
	local    repository.GuestCartRepository
	opts     CartStoreOptions

	opMu sync.Mutex

	mu               sync.Mutex
	lines            models.CartLines
	loaded           bool
	closed           bool
	version          uint64
	persistedVersion uint64
	attemptedVersion uint64
	lastErr          error
	settled          chan struct{}
	lastUsed         time.Time

	dirty chan struct{}
	stop  chan struct{}
	done  chan struct{}
}

// NewCartStore 创建购物车并启动写协程
func NewCartStore(identity Identity, cloud repository.CartRepository, local repository.GuestCartRepository, opts CartStoreOptions) *CartStore {
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultCartWriteTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &CartStore{
		identity: identity,
		cloud:    cloud,
		local:    local,
		opts:     opts,
		lines:    models.CartLines{},
		settled:  make(chan struct{}),
		lastUsed: opts.Now(),
		dirty:    make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go s.writeLoop()
	return s
}

// Identity 购物车归属身份
func (s *CartStore) Identity() Identity {
	return s.identity
}

// Loaded 是否已完成加载
func (s *CartStore) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// LastUsed 最近一次操作时间
func (s *CartStore) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Lines 当前购物车行副本
func (s *CartStore) Lines() models.CartLines {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines.Clone()
}

// Count 菜品总数量
func (s *CartStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, line := range s.lines {
		total += line.Quantity
	}
	return total
}

// Total 商品小计
func (s *CartStore) Total() models.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, line := range s.lines {
		total = total.Add(line.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return models.NewMoneyFromDecimal(total)
}

// Load 按身份加载购物车
// 登录用户：云端存在即采用（即使为空）；否则迁移游客购物车，云端写入成功后才删除游客副本
func (s *CartStore) Load(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if !s.identity.Resolved() {
		return ErrIdentityPending
	}
	if s.isClosed() {
		return ErrCartClosed
	}
	if s.Loaded() {
		return nil
	}
	if err := s.Flush(ctx); err != nil && !errors.Is(err, ErrCartNotLoaded) {
		logger.Warnw("cart_pending_write_failed", "identity_key", s.identity.Key(), "error", err)
	}

	var (
		lines models.CartLines
		err   error
	)
	if s.identity.IsAuthenticated() {
		lines, err = s.loadAuthenticated(ctx)
	} else {
		lines, err = s.loadGuest(ctx)
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.lines = lines
	s.loaded = true
	s.version++
	s.persistedVersion = s.version
	s.attemptedVersion = s.version
	s.lastErr = nil
	s.lastUsed = s.opts.Now()
	s.mu.Unlock()
	return nil
}

func (s *CartStore) loadGuest(ctx context.Context) (models.CartLines, error) {
	lines, ok, err := s.local.Get(ctx, s.identity.GuestToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCartLoadFailed, err)
	}
	if !ok {
		return models.CartLines{}, nil
	}
	return lines.Clone(), nil
}

func (s *CartStore) loadAuthenticated(ctx context.Context) (models.CartLines, error) {
	key := s.identity.Key()
	cart, err := s.cloud.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCartLoadFailed, err)
	}
	if cart != nil {
		return cart.Items.Clone(), nil
	}

	lines, _, err := s.migrateGuest(ctx, s.identity.GuestToken)
	return lines, err
}

// migrateGuest 将游客购物车写入云端，写入成功后删除游客副本
func (s *CartStore) migrateGuest(ctx context.Context, guestToken string) (models.CartLines, bool, error) {
	if guestToken == "" {
		return models.CartLines{}, false, nil
	}
	key := s.identity.Key()
	guestLines, ok, err := s.local.Get(ctx, guestToken)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrCartLoadFailed, err)
	}
	if !ok || len(guestLines) == 0 {
		return models.CartLines{}, false, nil
	}

	if err := s.cloud.Save(ctx, key, guestLines); err != nil {
		return nil, false, fmt.Errorf("%w: migrate guest cart: %v", ErrCartLoadFailed, err)
	}
	if err := s.local.Delete(ctx, guestToken); err != nil {
		logger.Warnw("guest_cart_cleanup_failed", "identity_key", key, "error", err)
	}
	logger.Infow("guest_cart_migrated", "identity_key", key, "lines", len(guestLines))
	return guestLines.Clone(), true, nil
}

// AdoptGuest 已加载的登录用户购物车接收另一设备的游客购物车
// 仅在内存为空且云端无记录时迁移，否则游客副本保持不变
func (s *CartStore) AdoptGuest(ctx context.Context, guestToken string) (bool, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if !s.identity.IsAuthenticated() || guestToken == "" || guestToken == s.identity.GuestToken {
		return false, nil
	}
	if s.isClosed() {
		return false, ErrCartClosed
	}
	if !s.Loaded() {
		return false, ErrCartNotLoaded
	}
	if err := s.Flush(ctx); err != nil {
		logger.Warnw("cart_pending_write_failed", "identity_key", s.identity.Key(), "error", err)
	}
	if len(s.Lines()) > 0 {
		return false, nil
	}
	cart, err := s.cloud.Get(ctx, s.identity.Key())
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrCartLoadFailed, err)
	}
	if cart != nil {
		return false, nil
	}

	lines, migrated, err := s.migrateGuest(ctx, guestToken)
	if err != nil || !migrated {
		return false, err
	}
	s.mu.Lock()
	s.lines = lines
	s.version++
	s.persistedVersion = s.version
	s.attemptedVersion = s.version
	s.lastErr = nil
	s.lastUsed = s.opts.Now()
	s.mu.Unlock()
	return true, nil
}

// AddItem 加购：已有则数量 +1，否则追加数量为 1 的新行
func (s *CartStore) AddItem(item CartItemInput) error {
	if item.ItemID == 0 || item.UnitPrice.Decimal.IsNegative() {
		return ErrCartItemInvalid
	}
	return s.mutate(func(lines models.CartLines) (models.CartLines, bool, error) {
		if s.opts.SingleRestaurant {
			for _, line := range lines {
				if line.RestaurantID != item.RestaurantID {
					return lines, false, ErrCartRestaurantConflict
				}
			}
		}
		for i := range lines {
			if lines[i].ItemID == item.ItemID {
				lines[i].Quantity++
				return lines, true, nil
			}
		}
		return append(lines, models.CartLine{
			ItemID:         item.ItemID,
			Name:           item.Name,
			UnitPrice:      item.UnitPrice,
			Quantity:       1,
			RestaurantID:   item.RestaurantID,
			RestaurantName: item.RestaurantName,
		}), true, nil
	})
}

// RemoveItem 移除菜品行，不存在时无变化
func (s *CartStore) RemoveItem(itemID uint) error {
	return s.mutate(func(lines models.CartLines) (models.CartLines, bool, error) {
		for i := range lines {
			if lines[i].ItemID == itemID {
				return append(lines[:i], lines[i+1:]...), true, nil
			}
		}
		return lines, false, nil
	})
}

// UpdateQuantity 调整数量，结果不低于 1；不存在时无变化
func (s *CartStore) UpdateQuantity(itemID uint, delta int) error {
	return s.mutate(func(lines models.CartLines) (models.CartLines, bool, error) {
		for i := range lines {
			if lines[i].ItemID != itemID {
				continue
			}
			next := clampQuantity(lines[i].Quantity, delta)
			if next == lines[i].Quantity {
				return lines, false, nil
			}
			lines[i].Quantity = next
			return lines, true, nil
		}
		return lines, false, nil
	})
}

// clampQuantity 计算 current+delta，结果限制在 [1, math.MaxInt]，不会溢出
func clampQuantity(current, delta int) int {
	if delta < 0 {
		if delta <= 1-current {
			return 1
		}
		return current + delta
	}
	if delta > math.MaxInt-current {
		return math.MaxInt
	}
	return current + delta
}

// Clear 清空购物车
func (s *CartStore) Clear() error {
	return s.mutate(func(models.CartLines) (models.CartLines, bool, error) {
		return models.CartLines{}, true, nil
	})
}

func (s *CartStore) mutate(fn func(lines models.CartLines) (models.CartLines, bool, error)) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return s.mutateLocked(fn)
}

// mutateLocked 需持有 opMu
func (s *CartStore) mutateLocked(fn func(lines models.CartLines) (models.CartLines, bool, error)) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrCartClosed
	}
	next, changed, err := fn(s.lines.Clone())
	s.lastUsed = s.opts.Now()
	if err == nil && changed {
		s.lines = next
		s.version++
	}
	s.mu.Unlock()

	if err == nil && changed {
		s.signal()
	}
	return err
}

func (s *CartStore) signal() {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

func (s *CartStore) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *CartStore) writeLoop() {
	defer close(s.done)
	for {
		select {
		case <-s.dirty:
			s.writeLatest()
		case <-s.stop:
			s.writeLatest()
			return
		}
	}
}

// writeLatest 以写入时刻的最新状态为准，旧快照不会覆盖新状态
func (s *CartStore) writeLatest() {
	s.mu.Lock()
	if s.version == s.persistedVersion {
		s.mu.Unlock()
		return
	}
	snapshot := s.lines.Clone()
	ver := s.version
	loaded := s.loaded
	s.mu.Unlock()

	var err error
	if s.identity.IsAuthenticated() && !loaded {
		err = ErrCartNotLoaded
		logger.Debugw("cart_persist_skipped_unloaded", "identity_key", s.identity.Key(), "version", ver)
	} else {
		err = s.persist(snapshot)
		if err != nil {
			logger.Warnw("cart_persist_failed", "identity_key", s.identity.Key(), "version", ver, "error", err)
			err = fmt.Errorf("%w: %v", ErrCartPersistFailed, err)
		}
	}

	s.mu.Lock()
	if ver > s.attemptedVersion {
		s.attemptedVersion = ver
	}
	if err == nil && ver > s.persistedVersion {
		s.persistedVersion = ver
	}
	s.lastErr = err
	close(s.settled)
	s.settled = make(chan struct{})
	s.mu.Unlock()
}

func (s *CartStore) persist(lines models.CartLines) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.WriteTimeout)
	defer cancel()

	if s.identity.IsAuthenticated() {
		return s.cloud.Save(ctx, s.identity.Key(), lines)
	}
	if len(lines) == 0 {
		return s.local.Delete(ctx, s.identity.GuestToken)
	}
	return s.local.Save(ctx, s.identity.GuestToken, lines)
}

// Flush 等待当前状态落盘，返回覆盖当前版本的那次写入的错误
func (s *CartStore) Flush(ctx context.Context) error {
	for {
		s.mu.Lock()
		if s.persistedVersion >= s.version {
			s.mu.Unlock()
			return nil
		}
		if s.closed && s.writerDone() {
			err := s.lastErr
			s.mu.Unlock()
			if err == nil {
				err = ErrCartClosed
			}
			return err
		}
		target := s.version
		settled := s.settled
		s.mu.Unlock()

		s.signal()
		select {
		case <-settled:
		case <-s.done:
			continue
		case <-ctx.Done():
			return ctx.Err()
		}

		s.mu.Lock()
		if s.persistedVersion < target && s.attemptedVersion >= target && s.lastErr != nil {
			err := s.lastErr
			s.mu.Unlock()
			return err
		}
		s.mu.Unlock()
	}
}

func (s *CartStore) writerDone() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// CartTx 在 CommitWith 内使用的购物车视图
type CartTx struct {
	store *CartStore
}

// Lines 当前购物车行副本
func (tx *CartTx) Lines() models.CartLines {
	return tx.store.Lines()
}

// Clear 清空购物车
func (tx *CartTx) Clear() error {
	return tx.store.mutateLocked(func(models.CartLines) (models.CartLines, bool, error) {
		return models.CartLines{}, true, nil
	})
}

// Flush 等待落盘
func (tx *CartTx) Flush(ctx context.Context) error {
	return tx.store.Flush(ctx)
}

// CommitWith 在独占购物车的情况下执行 fn，期间其他操作等待
func (s *CartStore) CommitWith(ctx context.Context, fn func(tx *CartTx) error) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	closed, loaded := s.closed, s.loaded
	s.lastUsed = s.opts.Now()
	s.mu.Unlock()
	if closed {
		return ErrCartClosed
	}
	if s.identity.IsAuthenticated() && !loaded {
		return ErrCartNotLoaded
	}
	return fn(&CartTx{store: s})
}

// Close 等待进行中的操作，刷盘后停止写协程；之后的操作返回 ErrCartClosed
func (s *CartStore) Close(ctx context.Context) error {
	s.opMu.Lock()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.opMu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	s.opMu.Unlock()

	close(s.stop)
	select {
	case <-s.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.persistedVersion >= s.version {
		return nil
	}
	if s.lastErr != nil && !errors.Is(s.lastErr, ErrCartNotLoaded) {
		return s.lastErr
	}
	return nil
}

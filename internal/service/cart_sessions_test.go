package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/foodkart-next/internal/config"
	"github.com/foodkart-next/internal/models"
	"github.com/foodkart-next/internal/repository"
)

func newTestSessions(t *testing.T, cfg config.CartConfig, cloud repository.CartRepository, local repository.GuestCartRepository) *CartSessions {
	t.Helper()
	sessions := NewCartSessions(cfg, cloud, local)
	t.Cleanup(func() {
		_ = sessions.Close(context.Background())
	})
	return sessions
}

func TestCartSessionsAcquireRejectsPending(t *testing.T) {
	sessions := newTestSessions(t, config.CartConfig{}, newMemoryCloudCarts(), repository.NewMemoryGuestCartRepository(time.Hour))
	if _, err := sessions.Acquire(context.Background(), PendingIdentity()); !errors.Is(err, ErrIdentityPending) {
		t.Fatalf("pending identity should be rejected, got %v", err)
	}
	if sessions.Len() != 0 {
		t.Fatalf("pending identity must not create a session")
	}
}

func TestCartSessionsAcquireReusesStore(t *testing.T) {
	sessions := newTestSessions(t, config.CartConfig{}, newMemoryCloudCarts(), repository.NewMemoryGuestCartRepository(time.Hour))
	ctx := context.Background()
	first, err := sessions.Acquire(ctx, GuestIdentity(testGuestToken))
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	second, err := sessions.Acquire(ctx, GuestIdentity(testGuestToken))
	if err != nil {
		t.Fatalf("second acquire failed: %v", err)
	}
	if first != second {
		t.Fatalf("same identity should share one store")
	}
	other, err := sessions.Acquire(ctx, GuestIdentity(otherTestGuestToken))
	if err != nil {
		t.Fatalf("other acquire failed: %v", err)
	}
	if other == first {
		t.Fatalf("different identities must not share a store")
	}
}

func TestCartSessionsAcquireRetriesFailedLoad(t *testing.T) {
	cloud := newMemoryCloudCarts()
	cloud.getErr = errInjected
	sessions := newTestSessions(t, config.CartConfig{}, cloud, repository.NewMemoryGuestCartRepository(time.Hour))
	identity := AuthenticatedIdentity(testUser(20), "")

	if _, err := sessions.Acquire(context.Background(), identity); !errors.Is(err, ErrCartLoadFailed) {
		t.Fatalf("first acquire should fail, got %v", err)
	}
	cloud.mu.Lock()
	cloud.getErr = nil
	cloud.mu.Unlock()
	store, err := sessions.Acquire(context.Background(), identity)
	if err != nil {
		t.Fatalf("second acquire should load: %v", err)
	}
	if !store.Loaded() {
		t.Fatalf("store should be loaded after a successful retry")
	}
}

func TestCartSessionsLoginMigratesGuestCart(t *testing.T) {
	ctx := context.Background()
	cloud := newMemoryCloudCarts()
	local := repository.NewMemoryGuestCartRepository(time.Hour)
	sessions := newTestSessions(t, config.CartConfig{}, cloud, local)

	guest := GuestIdentity(testGuestToken)
	guestStore, err := sessions.Acquire(ctx, guest)
	if err != nil {
		t.Fatalf("acquire guest failed: %v", err)
	}
	if err := guestStore.AddItem(whopper()); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := guestStore.AddItem(whopper()); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	user := AuthenticatedIdentity(testUser(21), testGuestToken)
	if err := sessions.HandleIdentityChange(ctx, IdentityChange{From: guest, To: user}); err != nil {
		t.Fatalf("identity change failed: %v", err)
	}
	if sessions.Len() != 1 {
		t.Fatalf("guest session should be dropped, have %d sessions", sessions.Len())
	}
	userStore, err := sessions.Acquire(ctx, user)
	if err != nil {
		t.Fatalf("acquire user failed: %v", err)
	}
	if lines := userStore.Lines(); len(lines) != 1 || lines[0].Quantity != 2 {
		t.Fatalf("user cart should hold the migrated guest items, got %+v", lines)
	}
	if saved, ok := cloud.lines(user.Key()); !ok || len(saved) != 1 {
		t.Fatalf("migrated cart should be in the cloud")
	}
	if _, ok, _ := local.Get(ctx, testGuestToken); ok {
		t.Fatalf("guest copy should be removed after migration")
	}
}

func TestCartSessionsLogoutFlushesAndDrops(t *testing.T) {
	ctx := context.Background()
	cloud := newMemoryCloudCarts()
	sessions := newTestSessions(t, config.CartConfig{}, cloud, repository.NewMemoryGuestCartRepository(time.Hour))
	user := AuthenticatedIdentity(testUser(22), testGuestToken)

	store, err := sessions.Acquire(ctx, user)
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	if err := store.AddItem(margherita()); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := sessions.HandleIdentityChange(ctx, IdentityChange{From: user, To: GuestIdentity(testGuestToken)}); err != nil {
		t.Fatalf("logout change failed: %v", err)
	}
	if sessions.Len() != 0 {
		t.Fatalf("user session should be dropped on logout")
	}
	if saved, ok := cloud.lines(user.Key()); !ok || len(saved) != 1 {
		t.Fatalf("pending write should be flushed before the session is dropped, got %+v", saved)
	}
	if err := store.AddItem(whopper()); !errors.Is(err, ErrCartClosed) {
		t.Fatalf("released store should be closed, got %v", err)
	}
}

func TestCartSessionsSweepIdle(t *testing.T) {
	ctx := context.Background()
	sessions := newTestSessions(t, config.CartConfig{SessionIdleMinutes: 1}, newMemoryCloudCarts(), repository.NewMemoryGuestCartRepository(time.Hour))
	if _, err := sessions.Acquire(ctx, GuestIdentity(testGuestToken)); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	if n := sessions.SweepIdle(ctx, time.Now()); n != 0 {
		t.Fatalf("fresh session should not be swept, swept %d", n)
	}
	if n := sessions.SweepIdle(ctx, time.Now().Add(2*time.Minute)); n != 1 {
		t.Fatalf("idle session should be swept, swept %d", n)
	}
	if sessions.Len() != 0 {
		t.Fatalf("swept session should be removed")
	}
}

func TestCartSessionsWithRecoversFromSweptStore(t *testing.T) {
	ctx := context.Background()
	sessions := newTestSessions(t, config.CartConfig{}, newMemoryCloudCarts(), repository.NewMemoryGuestCartRepository(time.Hour))
	identity := GuestIdentity(testGuestToken)
	store, err := sessions.Acquire(ctx, identity)
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	if err := sessions.Release(ctx, identity); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	calls := 0
	err = sessions.With(ctx, identity, func(s *CartStore) error {
		calls++
		if s == store {
			t.Fatalf("released store must not be handed out again")
		}
		return s.AddItem(whopper())
	})
	if err != nil || calls != 1 {
		t.Fatalf("with should use a fresh store, err=%v calls=%d", err, calls)
	}
}

func TestCartSessionsLoginAdoptsGuestCartIntoLiveSession(t *testing.T) {
	ctx := context.Background()
	cloud := newMemoryCloudCarts()
	local := repository.NewMemoryGuestCartRepository(time.Hour)
	sessions := newTestSessions(t, config.CartConfig{}, cloud, local)

	// 设备 A 已登录且购物车为空
	userOnA := AuthenticatedIdentity(testUser(77), testGuestToken)
	liveStore, err := sessions.Acquire(ctx, userOnA)
	if err != nil {
		t.Fatalf("acquire on first device failed: %v", err)
	}

	// 设备 B 以游客身份加购后登录
	guestOnB := GuestIdentity(otherTestGuestToken)
	guestStore, err := sessions.Acquire(ctx, guestOnB)
	if err != nil {
		t.Fatalf("acquire guest failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := guestStore.AddItem(whopper()); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}
	userOnB := AuthenticatedIdentity(testUser(77), otherTestGuestToken)
	if err := sessions.HandleIdentityChange(ctx, IdentityChange{From: guestOnB, To: userOnB}); err != nil {
		t.Fatalf("identity change failed: %v", err)
	}

	if liveStore.Count() != 2 {
		t.Fatalf("live user session should adopt the guest cart, count=%d", liveStore.Count())
	}
	if saved, ok := cloud.lines(userOnB.Key()); !ok || len(saved) != 1 || saved[0].Quantity != 2 {
		t.Fatalf("adopted cart should be persisted, got %+v (exists=%v)", saved, ok)
	}
	if _, ok, _ := local.Get(ctx, otherTestGuestToken); ok {
		t.Fatalf("guest copy should be removed after adoption")
	}
}

func TestCartSessionsLoginKeepsExistingCloudCart(t *testing.T) {
	ctx := context.Background()
	cloud := newMemoryCloudCarts()
	local := repository.NewMemoryGuestCartRepository(time.Hour)
	sessions := newTestSessions(t, config.CartConfig{}, cloud, local)

	userOnA := AuthenticatedIdentity(testUser(78), testGuestToken)
	liveStore, err := sessions.Acquire(ctx, userOnA)
	if err != nil {
		t.Fatalf("acquire on first device failed: %v", err)
	}
	if err := liveStore.AddItem(margherita()); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := local.Save(ctx, otherTestGuestToken, models.CartLines{{ItemID: whopper().ItemID, Name: "Whopper", UnitPrice: money("5.99"), Quantity: 1}}); err != nil {
		t.Fatalf("seed guest cart failed: %v", err)
	}
	userOnB := AuthenticatedIdentity(testUser(78), otherTestGuestToken)
	if err := sessions.HandleIdentityChange(ctx, IdentityChange{From: GuestIdentity(otherTestGuestToken), To: userOnB}); err != nil {
		t.Fatalf("identity change failed: %v", err)
	}

	lines := liveStore.Lines()
	if len(lines) != 1 || lines[0].ItemID != margherita().ItemID {
		t.Fatalf("existing user cart must win, got %+v", lines)
	}
	if _, ok, _ := local.Get(ctx, otherTestGuestToken); !ok {
		t.Fatalf("guest copy should stay when the user cart already exists")
	}
}

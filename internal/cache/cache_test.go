package cache

import (
	"context"
	"testing"
	"time"

	"github.com/foodkart-next/internal/config"
	"github.com/foodkart-next/internal/models"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: false}); err != nil {
		t.Fatalf("init disabled redis failed: %v", err)
	}
	ctx := context.Background()
	if Enabled() {
		t.Fatalf("cache should be disabled")
	}
	var dest map[string]string
	hit, err := GetJSON(ctx, RestaurantListKey(), &dest)
	if err != nil || hit {
		t.Fatalf("disabled get should miss without error, hit=%v err=%v", hit, err)
	}
	if err := SetJSON(ctx, PromoKey("fk1313"), map[string]string{"a": "b"}, CatalogTTL); err != nil {
		t.Fatalf("disabled set should be noop: %v", err)
	}
	if err := InvalidateRestaurant(ctx, 1); err != nil {
		t.Fatalf("disabled invalidate should be noop: %v", err)
	}
	if err := Ping(ctx); err != nil {
		t.Fatalf("disabled ping should be noop: %v", err)
	}
}

func TestBuildKeyUsesPrefix(t *testing.T) {
	saved := redisPrefix
	t.Cleanup(func() { redisPrefix = saved })

	redisPrefix = ""
	if got := buildKey(PromoKey(" fk1313 ")); got != "fk:promo:FK1313" {
		t.Fatalf("unexpected default key: %s", got)
	}
	redisPrefix = "staging"
	if got := buildKey(RestaurantKey(3)); got != "staging:catalog:restaurant:3" {
		t.Fatalf("unexpected prefixed key: %s", got)
	}
}

func TestAuthStateBuilders(t *testing.T) {
	invalidBefore := time.Unix(1700000000, 0)
	user := &models.User{ID: 7, Status: "active", TokenVersion: 3, TokenInvalidBefore: &invalidBefore}
	state := UserAuthState(user)
	if state.Subject != AuthSubjectUser || state.ID != 7 || state.TokenVersion != 3 {
		t.Fatalf("unexpected user state: %+v", state)
	}
	if state.TokenInvalidBefore != 1700000000 {
		t.Fatalf("unexpected invalid before: %d", state.TokenInvalidBefore)
	}
	if authStateKey(state.Subject, state.ID) != "auth:user:7" {
		t.Fatalf("unexpected key: %s", authStateKey(state.Subject, state.ID))
	}

	admin := AdminAuthState(&models.Admin{ID: 1, Username: "admin", IsSuper: true})
	if admin.Subject != AuthSubjectAdmin || !admin.IsSuper || admin.TokenInvalidBefore != 0 {
		t.Fatalf("unexpected admin state: %+v", admin)
	}
	if UserAuthState(nil) != nil || AdminAuthState(nil) != nil {
		t.Fatalf("nil models should produce nil state")
	}
}

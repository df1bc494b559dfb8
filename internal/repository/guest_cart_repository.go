package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/foodkart-next/internal/models"

	"github.com/redis/go-redis/v9"
)

// GuestCartRepository 游客本地购物车存储接口
type GuestCartRepository interface {
	// Get 第二个返回值表示记录是否存在
	Get(ctx context.Context, token string) (models.CartLines, bool, error)
	Save(ctx context.Context, token string, lines models.CartLines) error
	Delete(ctx context.Context, token string) error
}

// RedisGuestCartRepository Redis 实现，记录带 TTL
type RedisGuestCartRepository struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisGuestCartRepository 创建 Redis 游客购物车仓库
func NewRedisGuestCartRepository(client *redis.Client, prefix string, ttl time.Duration) *RedisGuestCartRepository {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "fk"
	}
	return &RedisGuestCartRepository{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisGuestCartRepository) key(token string) string {
	return fmt.Sprintf("%s:cart:guest:%s", r.prefix, token)
}

// Get 读取游客购物车
func (r *RedisGuestCartRepository) Get(ctx context.Context, token string) (models.CartLines, bool, error) {
	raw, err := r.client.Get(ctx, r.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var lines models.CartLines
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, false, fmt.Errorf("decode guest cart: %w", err)
	}
	if lines == nil {
		lines = models.CartLines{}
	}
	return lines, true, nil
}

// Save 写入游客购物车并刷新 TTL
func (r *RedisGuestCartRepository) Save(ctx context.Context, token string, lines models.CartLines) error {
	payload, err := json.Marshal(lines.Clone())
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(token), payload, r.ttl).Err()
}

// Delete 删除游客购物车
func (r *RedisGuestCartRepository) Delete(ctx context.Context, token string) error {
	return r.client.Del(ctx, r.key(token)).Err()
}

type memoryGuestCart struct {
	lines     models.CartLines
	expiresAt time.Time
}

// MemoryGuestCartRepository 进程内实现（未启用 Redis 时使用）
type MemoryGuestCartRepository struct {
	mu    sync.Mutex
	ttl   time.Duration
	carts map[string]memoryGuestCart
	now   func() time.Time
}

// NewMemoryGuestCartRepository 创建进程内游客购物车仓库
func NewMemoryGuestCartRepository(ttl time.Duration) *MemoryGuestCartRepository {
	return &MemoryGuestCartRepository{
		ttl:   ttl,
		carts: make(map[string]memoryGuestCart),
		now:   time.Now,
	}
}

// Get 读取游客购物车，过期记录视为不存在
func (r *MemoryGuestCartRepository) Get(_ context.Context, token string) (models.CartLines, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.carts[token]
	if !ok {
		return nil, false, nil
	}
	if r.ttl > 0 && r.now().After(entry.expiresAt) {
		delete(r.carts, token)
		return nil, false, nil
	}
	return entry.lines.Clone(), true, nil
}

// Save 写入游客购物车
func (r *MemoryGuestCartRepository) Save(_ context.Context, token string, lines models.CartLines) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[token] = memoryGuestCart{lines: lines.Clone(), expiresAt: r.now().Add(r.ttl)}
	return nil
}

// Delete 删除游客购物车
func (r *MemoryGuestCartRepository) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, token)
	return nil
}

package app

import (
	"context"
	"time"

	"github.com/foodkart-next/internal/config"
	"github.com/foodkart-next/internal/logger"
	"github.com/foodkart-next/internal/service"
)

const (
	defaultSweepInterval = time.Minute
	cartJanitorName      = "cart_janitor"
)

// CartJanitor 定期刷新并回收空闲的购物车会话
type CartJanitor struct {
	sessions *service.CartSessions
	interval time.Duration
	now      func() time.Time
	done     chan struct{}
}

// NewCartJanitor 创建购物车会话回收服务
func NewCartJanitor(sessions *service.CartSessions, cfg config.CartConfig) *CartJanitor {
	interval := time.Duration(cfg.SweepIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &CartJanitor{
		sessions: sessions,
		interval: interval,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// Name 服务名称
func (j *CartJanitor) Name() string {
	return cartJanitorName
}

// Start 按周期回收，直到 ctx 结束
func (j *CartJanitor) Start(ctx context.Context) error {
	defer close(j.done)
	if j.sessions == nil {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *CartJanitor) sweep(ctx context.Context) int {
	swept := j.sessions.SweepIdle(ctx, j.now())
	if swept > 0 {
		logger.Debugw("cart_janitor_swept", "sessions", swept, "remaining", j.sessions.Len())
	}
	return swept
}

// Stop 等待回收循环退出
func (j *CartJanitor) Stop(ctx context.Context) error {
	select {
	case <-j.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

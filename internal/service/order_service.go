package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/foodkart-next/internal/config"
	"github.com/foodkart-next/internal/models"
	"github.com/foodkart-next/internal/repository"

	"github.com/skip2/go-qrcode"
)

const defaultQRCodeSize = 256

// OrderService 订单查询
type OrderService struct {
	cfg    config.OrderConfig
	orders repository.OrderRepository
}

// NewOrderService 创建订单服务
func NewOrderService(cfg config.OrderConfig, orders repository.OrderRepository) *OrderService {
	return &OrderService{cfg: cfg, orders: orders}
}

// ListByUser 用户订单列表
func (s *OrderService) ListByUser(ctx context.Context, userID uint, page, pageSize int) ([]models.Order, int64, error) {
	if userID == 0 {
		return nil, 0, ErrIdentityPending
	}
	return s.orders.List(ctx, repository.OrderListFilter{UserID: userID, Page: page, PageSize: pageSize})
}

// GetByOrderNo 订单详情，仅下单身份可见
func (s *OrderService) GetByOrderNo(ctx context.Context, identity Identity, orderNo string) (*models.Order, error) {
	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" || !identity.Resolved() {
		return nil, ErrNotFound
	}
	order, err := s.orders.GetByOrderNo(ctx, orderNo)
	if err != nil {
		return nil, err
	}
	if order == nil || order.IdentityKey != identity.Key() {
		return nil, ErrNotFound
	}
	return order, nil
}

// QRCode 订单二维码（PNG）
func (s *OrderService) QRCode(ctx context.Context, identity Identity, orderNo string) ([]byte, error) {
	order, err := s.GetByOrderNo(ctx, identity, orderNo)
	if err != nil {
		return nil, err
	}
	size := s.cfg.QRCodeSize
	if size <= 0 {
		size = defaultQRCodeSize
	}
	content := fmt.Sprintf("%s/orders/%s", strings.TrimRight(s.cfg.QRCodeBaseURL, "/"), order.OrderNo)
	return qrcode.Encode(content, qrcode.Medium, size)
}

// AdminList 后台订单列表
func (s *OrderService) AdminList(ctx context.Context, filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orders.List(ctx, filter)
}

// AdminGet 后台订单详情
func (s *OrderService) AdminGet(ctx context.Context, orderNo string) (*models.Order, error) {
	order, err := s.orders.GetByOrderNo(ctx, strings.TrimSpace(orderNo))
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

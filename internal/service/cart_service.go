package service

import (
	"context"

	"github.com/foodkart-next/internal/models"
)

// CartView 购物车响应
type CartView struct {
	Items models.CartLines `json:"items"`
	Count int              `json:"count"`
	Total models.Money     `json:"total"`
}

// CartService 购物车服务：目录定价 + 会话内购物车操作
type CartService struct {
	sessions *CartSessions
	catalog  *CatalogService
	pricing  *PricingEngine
}

// NewCartService 创建购物车服务
func NewCartService(sessions *CartSessions, catalog *CatalogService, pricing *PricingEngine) *CartService {
	return &CartService{sessions: sessions, catalog: catalog, pricing: pricing}
}

// Get 当前购物车
func (s *CartService) Get(ctx context.Context, identity Identity) (*CartView, error) {
	var view *CartView
	err := s.sessions.With(ctx, identity, func(store *CartStore) error {
		view = s.view(store)
		return nil
	})
	return view, err
}

// AddItem 按目录价格加购
func (s *CartService) AddItem(ctx context.Context, identity Identity, restaurantID, itemID uint) (*CartView, error) {
	ref, err := s.catalog.GetMenuItem(ctx, restaurantID, itemID)
	if err != nil {
		return nil, err
	}
	input := CartItemInput{
		ItemID:         ref.Item.ID,
		Name:           ref.Item.Name,
		UnitPrice:      ref.Item.Price,
		RestaurantID:   ref.Item.RestaurantID,
		RestaurantName: ref.RestaurantName,
	}
	return s.apply(ctx, identity, func(store *CartStore) error {
		return store.AddItem(input)
	})
}

// RemoveItem 移除菜品
func (s *CartService) RemoveItem(ctx context.Context, identity Identity, itemID uint) (*CartView, error) {
	return s.apply(ctx, identity, func(store *CartStore) error {
		return store.RemoveItem(itemID)
	})
}

// UpdateQuantity 调整数量
func (s *CartService) UpdateQuantity(ctx context.Context, identity Identity, itemID uint, delta int) (*CartView, error) {
	return s.apply(ctx, identity, func(store *CartStore) error {
		return store.UpdateQuantity(itemID, delta)
	})
}

// Clear 清空购物车
func (s *CartService) Clear(ctx context.Context, identity Identity) (*CartView, error) {
	return s.apply(ctx, identity, func(store *CartStore) error {
		return store.Clear()
	})
}

func (s *CartService) apply(ctx context.Context, identity Identity, fn func(store *CartStore) error) (*CartView, error) {
	var view *CartView
	err := s.sessions.With(ctx, identity, func(store *CartStore) error {
		if err := fn(store); err != nil {
			return err
		}
		view = s.view(store)
		return nil
	})
	return view, err
}

func (s *CartService) view(store *CartStore) *CartView {
	lines := store.Lines()
	totals := s.pricing.Quote(lines, nil)
	return &CartView{Items: lines, Count: totals.ItemCount, Total: totals.Subtotal}
}

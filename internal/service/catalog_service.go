package service

import (
	"context"
	"strings"

	"github.com/foodkart-next/internal/cache"
	"github.com/foodkart-next/internal/logger"
	"github.com/foodkart-next/internal/models"
	"github.com/foodkart-next/internal/repository"
)

// RestaurantSummary 餐厅列表项
type RestaurantSummary struct {
	ID      uint    `json:"id"`
	Name    string  `json:"name"`
	Rating  float64 `json:"rating"`
	Cuisine string  `json:"cuisine"`
	Image   string  `json:"image"`
}

// MenuItemRef 菜品及所属餐厅
type MenuItemRef struct {
	Item           models.MenuItem
	RestaurantName string
}

// CatalogService 餐厅目录服务（只读部分带缓存）
type CatalogService struct {
	repo repository.RestaurantRepository
}

// NewCatalogService 创建目录服务
func NewCatalogService(repo repository.RestaurantRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// ListRestaurants 上架餐厅列表
func (s *CatalogService) ListRestaurants(ctx context.Context) ([]RestaurantSummary, error) {
	var cached []RestaurantSummary
	if hit, err := cache.GetJSON(ctx, cache.RestaurantListKey(), &cached); err == nil && hit {
		return cached, nil
	}

	restaurants, _, err := s.repo.List(repository.RestaurantListFilter{OnlyActive: true})
	if err != nil {
		return nil, err
	}
	summaries := make([]RestaurantSummary, 0, len(restaurants))
	for _, r := range restaurants {
		summaries = append(summaries, RestaurantSummary{
			ID:      r.ID,
			Name:    r.Name,
			Rating:  r.Rating,
			Cuisine: r.Cuisine,
			Image:   r.Image,
		})
	}
	if err := cache.SetJSON(ctx, cache.RestaurantListKey(), summaries, cache.CatalogTTL); err != nil {
		logger.Debugw("catalog_cache_set_failed", "key", cache.RestaurantListKey(), "error", err)
	}
	return summaries, nil
}

// GetRestaurant 餐厅详情（含上架菜品）
func (s *CatalogService) GetRestaurant(ctx context.Context, id uint) (*models.Restaurant, error) {
	if id == 0 {
		return nil, ErrRestaurantNotFound
	}
	var cached models.Restaurant
	if hit, err := cache.GetJSON(ctx, cache.RestaurantKey(id), &cached); err == nil && hit {
		return &cached, nil
	}

	restaurant, err := s.repo.GetByID(id, true)
	if err != nil {
		return nil, err
	}
	if restaurant == nil {
		return nil, ErrRestaurantNotFound
	}
	if err := cache.SetJSON(ctx, cache.RestaurantKey(id), restaurant, cache.CatalogTTL); err != nil {
		logger.Debugw("catalog_cache_set_failed", "key", cache.RestaurantKey(id), "error", err)
	}
	return restaurant, nil
}

// GetMenuItem 取在售菜品，价格以目录为准
func (s *CatalogService) GetMenuItem(ctx context.Context, restaurantID, itemID uint) (*MenuItemRef, error) {
	restaurant, err := s.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	for _, item := range restaurant.MenuItems {
		if item.ID == itemID && item.IsActive {
			return &MenuItemRef{Item: item, RestaurantName: restaurant.Name}, nil
		}
	}
	return nil, ErrMenuItemNotFound
}

// RestaurantInput 餐厅写入参数
type RestaurantInput struct {
	Name      string
	Rating    float64
	Cuisine   string
	Image     string
	IsActive  *bool
	SortOrder int
}

// MenuItemInput 菜品写入参数
type MenuItemInput struct {
	Name        string
	Price       models.Money
	Description string
	Image       string
	IsActive    *bool
	SortOrder   int
}

// AdminListRestaurants 后台餐厅列表
func (s *CatalogService) AdminListRestaurants(filter repository.RestaurantListFilter) ([]models.Restaurant, int64, error) {
	return s.repo.List(filter)
}

// AdminGetRestaurant 后台餐厅详情（含下架菜品）
func (s *CatalogService) AdminGetRestaurant(id uint) (*models.Restaurant, error) {
	restaurant, err := s.repo.GetByID(id, false)
	if err != nil {
		return nil, err
	}
	if restaurant == nil {
		return nil, ErrRestaurantNotFound
	}
	return restaurant, nil
}

// CreateRestaurant 创建餐厅
func (s *CatalogService) CreateRestaurant(ctx context.Context, input RestaurantInput) (*models.Restaurant, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.Rating < 0 || input.Rating > 5 {
		return nil, ErrCatalogInvalid
	}
	restaurant := &models.Restaurant{
		Name:      name,
		Rating:    input.Rating,
		Cuisine:   strings.TrimSpace(input.Cuisine),
		Image:     strings.TrimSpace(input.Image),
		IsActive:  boolOr(input.IsActive, true),
		SortOrder: input.SortOrder,
	}
	if err := s.repo.Create(restaurant); err != nil {
		return nil, err
	}
	s.invalidate(ctx, restaurant.ID)
	return restaurant, nil
}

// UpdateRestaurant 更新餐厅
func (s *CatalogService) UpdateRestaurant(ctx context.Context, id uint, input RestaurantInput) (*models.Restaurant, error) {
	restaurant, err := s.AdminGetRestaurant(id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" || input.Rating < 0 || input.Rating > 5 {
		return nil, ErrCatalogInvalid
	}
	restaurant.Name = name
	restaurant.Rating = input.Rating
	restaurant.Cuisine = strings.TrimSpace(input.Cuisine)
	restaurant.Image = strings.TrimSpace(input.Image)
	restaurant.IsActive = boolOr(input.IsActive, restaurant.IsActive)
	restaurant.SortOrder = input.SortOrder
	restaurant.MenuItems = nil
	if err := s.repo.Update(restaurant); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return restaurant, nil
}

// DeleteRestaurant 删除餐厅及其菜品
func (s *CatalogService) DeleteRestaurant(ctx context.Context, id uint) error {
	if _, err := s.AdminGetRestaurant(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// CreateMenuItem 新增菜品
func (s *CatalogService) CreateMenuItem(ctx context.Context, restaurantID uint, input MenuItemInput) (*models.MenuItem, error) {
	if _, err := s.AdminGetRestaurant(restaurantID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" || input.Price.Decimal.IsNegative() {
		return nil, ErrCatalogInvalid
	}
	item := &models.MenuItem{
		RestaurantID: restaurantID,
		Name:         name,
		Price:        models.NewMoneyFromDecimal(input.Price.Decimal),
		Description:  strings.TrimSpace(input.Description),
		Image:        strings.TrimSpace(input.Image),
		IsActive:     boolOr(input.IsActive, true),
		SortOrder:    input.SortOrder,
	}
	if err := s.repo.CreateMenuItem(item); err != nil {
		return nil, err
	}
	s.invalidate(ctx, restaurantID)
	return item, nil
}

// UpdateMenuItem 更新菜品；已在购物车中的行保留加购时的价格快照
func (s *CatalogService) UpdateMenuItem(ctx context.Context, restaurantID, itemID uint, input MenuItemInput) (*models.MenuItem, error) {
	item, err := s.repo.GetMenuItem(restaurantID, itemID, false)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrMenuItemNotFound
	}
	name := strings.TrimSpace(input.Name)
	if name == "" || input.Price.Decimal.IsNegative() {
		return nil, ErrCatalogInvalid
	}
	item.Name = name
	item.Price = models.NewMoneyFromDecimal(input.Price.Decimal)
	item.Description = strings.TrimSpace(input.Description)
	item.Image = strings.TrimSpace(input.Image)
	item.IsActive = boolOr(input.IsActive, item.IsActive)
	item.SortOrder = input.SortOrder
	if err := s.repo.UpdateMenuItem(item); err != nil {
		return nil, err
	}
	s.invalidate(ctx, restaurantID)
	return item, nil
}

// DeleteMenuItem 删除菜品
func (s *CatalogService) DeleteMenuItem(ctx context.Context, restaurantID, itemID uint) error {
	item, err := s.repo.GetMenuItem(restaurantID, itemID, false)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrMenuItemNotFound
	}
	if err := s.repo.DeleteMenuItem(restaurantID, itemID); err != nil {
		return err
	}
	s.invalidate(ctx, restaurantID)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, restaurantID uint) {
	if err := cache.InvalidateRestaurant(ctx, restaurantID); err != nil {
		logger.Warnw("catalog_cache_invalidate_failed", "restaurant_id", restaurantID, "error", err)
	}
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

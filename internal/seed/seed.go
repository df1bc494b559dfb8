// Package seed 写入演示用餐厅、菜单与优惠码（可重复执行）
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/foodkart-next/internal/constants"
	"github.com/foodkart-next/internal/logger"
	"github.com/foodkart-next/internal/models"
	"github.com/foodkart-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Result 本次写入统计
type Result struct {
	RestaurantsCreated int
	MenuItemsCreated   int
	PromosCreated      int
}

// LaunchPromoCode 上线活动优惠码
const LaunchPromoCode = "FK1313"

// Run 写入缺失的餐厅、菜品与优惠码；已存在的记录保持不变
func Run(ctx context.Context, db *gorm.DB, promos repository.PromoRepository) (Result, error) {
	var result Result
	if db == nil || promos == nil {
		return result, errors.New("seed requires db and promo repository")
	}
	for i, rs := range restaurantSeeds() {
		restaurant, created, err := ensureRestaurant(ctx, db, rs, i)
		if err != nil {
			return result, err
		}
		if created {
			result.RestaurantsCreated++
		}
		for j, item := range rs.Menu {
			created, err := ensureMenuItem(ctx, db, restaurant.ID, item, j)
			if err != nil {
				return result, err
			}
			if created {
				result.MenuItemsCreated++
			}
		}
	}

	created, err := ensurePromo(ctx, promos)
	if err != nil {
		return result, err
	}
	if created {
		result.PromosCreated++
	}
	logger.Infow("seed_completed",
		"restaurants_created", result.RestaurantsCreated,
		"menu_items_created", result.MenuItemsCreated,
		"promos_created", result.PromosCreated,
	)
	return result, nil
}

func ensureRestaurant(ctx context.Context, db *gorm.DB, rs restaurantSeed, sort int) (*models.Restaurant, bool, error) {
	var existing models.Restaurant
	err := db.WithContext(ctx).Where("name = ?", rs.Name).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("load restaurant %s: %w", rs.Name, err)
	}
	restaurant := &models.Restaurant{
		Name:      rs.Name,
		Rating:    rs.Rating,
		Cuisine:   rs.Cuisine,
		Image:     rs.Image,
		IsActive:  true,
		SortOrder: sort,
	}
	if err := db.WithContext(ctx).Create(restaurant).Error; err != nil {
		return nil, false, fmt.Errorf("create restaurant %s: %w", rs.Name, err)
	}
	return restaurant, true, nil
}

func ensureMenuItem(ctx context.Context, db *gorm.DB, restaurantID uint, item menuItemSeed, sort int) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.MenuItem{}).
		Where("restaurant_id = ? AND name = ?", restaurantID, item.Name).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("load menu item %s: %w", item.Name, err)
	}
	if count > 0 {
		return false, nil
	}
	price, err := decimal.NewFromString(item.Price)
	if err != nil {
		return false, fmt.Errorf("menu item %s price: %w", item.Name, err)
	}
	menuItem := &models.MenuItem{
		RestaurantID: restaurantID,
		Name:         item.Name,
		Price:        models.NewMoneyFromDecimal(price),
		Description:  item.Description,
		Image:        item.Image,
		IsActive:     true,
		SortOrder:    sort,
	}
	if err := db.WithContext(ctx).Create(menuItem).Error; err != nil {
		return false, fmt.Errorf("create menu item %s: %w", item.Name, err)
	}
	return true, nil
}

func ensurePromo(ctx context.Context, promos repository.PromoRepository) (bool, error) {
	existing, err := promos.GetByCode(ctx, LaunchPromoCode)
	if err != nil {
		return false, fmt.Errorf("load promo %s: %w", LaunchPromoCode, err)
	}
	if existing != nil {
		return false, nil
	}
	promo := &models.Promo{
		Code:        LaunchPromoCode,
		Kind:        constants.PromoKindPercentage,
		Value:       decimal.RequireFromString("0.5"),
		MaxDiscount: models.NewMoneyFromDecimal(decimal.NewFromInt(13)),
		Description: "13.13 Mega Sale 50% Off",
		IsActive:    true,
	}
	if err := promos.Create(ctx, promo); err != nil {
		return false, fmt.Errorf("create promo %s: %w", LaunchPromoCode, err)
	}
	return true, nil
}

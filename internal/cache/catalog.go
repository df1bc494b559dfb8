package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// CatalogTTL 餐厅目录与优惠码缓存时长
const CatalogTTL = 60 * time.Second

// RestaurantListKey 餐厅列表缓存键
func RestaurantListKey() string {
	return "catalog:restaurants"
}

// RestaurantKey 餐厅详情缓存键
func RestaurantKey(id uint) string {
	return fmt.Sprintf("catalog:restaurant:%d", id)
}

// PromoKey 优惠码缓存键（code 需已规范化）
func PromoKey(code string) string {
	return "promo:" + strings.ToUpper(strings.TrimSpace(code))
}

// InvalidateRestaurant 餐厅或菜单变更后清理缓存
func InvalidateRestaurant(ctx context.Context, id uint) error {
	if err := Del(ctx, RestaurantListKey()); err != nil {
		return err
	}
	return Del(ctx, RestaurantKey(id))
}

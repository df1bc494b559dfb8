package repository

import (
	"errors"

	"github.com/foodkart-next/internal/models"

	"gorm.io/gorm"
)

// RestaurantRepository 餐厅与菜品数据访问接口
type RestaurantRepository interface {
	List(filter RestaurantListFilter) ([]models.Restaurant, int64, error)
	GetByID(id uint, onlyActive bool) (*models.Restaurant, error)
	Create(restaurant *models.Restaurant) error
	Update(restaurant *models.Restaurant) error
	Delete(id uint) error
	GetMenuItem(restaurantID, itemID uint, onlyActive bool) (*models.MenuItem, error)
	CreateMenuItem(item *models.MenuItem) error
	UpdateMenuItem(item *models.MenuItem) error
	DeleteMenuItem(restaurantID, itemID uint) error
}

// GormRestaurantRepository GORM 实现
type GormRestaurantRepository struct {
	db *gorm.DB
}

// NewRestaurantRepository 创建餐厅仓库
func NewRestaurantRepository(db *gorm.DB) *GormRestaurantRepository {
	return &GormRestaurantRepository{db: db}
}

// List 餐厅列表
func (r *GormRestaurantRepository) List(filter RestaurantListFilter) ([]models.Restaurant, int64, error) {
	query := r.db.Model(&models.Restaurant{})
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	query = applyLikeSearch(query, filter.Search, "name", "cuisine")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var restaurants []models.Restaurant
	query = applyPagination(query.Order("sort_order desc, id asc"), filter.Page, filter.PageSize)
	if err := query.Find(&restaurants).Error; err != nil {
		return nil, 0, err
	}
	return restaurants, total, nil
}

// GetByID 获取餐厅详情（含菜单）
func (r *GormRestaurantRepository) GetByID(id uint, onlyActive bool) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	query := r.db.Preload("MenuItems", func(db *gorm.DB) *gorm.DB {
		if onlyActive {
			db = db.Where("is_active = ?", true)
		}
		return db.Order("sort_order desc, id asc")
	})
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	if err := query.First(&restaurant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &restaurant, nil
}

// Create 创建餐厅
func (r *GormRestaurantRepository) Create(restaurant *models.Restaurant) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		active := restaurant.IsActive
		if err := tx.Create(restaurant).Error; err != nil {
			return err
		}
		return keepInactive(tx, restaurant, active, &restaurant.IsActive)
	})
}

// Update 更新餐厅（不级联菜单）
func (r *GormRestaurantRepository) Update(restaurant *models.Restaurant) error {
	return r.db.Omit("MenuItems").Save(restaurant).Error
}

// Delete 删除餐厅及其菜单
func (r *GormRestaurantRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("restaurant_id = ?", id).Delete(&models.MenuItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Restaurant{}, id).Error
	})
}

// GetMenuItem 获取餐厅下的菜品
func (r *GormRestaurantRepository) GetMenuItem(restaurantID, itemID uint, onlyActive bool) (*models.MenuItem, error) {
	var item models.MenuItem
	query := r.db.Where("id = ? AND restaurant_id = ?", itemID, restaurantID)
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	if err := query.First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// CreateMenuItem 创建菜品
func (r *GormRestaurantRepository) CreateMenuItem(item *models.MenuItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		active := item.IsActive
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		return keepInactive(tx, item, active, &item.IsActive)
	})
}

// UpdateMenuItem 更新菜品
func (r *GormRestaurantRepository) UpdateMenuItem(item *models.MenuItem) error {
	return r.db.Save(item).Error
}

// DeleteMenuItem 删除菜品
func (r *GormRestaurantRepository) DeleteMenuItem(restaurantID, itemID uint) error {
	return r.db.Where("id = ? AND restaurant_id = ?", itemID, restaurantID).Delete(&models.MenuItem{}).Error
}

// keepInactive 创建后写回 is_active=false（default:true 会覆盖零值）
func keepInactive(tx *gorm.DB, model interface{}, active bool, field *bool) error {
	if active {
		return nil
	}
	if err := tx.Model(model).Update("is_active", false).Error; err != nil {
		return err
	}
	*field = false
	return nil
}

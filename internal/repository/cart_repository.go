package repository

import (
	"context"
	"errors"
	"time"

	"github.com/foodkart-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository 云端购物车数据访问接口
type CartRepository interface {
	// Get 返回 nil, nil 表示不存在
	Get(ctx context.Context, ownerKey string) (*models.Cart, error)
	// Save 整体覆盖写入
	Save(ctx context.Context, ownerKey string, lines models.CartLines) error
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// Get 获取购物车
func (r *GormCartRepository) Get(ctx context.Context, ownerKey string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.WithContext(ctx).Where("owner_key = ?", ownerKey).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = models.CartLines{}
	}
	return &cart, nil
}

// Save 按 owner_key 插入或覆盖
func (r *GormCartRepository) Save(ctx context.Context, ownerKey string, lines models.CartLines) error {
	now := time.Now()
	cart := models.Cart{
		OwnerKey:  ownerKey,
		Items:     lines.Clone(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"items", "updated_at"}),
	}).Create(&cart).Error
}

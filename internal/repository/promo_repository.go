package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/foodkart-next/internal/models"

	"gorm.io/gorm"
)

// PromoRepository 优惠码数据访问接口（以优惠码为键）
type PromoRepository interface {
	// GetByCode 返回 nil, nil 表示不存在
	GetByCode(ctx context.Context, code string) (*models.Promo, error)
	List(ctx context.Context, filter PromoListFilter) ([]models.Promo, int64, error)
	Create(ctx context.Context, promo *models.Promo) error
	Update(ctx context.Context, promo *models.Promo) error
	Delete(ctx context.Context, code string) error
}

// GormPromoRepository GORM 实现
type GormPromoRepository struct {
	db *gorm.DB
}

// NewPromoRepository 创建优惠码仓库
func NewPromoRepository(db *gorm.DB) *GormPromoRepository {
	return &GormPromoRepository{db: db}
}

// GetByCode 根据优惠码获取
func (r *GormPromoRepository) GetByCode(ctx context.Context, code string) (*models.Promo, error) {
	var promo models.Promo
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&promo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promo, nil
}

// List 优惠码列表
func (r *GormPromoRepository) List(ctx context.Context, filter PromoListFilter) ([]models.Promo, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Promo{})
	query = applyLikeSearch(query, strings.ToUpper(filter.Search), "code")
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var promos []models.Promo
	query = applyPagination(query.Order("id desc"), filter.Page, filter.PageSize)
	if err := query.Find(&promos).Error; err != nil {
		return nil, 0, err
	}
	return promos, total, nil
}

// Create 创建优惠码
func (r *GormPromoRepository) Create(ctx context.Context, promo *models.Promo) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// is_active 有默认值，Create 会回填 true，需先记下期望值
		active := promo.IsActive
		if err := tx.Create(promo).Error; err != nil {
			return err
		}
		return keepInactive(tx, promo, active, &promo.IsActive)
	})
}

// Update 更新优惠码
func (r *GormPromoRepository) Update(ctx context.Context, promo *models.Promo) error {
	return r.db.WithContext(ctx).Save(promo).Error
}

// Delete 删除优惠码
func (r *GormPromoRepository) Delete(ctx context.Context, code string) error {
	return r.db.WithContext(ctx).Where("code = ?", code).Delete(&models.Promo{}).Error
}

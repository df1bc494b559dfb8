package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/foodkart-next/internal/cache"
	"github.com/foodkart-next/internal/constants"
	"github.com/foodkart-next/internal/logger"
	"github.com/foodkart-next/internal/models"
	"github.com/foodkart-next/internal/repository"

	"github.com/shopspring/decimal"
)

// PromoService 优惠码解析与管理
type PromoService struct {
	repo repository.PromoRepository
}

// NewPromoService 创建优惠码服务
func NewPromoService(repo repository.PromoRepository) *PromoService {
	return &PromoService{repo: repo}
}

// NormalizePromoCode 去空白并转大写
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ResolvePromo 解析优惠码
// found=false 表示不存在或已停用；查询失败返回 ErrPromoLookupFailed，两者需区分
func (s *PromoService) ResolvePromo(ctx context.Context, code string) (*DiscountRule, bool, error) {
	normalized := NormalizePromoCode(code)
	if normalized == "" {
		return nil, false, nil
	}

	var cached DiscountRule
	hit, err := cache.GetJSON(ctx, cache.PromoKey(normalized), &cached)
	if err != nil {
		logger.Debugw("promo_cache_get_failed", "code", normalized, "error", err)
	} else if hit {
		return &cached, true, nil
	}

	promo, err := s.repo.GetByCode(ctx, normalized)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrPromoLookupFailed, err)
	}
	if promo == nil || !promo.IsActive {
		return nil, false, nil
	}
	rule, err := ruleFromPromo(promo)
	if err != nil {
		logger.Warnw("promo_rule_invalid", "code", normalized, "error", err)
		return nil, false, nil
	}
	if err := cache.SetJSON(ctx, cache.PromoKey(normalized), rule, cache.CatalogTTL); err != nil {
		logger.Debugw("promo_cache_set_failed", "code", normalized, "error", err)
	}
	return rule, true, nil
}

func ruleFromPromo(promo *models.Promo) (*DiscountRule, error) {
	if err := validatePromoValues(promo.Kind, promo.Value, promo.MaxDiscount.Decimal); err != nil {
		return nil, err
	}
	rule := &DiscountRule{
		Code:        NormalizePromoCode(promo.Code),
		Kind:        promo.Kind,
		Value:       promo.Value,
		Description: promo.Description,
	}
	if promo.Kind == constants.PromoKindPercentage && promo.MaxDiscount.Decimal.IsPositive() {
		rule.Cap = decimal.NewNullDecimal(promo.MaxDiscount.Decimal)
	}
	return rule, nil
}

func validatePromoValues(kind string, value, maxDiscount decimal.Decimal) error {
	switch kind {
	case constants.PromoKindPercentage:
		if !value.IsPositive() || value.GreaterThan(decimal.NewFromInt(1)) {
			return ErrPromoInvalid
		}
	case constants.PromoKindFlat:
		if !value.IsPositive() {
			return ErrPromoInvalid
		}
	default:
		return ErrPromoInvalid
	}
	if maxDiscount.IsNegative() {
		return ErrPromoInvalid
	}
	return nil
}

// PromoInput 创建/更新优惠码输入
type PromoInput struct {
	Code        string
	Kind        string
	Value       decimal.Decimal
	MaxDiscount models.Money
	Description string
	IsActive    *bool
}

// ListPromos 优惠码列表
func (s *PromoService) ListPromos(ctx context.Context, filter repository.PromoListFilter) ([]models.Promo, int64, error) {
	return s.repo.List(ctx, filter)
}

// GetPromo 优惠码详情
func (s *PromoService) GetPromo(ctx context.Context, code string) (*models.Promo, error) {
	promo, err := s.repo.GetByCode(ctx, NormalizePromoCode(code))
	if err != nil {
		return nil, err
	}
	if promo == nil {
		return nil, ErrPromoNotFound
	}
	return promo, nil
}

// CreatePromo 创建优惠码
func (s *PromoService) CreatePromo(ctx context.Context, input PromoInput) (*models.Promo, error) {
	code := NormalizePromoCode(input.Code)
	if code == "" {
		return nil, ErrPromoInvalid
	}
	kind := strings.ToLower(strings.TrimSpace(input.Kind))
	if err := validatePromoValues(kind, input.Value, input.MaxDiscount.Decimal); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrPromoCodeExists
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	promo := &models.Promo{
		Code:        code,
		Kind:        kind,
		Value:       input.Value,
		MaxDiscount: models.NewMoneyFromDecimal(input.MaxDiscount.Decimal),
		Description: strings.TrimSpace(input.Description),
		IsActive:    isActive,
	}
	if err := s.repo.Create(ctx, promo); err != nil {
		return nil, err
	}
	s.invalidate(ctx, code)
	return promo, nil
}

// UpdatePromo 更新优惠码（优惠码本身不可修改）
func (s *PromoService) UpdatePromo(ctx context.Context, code string, input PromoInput) (*models.Promo, error) {
	promo, err := s.GetPromo(ctx, code)
	if err != nil {
		return nil, err
	}
	kind := strings.ToLower(strings.TrimSpace(input.Kind))
	if err := validatePromoValues(kind, input.Value, input.MaxDiscount.Decimal); err != nil {
		return nil, err
	}
	promo.Kind = kind
	promo.Value = input.Value
	promo.MaxDiscount = models.NewMoneyFromDecimal(input.MaxDiscount.Decimal)
	promo.Description = strings.TrimSpace(input.Description)
	if input.IsActive != nil {
		promo.IsActive = *input.IsActive
	}
	if err := s.repo.Update(ctx, promo); err != nil {
		return nil, err
	}
	s.invalidate(ctx, promo.Code)
	return promo, nil
}

// DeletePromo 删除优惠码
func (s *PromoService) DeletePromo(ctx context.Context, code string) error {
	promo, err := s.GetPromo(ctx, code)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, promo.Code); err != nil {
		return err
	}
	s.invalidate(ctx, promo.Code)
	return nil
}

func (s *PromoService) invalidate(ctx context.Context, code string) {
	if err := cache.Del(ctx, cache.PromoKey(code)); err != nil {
		logger.Warnw("promo_cache_invalidate_failed", "code", code, "error", err)
	}
}

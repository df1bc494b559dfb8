package service

import (
	"fmt"
	"strings"

	"github.com/foodkart-next/internal/config"
	"github.com/foodkart-next/internal/constants"
	"github.com/foodkart-next/internal/models"

	"github.com/shopspring/decimal"
)

const (
	defaultTaxRate     = "0.10"
	defaultDeliveryFee = "2.99"
)

// DiscountRule 已解析的优惠规则
type DiscountRule struct {
	Code        string              `json:"code"`
	Kind        string              `json:"kind"`
	Value       decimal.Decimal     `json:"value"`
	Cap         decimal.NullDecimal `json:"cap"`
	Description string              `json:"description"`
}

// PricedTotals 报价结果，各分项均已保留两位小数
type PricedTotals struct {
	Subtotal    models.Money `json:"subtotal"`
	Tax         models.Money `json:"tax"`
	DeliveryFee models.Money `json:"delivery_fee"`
	Discount    models.Money `json:"discount"`
	GrandTotal  models.Money `json:"grand_total"`
	ItemCount   int          `json:"item_count"`
	AppliedCode string       `json:"applied_code,omitempty"`
}

// PricingEngine 纯函数计价
type PricingEngine struct {
	taxRate     decimal.Decimal
	deliveryFee decimal.Decimal
}

// NewPricingEngine 根据配置创建计价器
func NewPricingEngine(cfg config.PricingConfig) (*PricingEngine, error) {
	taxRate, err := parseRate(cfg.TaxRate, defaultTaxRate)
	if err != nil {
		return nil, fmt.Errorf("invalid pricing.tax_rate: %w", err)
	}
	deliveryFee, err := parseRate(cfg.DeliveryFee, defaultDeliveryFee)
	if err != nil {
		return nil, fmt.Errorf("invalid pricing.delivery_fee: %w", err)
	}
	if taxRate.IsNegative() || deliveryFee.IsNegative() {
		return nil, fmt.Errorf("pricing values must not be negative")
	}
	return &PricingEngine{taxRate: taxRate, deliveryFee: deliveryFee}, nil
}

func parseRate(raw, fallback string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = fallback
	}
	return decimal.NewFromString(raw)
}

// Quote 计算报价；rule 为 nil 表示不使用优惠
func (e *PricingEngine) Quote(lines models.CartLines, rule *DiscountRule) PricedTotals {
	subtotal := decimal.Zero
	count := 0
	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity))))
		count += line.Quantity
	}
	subtotal = subtotal.Round(2)

	tax := subtotal.Mul(e.taxRate).Round(2)
	delivery := decimal.Zero
	if len(lines) > 0 {
		delivery = e.deliveryFee.Round(2)
	}
	discount := computeDiscount(subtotal, rule).Round(2)

	grand := subtotal.Add(tax).Add(delivery).Sub(discount)
	if grand.IsNegative() {
		grand = decimal.Zero
	}

	totals := PricedTotals{
		Subtotal:    models.NewMoneyFromDecimal(subtotal),
		Tax:         models.NewMoneyFromDecimal(tax),
		DeliveryFee: models.NewMoneyFromDecimal(delivery),
		Discount:    models.NewMoneyFromDecimal(discount),
		GrandTotal:  models.NewMoneyFromDecimal(grand),
		ItemCount:   count,
	}
	if rule != nil {
		totals.AppliedCode = rule.Code
	}
	return totals
}

func computeDiscount(subtotal decimal.Decimal, rule *DiscountRule) decimal.Decimal {
	if rule == nil {
		return decimal.Zero
	}
	switch rule.Kind {
	case constants.PromoKindPercentage:
		amount := subtotal.Mul(rule.Value)
		if rule.Cap.Valid && amount.GreaterThan(rule.Cap.Decimal) {
			amount = rule.Cap.Decimal
		}
		return amount
	case constants.PromoKindFlat:
		return rule.Value
	default:
		return decimal.Zero
	}
}

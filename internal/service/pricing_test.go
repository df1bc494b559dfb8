package service

import (
	"errors"
	"testing"

	"github.com/foodkart-next/internal/config"
	"github.com/foodkart-next/internal/constants"
	"github.com/foodkart-next/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPricing(t *testing.T) *PricingEngine {
	t.Helper()
	engine, err := NewPricingEngine(config.PricingConfig{})
	require.NoError(t, err)
	return engine
}

func linesOf(price string, qty int) models.CartLines {
	return models.CartLines{{ItemID: 1, Name: "Item", UnitPrice: money(price), Quantity: qty, RestaurantID: 1}}
}

func TestQuoteEmptyCart(t *testing.T) {
	totals := newTestPricing(t).Quote(models.CartLines{}, nil)
	assert.Equal(t, "0.00", totals.Subtotal.String())
	assert.Equal(t, "0.00", totals.DeliveryFee.String(), "delivery applies only to non-empty carts")
	assert.Equal(t, "0.00", totals.GrandTotal.String())
	assert.Equal(t, 0, totals.ItemCount)
}

func TestQuoteWithoutPromo(t *testing.T) {
	totals := newTestPricing(t).Quote(models.CartLines{
		{ItemID: 1, UnitPrice: money("5.99"), Quantity: 2},
		{ItemID: 2, UnitPrice: money("2.49"), Quantity: 1},
	}, nil)
	assert.Equal(t, "14.47", totals.Subtotal.String())
	assert.Equal(t, "1.45", totals.Tax.String())
	assert.Equal(t, "2.99", totals.DeliveryFee.String())
	assert.Equal(t, "0.00", totals.Discount.String())
	assert.Equal(t, "18.91", totals.GrandTotal.String())
	assert.Equal(t, 3, totals.ItemCount)
	assert.Empty(t, totals.AppliedCode)
}

func TestQuotePercentagePromoIsCapped(t *testing.T) {
	engine := newTestPricing(t)
	rule := &DiscountRule{
		Code:  "TENOFF",
		Kind:  constants.PromoKindPercentage,
		Value: decimal.RequireFromString("0.10"),
		Cap:   decimal.NewNullDecimal(decimal.RequireFromString("1")),
	}
	totals := engine.Quote(linesOf("10.00", 1), rule)
	assert.Equal(t, "1.00", totals.Tax.String())
	assert.Equal(t, "1.00", totals.Discount.String())
	assert.Equal(t, "12.99", totals.GrandTotal.String())
	assert.Equal(t, "TENOFF", totals.AppliedCode)

	big := engine.Quote(linesOf("100.00", 1), rule)
	assert.Equal(t, "1.00", big.Discount.String(), "percentage discount never exceeds its cap")
}

func TestQuotePercentageWithoutCap(t *testing.T) {
	rule := &DiscountRule{Code: "HALF", Kind: constants.PromoKindPercentage, Value: decimal.RequireFromString("0.5")}
	totals := newTestPricing(t).Quote(linesOf("100.00", 1), rule)
	assert.Equal(t, "50.00", totals.Discount.String())
	assert.Equal(t, "62.99", totals.GrandTotal.String())
}

func TestQuoteFlatPromoClampsToZero(t *testing.T) {
	rule := &DiscountRule{Code: "FIVE", Kind: constants.PromoKindFlat, Value: decimal.RequireFromString("5")}
	engine := newTestPricing(t)

	totals := engine.Quote(linesOf("3.00", 1), rule)
	assert.Equal(t, "0.30", totals.Tax.String())
	assert.Equal(t, "5.00", totals.Discount.String())
	assert.Equal(t, "1.29", totals.GrandTotal.String())

	tiny := engine.Quote(linesOf("1.00", 1), &DiscountRule{Code: "BIG", Kind: constants.PromoKindFlat, Value: decimal.RequireFromString("50")})
	assert.Equal(t, "0.00", tiny.GrandTotal.String(), "grand total never goes negative")
}

func TestQuoteUsesConfiguredRates(t *testing.T) {
	engine, err := NewPricingEngine(config.PricingConfig{TaxRate: "0.08", DeliveryFee: "0"})
	require.NoError(t, err)
	totals := engine.Quote(linesOf("10.00", 2), nil)
	assert.Equal(t, "1.60", totals.Tax.String())
	assert.Equal(t, "0.00", totals.DeliveryFee.String())
	assert.Equal(t, "21.60", totals.GrandTotal.String())

	_, err = NewPricingEngine(config.PricingConfig{TaxRate: "abc"})
	assert.Error(t, err)
	_, err = NewPricingEngine(config.PricingConfig{DeliveryFee: "-1"})
	assert.Error(t, err)
}

func TestAmountConfirmationGate(t *testing.T) {
	gate := NewAmountConfirmationGate()
	totals := PricedTotals{GrandTotal: money("12.99")}

	require.NoError(t, gate.Confirm(totals, "12.99"))
	require.NoError(t, gate.Confirm(totals, " $12.990 "))

	err := gate.Confirm(totals, "12.98")
	require.True(t, errors.Is(err, ErrConfirmationMismatch))
	var mismatch *ConfirmationMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "12.99", mismatch.Expected)

	assert.True(t, errors.Is(gate.Confirm(totals, "twelve"), ErrConfirmationMismatch))
}

package docstore

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/foodkart-next/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineDocsRoundTrip(t *testing.T) {
	lines := models.CartLines{{
		ItemID:         303,
		Name:           "Miso Soup",
		UnitPrice:      models.NewMoneyFromDecimal(decimal.RequireFromString("3.49")),
		Quantity:       2,
		RestaurantID:   3,
		RestaurantName: "Sushi House",
	}}
	docs := toLineDocs(lines)
	require.Len(t, docs, 1)
	assert.Equal(t, 3.49, docs[0].Price)
	assert.EqualValues(t, 303, docs[0].ItemID)

	back := fromLineDocs(docs)
	require.Len(t, back, 1)
	assert.Equal(t, "3.49", back[0].UnitPrice.String())
	assert.Equal(t, lines[0].RestaurantName, back[0].RestaurantName)
}

func TestFromLineDocsDropsInvalidLines(t *testing.T) {
	lines := fromLineDocs([]lineDoc{
		{ItemID: 0, Quantity: 1},
		{ItemID: 5, Quantity: 0},
		{ItemID: 6, Quantity: 1, Price: 1.99},
	})
	require.Len(t, lines, 1)
	assert.EqualValues(t, 6, lines[0].ItemID)
}

func TestOrderDocRoundTrip(t *testing.T) {
	order := &models.Order{
		OrderNo:     "482913",
		IdentityKey: "user:9",
		UserID:      9,
		UserName:    "Guest User",
		Status:      "confirmed",
		Subtotal:    models.NewMoneyFromDecimal(decimal.RequireFromString("10.00")),
		Tax:         models.NewMoneyFromDecimal(decimal.RequireFromString("1.00")),
		DeliveryFee: models.NewMoneyFromDecimal(decimal.RequireFromString("2.99")),
		Discount:    models.NewMoneyFromDecimal(decimal.RequireFromString("1.00")),
		Total:       models.NewMoneyFromDecimal(decimal.RequireFromString("12.99")),
		PromoCode:   "FK1313",
		Items: []models.OrderItem{{
			ItemID: 101, Name: "Whopper", Quantity: 2, RestaurantID: 1, RestaurantName: "Burger King",
			UnitPrice: models.NewMoneyFromDecimal(decimal.RequireFromString("5.00")),
		}},
	}
	doc := toOrderDoc(order)
	assert.True(t, doc.CreatedAt.IsZero(), "createdAt is left for the server timestamp")
	assert.Equal(t, 12.99, doc.Total)

	doc.CreatedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	back := fromOrderDoc(doc)
	assert.Equal(t, "482913", back.OrderNo)
	assert.Equal(t, "12.99", back.Total.String())
	require.Len(t, back.Items, 1)
	assert.Equal(t, "10.00", back.Items[0].LineTotal.String())
	assert.Equal(t, doc.CreatedAt, back.CreatedAt)
}

func TestPromoDocDefaultsToActive(t *testing.T) {
	promo := fromPromoDoc(promoDoc{Code: "FK1313", Kind: "percentage", Value: 0.5, MaxDiscount: 13})
	assert.True(t, promo.IsActive)
	assert.True(t, promo.Value.Equal(decimal.RequireFromString("0.5")))
	assert.Equal(t, "13.00", promo.MaxDiscount.String())

	inactive := false
	assert.False(t, fromPromoDoc(promoDoc{Code: "OLD", Active: &inactive}).IsActive)

	doc := toPromoDoc(&models.Promo{Code: "FLAT5", Kind: "flat", Value: decimal.NewFromInt(5), IsActive: true})
	require.NotNil(t, doc.Active)
	assert.True(t, *doc.Active)
	assert.Equal(t, 5.0, doc.Value)
}

func TestCollectionsPrefix(t *testing.T) {
	assert.Equal(t, "carts", NewCollections("").Carts())
	assert.Equal(t, "staging_orders", NewCollections(" staging ").Orders())
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{3, 4}, paginate(items, 2, 2))
	assert.Equal(t, []int{}, paginate(items, 4, 2))
	assert.Equal(t, items, paginate(items, 1, 0))
}

func TestOrderDocKeepsOrderNoAsQueryField(t *testing.T) {
	field, ok := reflect.TypeOf(orderDoc{}).FieldByName("OrderNo")
	require.True(t, ok)
	tag := strings.Split(field.Tag.Get("firestore"), ",")[0]
	assert.Equal(t, orderNoField, tag, "order lookups query the stored orderNo field")

	doc := toOrderDoc(&models.Order{OrderNo: "100042"})
	assert.Equal(t, "100042", doc.OrderNo)
}

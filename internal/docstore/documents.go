package docstore

import (
	"time"

	"github.com/foodkart-next/internal/models"

	"github.com/shopspring/decimal"
)

type lineDoc struct {
	ItemID         int64   `firestore:"id"`
	Name           string  `firestore:"name"`
	Price          float64 `firestore:"price"`
	Quantity       int64   `firestore:"quantity"`
	RestaurantID   int64   `firestore:"restaurantId"`
	RestaurantName string  `firestore:"restaurantName"`
}

type cartDoc struct {
	Items     []lineDoc `firestore:"items"`
	UpdatedAt time.Time `firestore:"updatedAt,serverTimestamp"`
}

type orderDoc struct {
	OrderNo     string    `firestore:"orderNo"`
	IdentityKey string    `firestore:"identityKey"`
	UserID      int64     `firestore:"userId"`
	UserName    string    `firestore:"userName"`
	Items       []lineDoc `firestore:"items"`
	Subtotal    float64   `firestore:"subtotal"`
	Tax         float64   `firestore:"tax"`
	DeliveryFee float64   `firestore:"deliveryFee"`
	Discount    float64   `firestore:"discount"`
	Total       float64   `firestore:"total"`
	PromoCode   string    `firestore:"promoCode,omitempty"`
	Status      string    `firestore:"status"`
	CreatedAt   time.Time `firestore:"createdAt,serverTimestamp"`
}

type promoDoc struct {
	Code        string  `firestore:"code"`
	Kind        string  `firestore:"type"`
	Value       float64 `firestore:"value"`
	MaxDiscount float64 `firestore:"maxDiscount,omitempty"`
	Description string  `firestore:"description"`
	// 缺省视为启用
	Active *bool `firestore:"active,omitempty"`
}

func moneyToFloat(m models.Money) float64 {
	f, _ := m.Decimal.Round(2).Float64()
	return f
}

func floatToMoney(f float64) models.Money {
	return models.NewMoneyFromDecimal(decimal.NewFromFloat(f))
}

func toLineDocs(lines models.CartLines) []lineDoc {
	docs := make([]lineDoc, 0, len(lines))
	for _, line := range lines {
		docs = append(docs, lineDoc{
			ItemID:         int64(line.ItemID),
			Name:           line.Name,
			Price:          moneyToFloat(line.UnitPrice),
			Quantity:       int64(line.Quantity),
			RestaurantID:   int64(line.RestaurantID),
			RestaurantName: line.RestaurantName,
		})
	}
	return docs
}

// fromLineDocs 丢弃 id 非法或数量 < 1 的行
func fromLineDocs(docs []lineDoc) models.CartLines {
	lines := make(models.CartLines, 0, len(docs))
	for _, doc := range docs {
		if doc.ItemID <= 0 || doc.Quantity < 1 {
			continue
		}
		lines = append(lines, models.CartLine{
			ItemID:         uint(doc.ItemID),
			Name:           doc.Name,
			UnitPrice:      floatToMoney(doc.Price),
			Quantity:       int(doc.Quantity),
			RestaurantID:   uint(doc.RestaurantID),
			RestaurantName: doc.RestaurantName,
		})
	}
	return lines
}

func toOrderDoc(order *models.Order) orderDoc {
	lines := make(models.CartLines, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, models.CartLine{
			ItemID:         item.ItemID,
			Name:           item.Name,
			UnitPrice:      item.UnitPrice,
			Quantity:       item.Quantity,
			RestaurantID:   item.RestaurantID,
			RestaurantName: item.RestaurantName,
		})
	}
	return orderDoc{
		OrderNo:     order.OrderNo,
		IdentityKey: order.IdentityKey,
		UserID:      int64(order.UserID),
		UserName:    order.UserName,
		Items:       toLineDocs(lines),
		Subtotal:    moneyToFloat(order.Subtotal),
		Tax:         moneyToFloat(order.Tax),
		DeliveryFee: moneyToFloat(order.DeliveryFee),
		Discount:    moneyToFloat(order.Discount),
		Total:       moneyToFloat(order.Total),
		PromoCode:   order.PromoCode,
		Status:      order.Status,
	}
}

func fromOrderDoc(doc orderDoc) *models.Order {
	order := &models.Order{
		OrderNo:     doc.OrderNo,
		IdentityKey: doc.IdentityKey,
		UserID:      uint(doc.UserID),
		UserName:    doc.UserName,
		Status:      doc.Status,
		Subtotal:    floatToMoney(doc.Subtotal),
		Tax:         floatToMoney(doc.Tax),
		DeliveryFee: floatToMoney(doc.DeliveryFee),
		Discount:    floatToMoney(doc.Discount),
		Total:       floatToMoney(doc.Total),
		PromoCode:   doc.PromoCode,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.CreatedAt,
	}
	for _, line := range fromLineDocs(doc.Items) {
		order.Items = append(order.Items, models.OrderItem{
			ItemID:         line.ItemID,
			Name:           line.Name,
			UnitPrice:      line.UnitPrice,
			Quantity:       line.Quantity,
			LineTotal:      models.NewMoneyFromDecimal(line.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity)))),
			RestaurantID:   line.RestaurantID,
			RestaurantName: line.RestaurantName,
			CreatedAt:      doc.CreatedAt,
		})
	}
	return order
}

func toPromoDoc(promo *models.Promo) promoDoc {
	value, _ := promo.Value.Float64()
	active := promo.IsActive
	return promoDoc{
		Code:        promo.Code,
		Kind:        promo.Kind,
		Value:       value,
		MaxDiscount: moneyToFloat(promo.MaxDiscount),
		Description: promo.Description,
		Active:      &active,
	}
}

func fromPromoDoc(doc promoDoc) *models.Promo {
	active := true
	if doc.Active != nil {
		active = *doc.Active
	}
	return &models.Promo{
		Code:        doc.Code,
		Kind:        doc.Kind,
		Value:       decimal.NewFromFloat(doc.Value),
		MaxDiscount: floatToMoney(doc.MaxDiscount),
		Description: doc.Description,
		IsActive:    active,
	}
}

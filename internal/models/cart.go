package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// CartLine 购物车行（同一 ItemID 仅一行，数量 >= 1）
type CartLine struct {
	ItemID         uint   `json:"item_id"`
	Name           string `json:"name"`
	UnitPrice      Money  `json:"unit_price"`
	Quantity       int    `json:"quantity"`
	RestaurantID   uint   `json:"restaurant_id"`
	RestaurantName string `json:"restaurant_name"`
}

// CartLines 购物车行集合，以 JSON 存储
type CartLines []CartLine

// Value 实现 driver.Valuer 接口
func (l CartLines) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan 实现 sql.Scanner 接口
func (l *CartLines) Scan(value interface{}) error {
	if value == nil {
		*l = CartLines{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported cart lines type: %T", value)
	}
	if len(raw) == 0 {
		*l = CartLines{}
		return nil
	}
	return json.Unmarshal(raw, l)
}

// Clone 深拷贝
func (l CartLines) Clone() CartLines {
	if l == nil {
		return CartLines{}
	}
	out := make(CartLines, len(l))
	copy(out, l)
	return out
}

// Cart 云端购物车（每个归属身份一条记录）
type Cart struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                    // 主键
	OwnerKey  string    `gorm:"type:varchar(191);uniqueIndex;not null" json:"owner_key"` // 归属身份（user:<id>）
	Items     CartLines `gorm:"type:json;not null" json:"items"`                          // 购物车行
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                                  // 更新时间
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}

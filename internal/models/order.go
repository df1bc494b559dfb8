package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表（下单后不可变）
type Order struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                       // 主键
	OrderNo     string         `gorm:"type:varchar(32);uniqueIndex;not null" json:"order_no"`       // 订单编号（6 位数字）
	IdentityKey string         `gorm:"type:varchar(191);index;not null" json:"identity_key"`        // 下单身份
	UserID      uint           `gorm:"index;not null;default:0" json:"user_id,omitempty"`           // 用户ID（游客订单为 0）
	UserName    string         `gorm:"type:varchar(120)" json:"user_name"`                          // 下单人称呼
	Status      string         `gorm:"index;not null" json:"status"`                                // 订单状态
	Subtotal    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`       // 商品小计
	Tax         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"tax"`            // 税费
	DeliveryFee Money          `gorm:"type:decimal(20,2);not null;default:0" json:"delivery_fee"`   // 配送费
	Discount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount"`       // 优惠金额
	Total       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total"`          // 实付金额
	PromoCode   string         `gorm:"type:varchar(64);index" json:"promo_code,omitempty"`          // 优惠码
	ClientIP    string         `gorm:"type:varchar(64)" json:"client_ip,omitempty"`                 // 下单客户端IP
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                                     // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// OrderItem 订单项表（购物车行快照）
type OrderItem struct {
	ID             uint      `gorm:"primarykey" json:"id"`                                       // 主键
	OrderID        uint      `gorm:"index;not null" json:"order_id"`                             // 订单ID
	ItemID         uint      `gorm:"index;not null" json:"item_id"`                              // 菜品ID
	Name           string    `gorm:"not null" json:"name"`                                       // 菜品名称快照
	UnitPrice      Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`    // 单价
	Quantity       int       `gorm:"not null" json:"quantity"`                                   // 数量
	LineTotal      Money     `gorm:"type:decimal(20,2);not null;default:0" json:"line_total"`    // 小计
	RestaurantID   uint      `gorm:"index;not null" json:"restaurant_id"`                        // 餐厅ID
	RestaurantName string    `gorm:"type:varchar(191)" json:"restaurant_name"`                   // 餐厅名称快照
	CreatedAt      time.Time `gorm:"index" json:"created_at"`                                    // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

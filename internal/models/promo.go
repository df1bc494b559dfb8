package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Promo 优惠码
type Promo struct {
	ID          uint            `gorm:"primarykey" json:"id"`                                      // 主键
	Code        string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`         // 优惠码（大写）
	Kind        string          `gorm:"type:varchar(20);not null" json:"kind"`                     // 类型（percentage/flat）
	Value       decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"value"`                  // 比例或固定金额
	MaxDiscount Money           `gorm:"type:decimal(20,2);not null;default:0" json:"max_discount"` // 折扣上限（0 表示不限）
	Description string          `gorm:"type:varchar(255)" json:"description"`                      // 说明
	IsActive    bool            `gorm:"not null;default:true" json:"is_active"`                    // 是否启用
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt   time.Time       `gorm:"index" json:"updated_at"`                                   // 更新时间
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`                                            // 软删除时间
}

// TableName 指定表名
func (Promo) TableName() string {
	return "promos"
}

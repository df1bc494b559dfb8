package models

import (
	"time"

	"gorm.io/gorm"
)

// Restaurant 餐厅表
type Restaurant struct {
	ID        uint           `gorm:"primarykey" json:"id"`                   // 主键
	Name      string         `gorm:"not null;index" json:"name"`             // 餐厅名称
	Rating    float64        `gorm:"not null;default:0" json:"rating"`       // 评分
	Cuisine   string         `gorm:"type:varchar(120)" json:"cuisine"`       // 菜系
	Image     string         `gorm:"type:varchar(500)" json:"image"`         // 封面图
	IsActive  bool           `gorm:"not null;default:true" json:"is_active"` // 是否上架
	SortOrder int            `gorm:"not null;default:0" json:"sort_order"`   // 排序
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`                // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                         // 软删除时间

	MenuItems []MenuItem `gorm:"foreignKey:RestaurantID" json:"menu,omitempty"` // 菜单
}

// TableName 指定表名
func (Restaurant) TableName() string {
	return "restaurants"
}

// MenuItem 菜品表
type MenuItem struct {
	ID           uint           `gorm:"primarykey" json:"id"`                              // 主键
	RestaurantID uint           `gorm:"index;not null" json:"restaurant_id"`               // 所属餐厅
	Name         string         `gorm:"not null" json:"name"`                              // 菜品名称
	Price        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 单价
	Description  string         `gorm:"type:text" json:"description"`                      // 描述
	Image        string         `gorm:"type:varchar(500)" json:"image"`                    // 图片
	IsActive     bool           `gorm:"not null;default:true" json:"is_active"`            // 是否在售
	SortOrder    int            `gorm:"not null;default:0" json:"sort_order"`              // 排序
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                           // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                           // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                    // 软删除时间
}

// TableName 指定表名
func (MenuItem) TableName() string {
	return "menu_items"
}

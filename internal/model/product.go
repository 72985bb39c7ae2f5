package model

import (
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// 商品状态常量
const (
	ProductStatusActive   = "active"   // 在售
	ProductStatusInactive = "inactive" // 下架
)

// Product 商品
type Product struct {
	BaseModel
	AuditMixin

	// 店铺 ID (多店铺隔离核心)
	ShopID int64 `gorm:"index:idx_shop_status;uniqueIndex:idx_shop_sku;not null"`
	Shop   *Shop `gorm:"foreignKey:ShopID"`

	// 联合唯一索引，SKU 唯一性限定在店铺内
	SKU string `gorm:"size:100;uniqueIndex:idx_shop_sku"`

	// --- 商品基本信息 ---
	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`
	Status      string `gorm:"size:20;index:idx_shop_status;default:'active'"`

	// --- 价格与库存 ---
	// 金额以分为单位存储
	PriceAmount int64  `gorm:"default:0"`
	Currency    string `gorm:"size:10;default:'USD'"`
	Stock       int    `gorm:"default:0"`

	// --- 数组/标签类数据 (Postgres Array) ---
	Tags pq.StringArray `gorm:"type:text[]"`

	// --- 图片 (PostgreSQL JSONB) ---
	Images datatypes.JSON `gorm:"type:jsonb"`

	// --- 评价汇总，评价审核通过后回写 ---
	ReviewCount   int     `gorm:"default:0"`
	ReviewAverage float64 `gorm:"type:decimal(3,1);default:0"`
}

func (Product) TableName() string {
	return "products"
}

// GetPrice 获取价格（元）
func (p *Product) GetPrice() float64 {
	return float64(p.PriceAmount) / 100
}

// InStock 是否有足够库存
func (p *Product) InStock(quantity int) bool {
	return p.Stock >= quantity
}

// IsActive 是否在售
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

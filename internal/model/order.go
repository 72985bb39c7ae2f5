package model

import (
	"time"

	"gorm.io/datatypes"
)

// ==================== 订单状态常量 ====================

// OrderStatus 订单状态
const (
	OrderStatusPending    = "pending"    // 待处理
	OrderStatusProcessing = "processing" // 处理中（已接单）
	OrderStatusShipped    = "shipped"    // 已发货
	OrderStatusDelivered  = "delivered"  // 已签收
	OrderStatusCanceled   = "canceled"   // 已取消
)

// ==================== Order 订单主表 ====================

// Order 订单
type Order struct {
	BaseModel
	ShopID int64 `gorm:"index;not null"`
	Shop   *Shop `gorm:"foreignKey:ShopID"`

	// 买家信息
	BuyerID    int64  `gorm:"index;not null"`
	Buyer      *User  `gorm:"foreignKey:BuyerID"`
	BuyerNote  string `gorm:"type:text"`
	StaffNote  string `gorm:"type:text"`

	// 状态
	Status string `gorm:"size:32;index;default:pending"`

	// 收货地址（PostgreSQL JSONB）
	ShippingAddress datatypes.JSONMap `gorm:"type:jsonb"`

	// 金额（分为单位存储）
	SubtotalAmount   int64
	ShippingAmount   int64
	GrandTotalAmount int64
	Currency         string `gorm:"size:10;default:USD"`

	// 流转时间
	ShippedAt   *time.Time
	DeliveredAt *time.Time
	CanceledAt  *time.Time

	// 关联
	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

func (*Order) TableName() string {
	return "orders"
}

// GetGrandTotal 获取总金额（元）
func (o *Order) GetGrandTotal() float64 {
	return float64(o.GrandTotalAmount) / 100
}

// CanProcess 检查是否可以接单
func (o *Order) CanProcess() bool {
	return o.Status == OrderStatusPending
}

// CanShip 检查是否可以发货
func (o *Order) CanShip() bool {
	return o.Status == OrderStatusProcessing
}

// CanCancel 检查是否可以取消
func (o *Order) CanCancel() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusProcessing
}

// CanDeliver 检查是否可以签收
func (o *Order) CanDeliver() bool {
	return o.Status == OrderStatusShipped
}

// GetShippingAddressField 获取收货地址字段
func (o *Order) GetShippingAddressField(key string) string {
	if o.ShippingAddress == nil {
		return ""
	}
	if v, ok := o.ShippingAddress[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// ==================== OrderItem 订单项 ====================

// OrderItem 订单项
// 价格在下单时快照，后续商品改价不影响已有订单
type OrderItem struct {
	BaseModel
	OrderID   int64 `gorm:"index;not null"`
	ProductID int64 `gorm:"index;not null"`

	// 商品快照
	Title string `gorm:"size:255"`
	SKU   string `gorm:"size:100;index"`

	// 数量与价格
	Quantity    int   `gorm:"default:1"`
	PriceAmount int64 `gorm:"default:0"` // 单价（分）
	TotalAmount int64 `gorm:"default:0"` // 小计（分）
}

func (*OrderItem) TableName() string {
	return "order_items"
}

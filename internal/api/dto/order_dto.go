package dto

import (
	"time"

	"multishop_v1/internal/model"
)

// ==================== 订单相关 ====================

// OrderItemReq 下单商品行
type OrderItemReq struct {
	ProductID int64 `json:"product_id" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

// OrderCreateReq 下单请求
type OrderCreateReq struct {
	Items           []OrderItemReq         `json:"items" binding:"required,min=1,dive"`
	ShippingAddress map[string]interface{} `json:"shipping_address" binding:"required"`
	BuyerNote       string                 `json:"buyer_note"`
}

// OrderListReq 订单列表查询
type OrderListReq struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// OrderStatusReq 订单状态流转请求
type OrderStatusReq struct {
	StaffNote string `json:"staff_note"`
}

// OrderItemResp 订单项
type OrderItemResp struct {
	ProductID   int64  `json:"product_id"`
	Title       string `json:"title"`
	SKU         string `json:"sku"`
	Quantity    int    `json:"quantity"`
	PriceAmount int64  `json:"price_amount"`
	TotalAmount int64  `json:"total_amount"`
}

// OrderResp 订单信息
type OrderResp struct {
	ID               int64                  `json:"id"`
	ShopID           int64                  `json:"shop_id"`
	BuyerID          int64                  `json:"buyer_id"`
	Status           string                 `json:"status"`
	SubtotalAmount   int64                  `json:"subtotal_amount"`
	ShippingAmount   int64                  `json:"shipping_amount"`
	GrandTotalAmount int64                  `json:"grand_total_amount"`
	Currency         string                 `json:"currency"`
	ShippingAddress  map[string]interface{} `json:"shipping_address"`
	BuyerNote        string                 `json:"buyer_note"`
	Items            []OrderItemResp        `json:"items"`
	CreatedAt        time.Time              `json:"created_at"`
}

// ToOrderResp 模型转响应
func ToOrderResp(order *model.Order) OrderResp {
	items := make([]OrderItemResp, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResp{
			ProductID:   item.ProductID,
			Title:       item.Title,
			SKU:         item.SKU,
			Quantity:    item.Quantity,
			PriceAmount: item.PriceAmount,
			TotalAmount: item.TotalAmount,
		})
	}
	return OrderResp{
		ID:               order.ID,
		ShopID:           order.ShopID,
		BuyerID:          order.BuyerID,
		Status:           order.Status,
		SubtotalAmount:   order.SubtotalAmount,
		ShippingAmount:   order.ShippingAmount,
		GrandTotalAmount: order.GrandTotalAmount,
		Currency:         order.Currency,
		ShippingAddress:  map[string]interface{}(order.ShippingAddress),
		BuyerNote:        order.BuyerNote,
		Items:            items,
		CreatedAt:        order.CreatedAt,
	}
}

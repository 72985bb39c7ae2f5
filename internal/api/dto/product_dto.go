package dto

import "multishop_v1/internal/model"

// ==================== 商品相关 ====================

// ProductCreateReq 创建商品请求
type ProductCreateReq struct {
	SKU         string   `json:"sku" binding:"required,max=100"`
	Title       string   `json:"title" binding:"required,max=255"`
	Description string   `json:"description"`
	PriceAmount int64    `json:"price_amount" binding:"required,gt=0"` // 分
	Currency    string   `json:"currency" binding:"omitempty,len=3"`
	Stock       int      `json:"stock" binding:"gte=0"`
	Tags        []string `json:"tags"`
}

// ProductUpdateReq 更新商品请求
type ProductUpdateReq struct {
	Title       string   `json:"title" binding:"omitempty,max=255"`
	Description *string  `json:"description"`
	PriceAmount int64    `json:"price_amount" binding:"omitempty,gt=0"`
	Status      string   `json:"status" binding:"omitempty,oneof=active inactive"`
	Tags        []string `json:"tags"`
}

// StockAdjustReq 库存调整请求
type StockAdjustReq struct {
	Delta int `json:"delta" binding:"required"`
}

// ProductListReq 商品列表查询
type ProductListReq struct {
	Keyword  string `form:"keyword"`
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// ProductResp 商品信息
type ProductResp struct {
	ID            int64    `json:"id"`
	ShopID        int64    `json:"shop_id"`
	SKU           string   `json:"sku"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Status        string   `json:"status"`
	PriceAmount   int64    `json:"price_amount"`
	Currency      string   `json:"currency"`
	Stock         int      `json:"stock"`
	Tags          []string `json:"tags"`
	ReviewCount   int      `json:"review_count"`
	ReviewAverage float64  `json:"review_average"`
}

// ToProductResp 模型转响应
func ToProductResp(product *model.Product) ProductResp {
	return ProductResp{
		ID:            product.ID,
		ShopID:        product.ShopID,
		SKU:           product.SKU,
		Title:         product.Title,
		Description:   product.Description,
		Status:        product.Status,
		PriceAmount:   product.PriceAmount,
		Currency:      product.Currency,
		Stock:         product.Stock,
		Tags:          []string(product.Tags),
		ReviewCount:   product.ReviewCount,
		ReviewAverage: product.ReviewAverage,
	}
}

package service

import (
	"context"
	"errors"

	"github.com/lib/pq"

	"multishop_v1/internal/api/dto"
	"multishop_v1/internal/model"
	"multishop_v1/internal/repository"
)

// ==================== ProductService 商品服务 ====================

var (
	// ErrProductNotFound 商品不存在（或不属于当前店铺）
	ErrProductNotFound = errors.New("商品不存在")
	// ErrSKUTaken SKU 在店铺内已存在
	ErrSKUTaken = errors.New("SKU 已存在")
)

// ProductService 商品服务
// 所有操作都以 shopID 为租户边界，跨店铺访问一律按不存在处理
type ProductService struct {
	products repository.ProductRepository
}

// NewProductService 创建商品服务
func NewProductService(products repository.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

// Create 创建商品
func (s *ProductService) Create(ctx context.Context, shopID, operatorID int64, req dto.ProductCreateReq) (*model.Product, error) {
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	product := &model.Product{
		ShopID:      shopID,
		SKU:         req.SKU,
		Title:       req.Title,
		Description: req.Description,
		Status:      model.ProductStatusActive,
		PriceAmount: req.PriceAmount,
		Currency:    currency,
		Stock:       req.Stock,
		Tags:        pq.StringArray(req.Tags),
		AuditMixin: model.AuditMixin{
			CreatedBy: operatorID,
		},
	}
	if err := s.products.Create(ctx, product); err != nil {
		// (shop, sku) 唯一索引兜底
		return nil, ErrSKUTaken
	}
	return product, nil
}

// Get 获取商品详情
func (s *ProductService) Get(ctx context.Context, shopID, productID int64) (*model.Product, error) {
	product, err := s.products.GetByShopAndID(ctx, shopID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// List 商品列表
func (s *ProductService) List(ctx context.Context, shopID int64, req dto.ProductListReq) ([]model.Product, int64, error) {
	return s.products.List(ctx, repository.ProductFilter{
		ShopID:   shopID,
		Keyword:  req.Keyword,
		Status:   req.Status,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
}

// Update 更新商品
func (s *ProductService) Update(ctx context.Context, shopID, productID int64, req dto.ProductUpdateReq) error {
	if _, err := s.Get(ctx, shopID, productID); err != nil {
		return err
	}

	fields := map[string]interface{}{}
	if req.Title != "" {
		fields["title"] = req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.PriceAmount > 0 {
		fields["price_amount"] = req.PriceAmount
	}
	if req.Status != "" {
		fields["status"] = req.Status
	}
	if req.Tags != nil {
		fields["tags"] = pq.StringArray(req.Tags)
	}
	if len(fields) == 0 {
		return nil
	}
	return s.products.UpdateFields(ctx, productID, fields)
}

// AdjustStock 调整库存
// 扣减超过现有库存时整体失败，库存不变
func (s *ProductService) AdjustStock(ctx context.Context, shopID, productID int64, delta int) (*model.Product, error) {
	if _, err := s.Get(ctx, shopID, productID); err != nil {
		return nil, err
	}
	if err := s.products.AdjustStock(ctx, productID, delta); err != nil {
		return nil, err
	}
	return s.Get(ctx, shopID, productID)
}

// Delete 删除商品
func (s *ProductService) Delete(ctx context.Context, shopID, productID int64) error {
	if _, err := s.Get(ctx, shopID, productID); err != nil {
		return err
	}
	return s.products.Delete(ctx, productID)
}

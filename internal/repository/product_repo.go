package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"multishop_v1/internal/model"
)

// ==================== ProductRepository 商品仓库 ====================

// ErrInsufficientStock 库存不足
var ErrInsufficientStock = errors.New("库存不足")

// ProductRepository 商品仓储接口
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	// GetByShopAndID 带租户隔离的查询，跨店铺访问返回 nil
	GetByShopAndID(ctx context.Context, shopID, id int64) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error)
	// AdjustStock 原子调整库存，扣减导致负库存时返回 ErrInsufficientStock
	AdjustStock(ctx context.Context, id int64, delta int) error
	UpdateReviewStats(ctx context.Context, id int64, count int, average float64) error
	CountByShop(ctx context.Context, shopID int64) (int64, error)
}

// ProductFilter 商品筛选条件
type ProductFilter struct {
	ShopID   int64
	Keyword  string
	Status   string
	Page     int
	PageSize int
}

// ==================== 实现 ====================

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create 创建商品
func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// GetByID 根据 ID 获取商品
func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

// GetByShopAndID 店铺内查询商品
func (r *productRepository) GetByShopAndID(ctx context.Context, shopID, id int64) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND id = ?", shopID, id).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

// Update 更新商品
func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// UpdateFields 更新指定字段
func (r *productRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// Delete 删除商品（软删除）
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, id).Error
}

// List 商品列表
func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Product{})

	// 租户隔离
	if filter.ShopID > 0 {
		query = query.Where("shop_id = ?", filter.ShopID)
	}

	// 关键词搜索
	if filter.Keyword != "" {
		keyword := "%" + filter.Keyword + "%"
		query = query.Where("title LIKE ? OR sku LIKE ?", keyword, keyword)
	}

	// 状态筛选
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	var products []model.Product
	err := query.
		Order("id DESC").
		Offset(offset).
		Limit(filter.PageSize).
		Find(&products).Error

	return products, total, err
}

// AdjustStock 原子调整库存
// 用条件 UPDATE 防止并发扣减出现负库存，不依赖应用层锁
func (r *productRepository) AdjustStock(ctx context.Context, id int64, delta int) error {
	result := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// UpdateReviewStats 回写评价汇总
func (r *productRepository) UpdateReviewStats(ctx context.Context, id int64, count int, average float64) error {
	return r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"review_count":   count,
			"review_average": average,
		}).Error
}

// CountByShop 店铺商品数
func (r *productRepository) CountByShop(ctx context.Context, shopID int64) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.Product{})
	if shopID > 0 {
		query = query.Where("shop_id = ?", shopID)
	}
	err := query.Count(&count).Error
	return count, err
}

package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"multishop_v1/internal/model"
)

// ==================== OrderRepository 订单仓库 ====================

// OrderRepository 订单仓储接口
type OrderRepository interface {
	// CreateWithStock 在同一事务内扣减库存并落单
	// 任一商品库存不足返回 ErrInsufficientStock，整体回滚
	CreateWithStock(ctx context.Context, order *model.Order, quantities map[int64]int) error
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	GetByShopAndID(ctx context.Context, shopID, id int64) (*model.Order, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error)
	// ListShippedBefore 自动签收任务使用
	ListShippedBefore(ctx context.Context, before time.Time, limit int) ([]model.Order, error)
	Count(ctx context.Context) (int64, error)
	// SalesSummary 按店铺聚合的销售汇总（不含已取消订单）
	SalesSummary(ctx context.Context) ([]ShopSales, error)
}

// OrderFilter 订单筛选条件
type OrderFilter struct {
	ShopID   int64
	BuyerID  int64
	Status   string
	Page     int
	PageSize int
}

// ShopSales 单店销售汇总行
type ShopSales struct {
	ShopID        int64  `json:"shop_id"`
	ShopName      string `json:"shop_name"`
	OrderCount    int64  `json:"order_count"`
	RevenueAmount int64  `json:"revenue_amount"` // 分
}

// ==================== 实现 ====================

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// CreateWithStock 扣库存 + 落单
// 库存扣减用条件 UPDATE 防止并发超卖，失败即回滚整个订单
func (r *orderRepository) CreateWithStock(ctx context.Context, order *model.Order, quantities map[int64]int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for productID, qty := range quantities {
			result := tx.Model(&model.Product{}).
				Where("id = ? AND stock >= ?", productID, qty).
				Update("stock", gorm.Expr("stock - ?", qty))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrInsufficientStock
			}
		}
		// Items 通过关联一起写入
		return tx.Create(order).Error
	})
}

// GetByID 根据 ID 获取订单（带订单项）
func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

// GetByShopAndID 店铺内查询订单
func (r *orderRepository) GetByShopAndID(ctx context.Context, shopID, id int64) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("shop_id = ? AND id = ?", shopID, id).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

// UpdateFields 更新指定字段
func (r *orderRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// List 订单列表
func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Order{})

	if filter.ShopID > 0 {
		query = query.Where("shop_id = ?", filter.ShopID)
	}
	if filter.BuyerID > 0 {
		query = query.Where("buyer_id = ?", filter.BuyerID)
	}
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

	var orders []model.Order
	err := query.
		Preload("Items").
		Order("id DESC").
		Offset(offset).
		Limit(filter.PageSize).
		Find(&orders).Error

	return orders, total, err
}

// ListShippedBefore 查询发货超过期限仍未签收的订单
func (r *orderRepository) ListShippedBefore(ctx context.Context, before time.Time, limit int) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Where("status = ? AND shipped_at < ?", model.OrderStatusShipped, before).
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

// Count 订单总数
func (r *orderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Count(&count).Error
	return count, err
}

// SalesSummary 按店铺聚合销售额
func (r *orderRepository) SalesSummary(ctx context.Context) ([]ShopSales, error) {
	var rows []ShopSales
	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("orders.shop_id AS shop_id, shops.name AS shop_name, COUNT(orders.id) AS order_count, COALESCE(SUM(orders.grand_total_amount), 0) AS revenue_amount").
		Joins("JOIN shops ON shops.id = orders.shop_id").
		Where("orders.status <> ?", model.OrderStatusCanceled).
		Group("orders.shop_id, shops.name").
		Order("revenue_amount DESC").
		Scan(&rows).Error
	return rows, err
}

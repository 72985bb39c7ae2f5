package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"multishop_v1/internal/model"
)

// ==================== ReviewRepository 评价仓库 ====================

// ReviewRepository 评价仓储接口
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	GetByID(ctx context.Context, id int64) (*model.Review, error)
	ExistsByProductAndUser(ctx context.Context, productID, userID int64) (bool, error)
	List(ctx context.Context, filter ReviewFilter) ([]model.Review, int64, error)
	// Moderate 写入审核结果
	Moderate(ctx context.Context, id int64, status string, moderatorID int64, note string) error
	// RatingSummary 统计商品已通过评价的数量与均分
	RatingSummary(ctx context.Context, productID int64) (int64, float64, error)
}

// ReviewFilter 评价筛选条件
type ReviewFilter struct {
	ShopID    int64
	ProductID int64
	Status    string
	Page      int
	PageSize  int
}

// ==================== 实现 ====================

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评价仓库
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create 创建评价
// (product_id, user_id) 上有联合唯一索引，重复评价由数据库裁决
func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// GetByID 根据 ID 获取评价
func (r *reviewRepository) GetByID(ctx context.Context, id int64) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).First(&review, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &review, err
}

// ExistsByProductAndUser 用户是否已评价过该商品
func (r *reviewRepository) ExistsByProductAndUser(ctx context.Context, productID, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Count(&count).Error
	return count > 0, err
}

// List 评价列表
func (r *reviewRepository) List(ctx context.Context, filter ReviewFilter) ([]model.Review, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Review{})

	if filter.ShopID > 0 {
		query = query.Where("shop_id = ?", filter.ShopID)
	}
	if filter.ProductID > 0 {
		query = query.Where("product_id = ?", filter.ProductID)
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

	var reviews []model.Review
	err := query.
		Order("id DESC").
		Offset(offset).
		Limit(filter.PageSize).
		Find(&reviews).Error

	return reviews, total, err
}

// Moderate 写入审核结果
func (r *reviewRepository) Moderate(ctx context.Context, id int64, status string, moderatorID int64, note string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"moderated_by": moderatorID,
			"moderated_at": &now,
			"reject_note":  note,
		}).Error
}

// RatingSummary 商品评分汇总
// 只统计已通过的评价
func (r *reviewRepository) RatingSummary(ctx context.Context, productID int64) (int64, float64, error) {
	type row struct {
		Count   int64
		Average float64
	}
	var result row
	err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Select("COUNT(id) AS count, COALESCE(AVG(rating), 0) AS average").
		Where("product_id = ? AND status = ?", productID, model.ReviewStatusApproved).
		Scan(&result).Error
	return result.Count, result.Average, err
}

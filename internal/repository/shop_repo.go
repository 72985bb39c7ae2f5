package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"multishop_v1/internal/model"
)

// ==================== ShopRepository 店铺仓库 ====================

// ShopRepository 店铺仓储接口
type ShopRepository interface {
	// CreateWithOwner 创建店铺并在同一事务内写入创建者的 admin 成员记录
	CreateWithOwner(ctx context.Context, shop *model.Shop, ownerID int64) error
	GetByID(ctx context.Context, id int64) (*model.Shop, error)
	GetBySlug(ctx context.Context, slug string) (*model.Shop, error)
	Update(ctx context.Context, shop *model.Shop) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	List(ctx context.Context, filter ShopFilter) ([]model.Shop, int64, error)
	ListByMember(ctx context.Context, userID int64) ([]model.Shop, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// ShopFilter 店铺筛选条件
type ShopFilter struct {
	Keyword  string
	Status   string
	Page     int
	PageSize int
}

// ==================== 实现 ====================

type shopRepository struct {
	db *gorm.DB
}

// NewShopRepository 创建店铺仓库
func NewShopRepository(db *gorm.DB) ShopRepository {
	return &shopRepository{db: db}
}

// CreateWithOwner 创建店铺并绑定创建者
// 店铺和成员记录在同一事务内写入，任一失败整体回滚
func (r *shopRepository) CreateWithOwner(ctx context.Context, shop *model.Shop, ownerID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(shop).Error; err != nil {
			return err
		}
		member := &model.ShopMember{
			UserID: ownerID,
			ShopID: shop.ID,
			Role:   model.ShopRoleAdmin,
			Status: model.MemberStatusActive,
			AuditMixin: model.AuditMixin{
				CreatedBy: ownerID,
			},
		}
		return tx.Create(member).Error
	})
}

// GetByID 根据 ID 获取店铺
func (r *shopRepository) GetByID(ctx context.Context, id int64) (*model.Shop, error) {
	var shop model.Shop
	err := r.db.WithContext(ctx).First(&shop, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &shop, err
}

// GetBySlug 根据 slug 获取店铺
// 租户解析的主查询入口
func (r *shopRepository) GetBySlug(ctx context.Context, slug string) (*model.Shop, error) {
	var shop model.Shop
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&shop).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &shop, err
}

// Update 更新店铺
func (r *shopRepository) Update(ctx context.Context, shop *model.Shop) error {
	return r.db.WithContext(ctx).Save(shop).Error
}

// UpdateFields 更新指定字段
// 注意: slug 创建后不可变，调用方不得传入 slug
func (r *shopRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Shop{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// UpdateStatus 更新店铺状态
func (r *shopRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.Shop{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// List 店铺列表
func (r *shopRepository) List(ctx context.Context, filter ShopFilter) ([]model.Shop, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Shop{})

	if filter.Keyword != "" {
		keyword := "%" + filter.Keyword + "%"
		query = query.Where("name LIKE ? OR slug LIKE ?", keyword, keyword)
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

	var shops []model.Shop
	err := query.
		Order("id DESC").
		Offset(offset).
		Limit(filter.PageSize).
		Find(&shops).Error

	return shops, total, err
}

// ListByMember 获取用户参与的店铺列表
func (r *shopRepository) ListByMember(ctx context.Context, userID int64) ([]model.Shop, error) {
	var shops []model.Shop
	err := r.db.WithContext(ctx).
		Joins("JOIN shop_members ON shop_members.shop_id = shops.id").
		Where("shop_members.user_id = ? AND shop_members.status = ? AND shop_members.deleted_at IS NULL",
			userID, model.MemberStatusActive).
		Find(&shops).Error
	return shops, err
}

// ExistsBySlug 检查 slug 是否已被占用
func (r *shopRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Shop{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

// Count 店铺总数
func (r *shopRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Shop{}).Count(&count).Error
	return count, err
}

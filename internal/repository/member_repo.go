package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"multishop_v1/internal/model"
)

// ==================== ShopMemberRepository 店铺成员仓库 ====================

// ShopMemberRepository 店铺成员仓储接口
type ShopMemberRepository interface {
	Create(ctx context.Context, member *model.ShopMember) error
	GetByID(ctx context.Context, id int64) (*model.ShopMember, error)
	// GetByShopAndUser 授权判定的主查询入口
	GetByShopAndUser(ctx context.Context, shopID, userID int64) (*model.ShopMember, error)
	ListByShop(ctx context.Context, shopID int64) ([]model.ShopMember, error)
	ListByUser(ctx context.Context, userID int64) ([]model.ShopMember, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	// CountActiveAdmins 用于保护店铺不失去最后一个管理员
	CountActiveAdmins(ctx context.Context, shopID int64) (int64, error)
}

// ==================== 实现 ====================

type shopMemberRepository struct {
	db *gorm.DB
}

// NewShopMemberRepository 创建店铺成员仓库
func NewShopMemberRepository(db *gorm.DB) ShopMemberRepository {
	return &shopMemberRepository{db: db}
}

// Create 创建成员记录
// (shop_id, user_id) 上有联合唯一索引，重复加入由数据库裁决
func (r *shopMemberRepository) Create(ctx context.Context, member *model.ShopMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// GetByID 根据 ID 获取成员记录
func (r *shopMemberRepository) GetByID(ctx context.Context, id int64) (*model.ShopMember, error) {
	var member model.ShopMember
	err := r.db.WithContext(ctx).First(&member, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &member, err
}

// GetByShopAndUser 查询用户在店铺内的成员记录
func (r *shopMemberRepository) GetByShopAndUser(ctx context.Context, shopID, userID int64) (*model.ShopMember, error) {
	var member model.ShopMember
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND user_id = ?", shopID, userID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &member, err
}

// ListByShop 店铺成员列表（带用户信息）
func (r *shopMemberRepository) ListByShop(ctx context.Context, shopID int64) ([]model.ShopMember, error) {
	var members []model.ShopMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("shop_id = ?", shopID).
		Order("id ASC").
		Find(&members).Error
	return members, err
}

// ListByUser 用户的全部成员记录（带店铺信息）
func (r *shopMemberRepository) ListByUser(ctx context.Context, userID int64) ([]model.ShopMember, error) {
	var members []model.ShopMember
	err := r.db.WithContext(ctx).
		Preload("Shop").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&members).Error
	return members, err
}

// UpdateFields 更新指定字段
func (r *shopMemberRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.ShopMember{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// Delete 移除成员（软删除）
func (r *shopMemberRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.ShopMember{}, id).Error
}

// CountActiveAdmins 店铺内有效 admin 数量
func (r *shopMemberRepository) CountActiveAdmins(ctx context.Context, shopID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ShopMember{}).
		Where("shop_id = ? AND role = ? AND status = ?",
			shopID, model.ShopRoleAdmin, model.MemberStatusActive).
		Count(&count).Error
	return count, err
}

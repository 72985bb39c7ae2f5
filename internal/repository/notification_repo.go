package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"multishop_v1/internal/model"
)

// ==================== NotificationRepository 通知仓库 ====================

// NotificationRepository 通知仓储接口
type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	List(ctx context.Context, filter NotificationFilter) ([]model.Notification, int64, error)
	// MarkRead 只允许本人标记，返回实际更新条数
	MarkRead(ctx context.Context, id, userID int64) (int64, error)
	MarkAllRead(ctx context.Context, userID int64) error
	CountUnread(ctx context.Context, userID int64) (int64, error)
	// DeleteReadBefore 清理任务使用，物理删除已读的历史通知
	DeleteReadBefore(ctx context.Context, before time.Time) (int64, error)
}

// NotificationFilter 通知筛选条件
type NotificationFilter struct {
	UserID     int64
	OnlyUnread bool
	Page       int
	PageSize   int
}

// ==================== 实现 ====================

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository 创建通知仓库
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// Create 创建通知
func (r *notificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// List 通知列表
func (r *notificationRepository) List(ctx context.Context, filter NotificationFilter) ([]model.Notification, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ?", filter.UserID)

	if filter.OnlyUnread {
		query = query.Where("is_read = ?", false)
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

	var notifications []model.Notification
	err := query.
		Order("id DESC").
		Offset(offset).
		Limit(filter.PageSize).
		Find(&notifications).Error

	return notifications, total, err
}

// MarkRead 标记单条已读
func (r *notificationRepository) MarkRead(ctx context.Context, id, userID int64) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ? AND user_id = ? AND is_read = ?", id, userID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": &now,
		})
	return result.RowsAffected, result.Error
}

// MarkAllRead 全部标记已读
func (r *notificationRepository) MarkAllRead(ctx context.Context, userID int64) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": &now,
		}).Error
}

// CountUnread 未读数
func (r *notificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// DeleteReadBefore 物理删除已读的历史通知
func (r *notificationRepository) DeleteReadBefore(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Unscoped().
		Where("is_read = ? AND read_at < ?", true, before).
		Delete(&model.Notification{})
	return result.RowsAffected, result.Error
}

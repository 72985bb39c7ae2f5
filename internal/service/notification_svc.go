package service

import (
	"context"
	"errors"
	"time"

	"multishop_v1/internal/api/dto"
	"multishop_v1/internal/model"
	"multishop_v1/internal/repository"
)

// ==================== NotificationService 通知服务 ====================

// ErrNotificationNotFound 通知不存在或不属于当前用户
var ErrNotificationNotFound = errors.New("通知不存在")

// NotificationService 站内通知服务
type NotificationService struct {
	notifications repository.NotificationRepository
}

// NewNotificationService 创建通知服务
func NewNotificationService(notifications repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// Push 写入一条通知
// 被订单/评价服务作为附带动作调用
func (s *NotificationService) Push(ctx context.Context, userID, shopID int64, notifyType, title, body string) error {
	return s.notifications.Create(ctx, &model.Notification{
		UserID: userID,
		ShopID: shopID,
		Type:   notifyType,
		Title:  title,
		Body:   body,
	})
}

// List 我的通知列表
func (s *NotificationService) List(ctx context.Context, userID int64, req dto.NotificationListReq) ([]model.Notification, int64, error) {
	return s.notifications.List(ctx, repository.NotificationFilter{
		UserID:     userID,
		OnlyUnread: req.OnlyUnread,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
}

// UnreadCount 未读数
func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.notifications.CountUnread(ctx, userID)
}

// MarkRead 标记单条已读
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID int64) error {
	affected, err := s.notifications.MarkRead(ctx, notificationID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead 全部标记已读
func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) error {
	return s.notifications.MarkAllRead(ctx, userID)
}

// PurgeRead 清理已读的历史通知，定时任务调用
func (s *NotificationService) PurgeRead(ctx context.Context, olderThan time.Duration) (int64, error) {
	return s.notifications.DeleteReadBefore(ctx, time.Now().Add(-olderThan))
}

// nowPtr 当前时间指针
func nowPtr() *time.Time {
	now := time.Now()
	return &now
}

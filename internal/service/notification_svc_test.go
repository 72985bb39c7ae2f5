package service

import (
	"context"
	"testing"
	"time"

	"multishop_v1/internal/api/dto"
	"multishop_v1/internal/model"
)

func TestNotificationService(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewNotificationService(repos.Notifications)
	ctx := context.Background()

	user := seedUser(t, repos.DB, "inbox@example.com", model.RoleCustomer)
	other := seedUser(t, repos.DB, "other-inbox@example.com", model.RoleCustomer)

	for i := 0; i < 3; i++ {
		if err := svc.Push(ctx, user.ID, 0, model.NotifyTypeSystem, "系统通知", "内容"); err != nil {
			t.Fatalf("写入通知失败: %v", err)
		}
	}
	_ = svc.Push(ctx, other.ID, 0, model.NotifyTypeSystem, "别人的通知", "内容")

	t.Run("未读数", func(t *testing.T) {
		count, err := svc.UnreadCount(ctx, user.ID)
		if err != nil {
			t.Fatalf("查询失败: %v", err)
		}
		if count != 3 {
			t.Errorf("未读数错误: got %d", count)
		}
	})

	t.Run("标记单条已读", func(t *testing.T) {
		list, _, err := svc.List(ctx, user.ID, dto.NotificationListReq{})
		if err != nil {
			t.Fatalf("查询失败: %v", err)
		}

		if err := svc.MarkRead(ctx, user.ID, list[0].ID); err != nil {
			t.Fatalf("标记已读失败: %v", err)
		}

		count, _ := svc.UnreadCount(ctx, user.ID)
		if count != 2 {
			t.Errorf("未读数未减少: got %d", count)
		}
	})

	t.Run("不能动别人的通知", func(t *testing.T) {
		list, _, _ := svc.List(ctx, other.ID, dto.NotificationListReq{})
		if err := svc.MarkRead(ctx, user.ID, list[0].ID); err != ErrNotificationNotFound {
			t.Errorf("期望 ErrNotificationNotFound, got %v", err)
		}
	})

	t.Run("仅未读筛选", func(t *testing.T) {
		list, total, err := svc.List(ctx, user.ID, dto.NotificationListReq{OnlyUnread: true})
		if err != nil {
			t.Fatalf("查询失败: %v", err)
		}
		if total != 2 || len(list) != 2 {
			t.Errorf("未读筛选错误: total=%d len=%d", total, len(list))
		}
	})

	t.Run("全部标记已读", func(t *testing.T) {
		if err := svc.MarkAllRead(ctx, user.ID); err != nil {
			t.Fatalf("全部已读失败: %v", err)
		}
		count, _ := svc.UnreadCount(ctx, user.ID)
		if count != 0 {
			t.Errorf("未读数未清零: got %d", count)
		}

		// 别人的未读不受影响
		otherCount, _ := svc.UnreadCount(ctx, other.ID)
		if otherCount != 1 {
			t.Errorf("波及了其他用户: got %d", otherCount)
		}
	})

	t.Run("清理已读历史通知", func(t *testing.T) {
		// 把已读时间拨到 40 天前
		past := time.Now().Add(-40 * 24 * time.Hour)
		repos.DB.Model(&model.Notification{}).
			Where("user_id = ? AND is_read = ?", user.ID, true).
			Updates(map[string]interface{}{"read_at": past})

		deleted, err := svc.PurgeRead(ctx, 30*24*time.Hour)
		if err != nil {
			t.Fatalf("清理失败: %v", err)
		}
		if deleted != 3 {
			t.Errorf("清理数量错误: got %d", deleted)
		}

		// 未读的不被清理
		var remain int64
		repos.DB.Model(&model.Notification{}).Count(&remain)
		if remain != 1 {
			t.Errorf("未读通知被误删: remain=%d", remain)
		}
	})
}

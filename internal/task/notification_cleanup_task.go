package task

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"multishop_v1/internal/service"
)

// ==================== NotificationCleanupTask 通知清理任务 ====================

// NotificationCleanupTask 物理删除已读的历史通知
type NotificationCleanupTask struct {
	notifyService *service.NotificationService
	cron          *cron.Cron
	log           *zap.Logger

	// 已读通知保留时长
	retention time.Duration
}

// NewNotificationCleanupTask 创建通知清理任务
func NewNotificationCleanupTask(notifyService *service.NotificationService, log *zap.Logger) *NotificationCleanupTask {
	return &NotificationCleanupTask{
		notifyService: notifyService,
		cron:          cron.New(cron.WithSeconds()),
		log:           log,
		retention:     30 * 24 * time.Hour,
	}
}

// Start 启动定时任务，每天凌晨 3 点执行
func (t *NotificationCleanupTask) Start() {
	_, err := t.cron.AddFunc("0 0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		t.run(ctx)
	})
	if err != nil {
		t.log.Error("通知清理任务启动失败", zap.Error(err))
		return
	}

	t.cron.Start()
	t.log.Info("通知清理任务已启动", zap.Duration("retention", t.retention))
}

// Stop 停止任务
func (t *NotificationCleanupTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	t.log.Info("通知清理任务已停止")
}

func (t *NotificationCleanupTask) run(ctx context.Context) {
	deleted, err := t.notifyService.PurgeRead(ctx, t.retention)
	if err != nil {
		t.log.Error("清理历史通知失败", zap.Error(err))
		return
	}
	t.log.Info("历史通知清理完成", zap.Int64("deleted", deleted))
}

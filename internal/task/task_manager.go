package task

import (
	"go.uber.org/zap"

	"multishop_v1/internal/repository"
	"multishop_v1/internal/service"
)

// ==================== TaskManager 后台任务管理器 ====================

// TaskManager 统一管理后台定时任务
// 管理范围：订单自动签收、通知清理
type TaskManager struct {
	orderTask  *OrderAutoCompleteTask
	notifyTask *NotificationCleanupTask
	log        *zap.Logger
}

// TaskManagerDeps 任务管理器依赖
type TaskManagerDeps struct {
	OrderRepo     repository.OrderRepository
	OrderService  *service.OrderService
	NotifyService *service.NotificationService
}

// TaskManagerConfig 任务管理器配置
type TaskManagerConfig struct {
	OrderAutoCompleteEnabled   bool
	NotificationCleanupEnabled bool
}

// DefaultConfig 默认配置
func DefaultConfig() *TaskManagerConfig {
	return &TaskManagerConfig{
		OrderAutoCompleteEnabled:   true,
		NotificationCleanupEnabled: true,
	}
}

// NewTaskManager 创建任务管理器
func NewTaskManager(deps *TaskManagerDeps, cfg *TaskManagerConfig, log *zap.Logger) *TaskManager {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	tm := &TaskManager{log: log}

	// 订单自动签收
	if cfg.OrderAutoCompleteEnabled && deps.OrderService != nil {
		tm.orderTask = NewOrderAutoCompleteTask(deps.OrderRepo, deps.OrderService, log.Named("order_auto_complete"))
	}

	// 通知清理
	if cfg.NotificationCleanupEnabled && deps.NotifyService != nil {
		tm.notifyTask = NewNotificationCleanupTask(deps.NotifyService, log.Named("notification_cleanup"))
	}

	return tm
}

// ==================== 生命周期管理 ====================

// Start 启动所有任务
func (tm *TaskManager) Start() {
	tm.log.Info("正在启动后台任务")

	if tm.orderTask != nil {
		tm.orderTask.Start()
	}
	if tm.notifyTask != nil {
		tm.notifyTask.Start()
	}
}

// Stop 停止所有任务
func (tm *TaskManager) Stop() {
	tm.log.Info("正在停止后台任务")

	if tm.orderTask != nil {
		tm.orderTask.Stop()
	}
	if tm.notifyTask != nil {
		tm.notifyTask.Stop()
	}
}

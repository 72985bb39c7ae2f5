package task

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"multishop_v1/internal/repository"
	"multishop_v1/internal/service"
)

// ==================== OrderAutoCompleteTask 订单自动签收任务 ====================

// OrderAutoCompleteTask 发货超过期限仍未签收的订单自动置为已送达
type OrderAutoCompleteTask struct {
	orderRepo    repository.OrderRepository
	orderService *service.OrderService
	cron         *cron.Cron
	log          *zap.Logger

	// 发货后多久视为送达
	deliverAfter time.Duration
	batchSize    int
}

// NewOrderAutoCompleteTask 创建自动签收任务
func NewOrderAutoCompleteTask(
	orderRepo repository.OrderRepository,
	orderService *service.OrderService,
	log *zap.Logger,
) *OrderAutoCompleteTask {
	return &OrderAutoCompleteTask{
		orderRepo:    orderRepo,
		orderService: orderService,
		cron:         cron.New(cron.WithSeconds()),
		log:          log,
		deliverAfter: 10 * 24 * time.Hour,
		batchSize:    500,
	}
}

// Start 启动定时任务，每小时执行一次
func (t *OrderAutoCompleteTask) Start() {
	// 首次执行
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		t.run(ctx)
	}()

	_, err := t.cron.AddFunc("0 0 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		t.run(ctx)
	})
	if err != nil {
		t.log.Error("自动签收任务启动失败", zap.Error(err))
		return
	}

	t.cron.Start()
	t.log.Info("订单自动签收任务已启动", zap.Duration("deliver_after", t.deliverAfter))
}

// Stop 停止任务
func (t *OrderAutoCompleteTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	t.log.Info("订单自动签收任务已停止")
}

// run 扫描一批超期订单并逐单签收
func (t *OrderAutoCompleteTask) run(ctx context.Context) {
	cutoff := time.Now().Add(-t.deliverAfter)
	orders, err := t.orderRepo.ListShippedBefore(ctx, cutoff, t.batchSize)
	if err != nil {
		t.log.Error("查询超期订单失败", zap.Error(err))
		return
	}
	if len(orders) == 0 {
		return
	}

	var completed, failed int
	for i := range orders {
		order := &orders[i]
		if err := t.orderService.Deliver(ctx, order.ShopID, order.ID); err != nil {
			failed++
			t.log.Warn("自动签收失败",
				zap.Int64("order_id", order.ID),
				zap.Error(err))
			continue
		}
		completed++
	}

	t.log.Info("订单自动签收完成",
		zap.Int("completed", completed),
		zap.Int("failed", failed))
}

package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"multishop_v1/internal/api/dto"
	"multishop_v1/internal/model"
	"multishop_v1/internal/repository"
	"multishop_v1/pkg/logger"
)

// ==================== OrderService 订单服务 ====================

var (
	// ErrOrderNotFound 订单不存在（或不属于当前店铺）
	ErrOrderNotFound = errors.New("订单不存在")
	// ErrOrderStateInvalid 当前状态不允许该流转
	ErrOrderStateInvalid = errors.New("订单状态不允许该操作")
	// ErrNotOrderOwner 非本人订单
	ErrNotOrderOwner = errors.New("只能操作本人的订单")
)

// OrderService 订单服务
type OrderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	notify   *NotificationService
	log      *zap.Logger
}

// NewOrderService 创建订单服务
func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	notify *NotificationService,
) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		notify:   notify,
		log:      logger.Named("order_svc"),
	}
}

// Create 下单
// 价格按下单时刻快照；库存扣减和落单在同一事务内完成
func (s *OrderService) Create(ctx context.Context, shopID, buyerID int64, req dto.OrderCreateReq) (*model.Order, error) {
	order := &model.Order{
		ShopID:          shopID,
		BuyerID:         buyerID,
		Status:          model.OrderStatusPending,
		BuyerNote:       req.BuyerNote,
		ShippingAddress: datatypes.JSONMap(req.ShippingAddress),
	}

	quantities := make(map[int64]int, len(req.Items))
	var subtotal int64
	currency := ""

	for _, line := range req.Items {
		product, err := s.products.GetByShopAndID(ctx, shopID, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || !product.IsActive() {
			return nil, ErrProductNotFound
		}
		if !product.InStock(line.Quantity) {
			return nil, repository.ErrInsufficientStock
		}
		if currency == "" {
			currency = product.Currency
		}

		total := product.PriceAmount * int64(line.Quantity)
		subtotal += total
		quantities[product.ID] += line.Quantity

		order.Items = append(order.Items, model.OrderItem{
			ProductID:   product.ID,
			Title:       product.Title,
			SKU:         product.SKU,
			Quantity:    line.Quantity,
			PriceAmount: product.PriceAmount,
			TotalAmount: total,
		})
	}

	order.SubtotalAmount = subtotal
	order.GrandTotalAmount = subtotal + order.ShippingAmount
	if currency != "" {
		order.Currency = currency
	}

	// 预检通过后真正的裁决在事务里：条件 UPDATE 防并发超卖
	if err := s.orders.CreateWithStock(ctx, order, quantities); err != nil {
		return nil, err
	}

	s.log.Info("订单创建成功",
		zap.Int64("order_id", order.ID),
		zap.Int64("shop_id", shopID),
		zap.Int64("buyer_id", buyerID))
	return order, nil
}

// Get 店铺侧获取订单
func (s *OrderService) Get(ctx context.Context, shopID, orderID int64) (*model.Order, error) {
	order, err := s.orders.GetByShopAndID(ctx, shopID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// List 店铺侧订单列表
func (s *OrderService) List(ctx context.Context, shopID int64, req dto.OrderListReq) ([]model.Order, int64, error) {
	return s.orders.List(ctx, repository.OrderFilter{
		ShopID:   shopID,
		Status:   req.Status,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
}

// ListMine 买家侧订单列表
func (s *OrderService) ListMine(ctx context.Context, buyerID int64, req dto.OrderListReq) ([]model.Order, int64, error) {
	return s.orders.List(ctx, repository.OrderFilter{
		BuyerID:  buyerID,
		Status:   req.Status,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
}

// ==================== 状态流转 ====================

// Process 接单 pending -> processing
func (s *OrderService) Process(ctx context.Context, shopID, orderID int64, staffNote string) error {
	return s.transition(ctx, shopID, orderID, staffNote,
		func(o *model.Order) bool { return o.CanProcess() },
		model.OrderStatusProcessing)
}

// Ship 发货 processing -> shipped
func (s *OrderService) Ship(ctx context.Context, shopID, orderID int64, staffNote string) error {
	return s.transition(ctx, shopID, orderID, staffNote,
		func(o *model.Order) bool { return o.CanShip() },
		model.OrderStatusShipped)
}

// Deliver 签收 shipped -> delivered
func (s *OrderService) Deliver(ctx context.Context, shopID, orderID int64) error {
	return s.transition(ctx, shopID, orderID, "",
		func(o *model.Order) bool { return o.CanDeliver() },
		model.OrderStatusDelivered)
}

// CancelByBuyer 买家取消
// 只有 pending/processing 可取消，取消时回补库存
func (s *OrderService) CancelByBuyer(ctx context.Context, buyerID, orderID int64) error {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if order.BuyerID != buyerID {
		return ErrNotOrderOwner
	}
	if !order.CanCancel() {
		return ErrOrderStateInvalid
	}

	if err := s.applyStatus(ctx, order, model.OrderStatusCanceled, ""); err != nil {
		return err
	}

	// 回补库存，失败只打日志：订单已取消是既成事实
	for _, item := range order.Items {
		if err := s.products.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.log.Warn("取消订单回补库存失败",
				zap.Int64("order_id", order.ID),
				zap.Int64("product_id", item.ProductID),
				zap.Error(err))
		}
	}

	s.notifyBuyer(ctx, order, "订单已取消",
		fmt.Sprintf("订单 #%d 已取消", order.ID))
	return nil
}

// transition 通用状态流转
func (s *OrderService) transition(ctx context.Context, shopID, orderID int64, staffNote string,
	allowed func(*model.Order) bool, next string) error {
	order, err := s.Get(ctx, shopID, orderID)
	if err != nil {
		return err
	}
	if !allowed(order) {
		return ErrOrderStateInvalid
	}

	if err := s.applyStatus(ctx, order, next, staffNote); err != nil {
		return err
	}

	s.notifyBuyer(ctx, order, "订单状态更新",
		fmt.Sprintf("订单 #%d 状态变更为 %s", order.ID, next))
	return nil
}

// applyStatus 落库状态与时间戳
func (s *OrderService) applyStatus(ctx context.Context, order *model.Order, next, staffNote string) error {
	fields := map[string]interface{}{"status": next}
	if staffNote != "" {
		fields["staff_note"] = staffNote
	}
	switch next {
	case model.OrderStatusShipped:
		fields["shipped_at"] = nowPtr()
	case model.OrderStatusDelivered:
		fields["delivered_at"] = nowPtr()
	case model.OrderStatusCanceled:
		fields["canceled_at"] = nowPtr()
	}
	if err := s.orders.UpdateFields(ctx, order.ID, fields); err != nil {
		return err
	}
	order.Status = next
	return nil
}

// notifyBuyer 给买家发订单通知，失败不影响主流程
func (s *OrderService) notifyBuyer(ctx context.Context, order *model.Order, title, body string) {
	if s.notify == nil {
		return
	}
	if err := s.notify.Push(ctx, order.BuyerID, order.ShopID, model.NotifyTypeOrder, title, body); err != nil {
		s.log.Warn("订单通知发送失败",
			zap.Int64("order_id", order.ID), zap.Error(err))
	}
}

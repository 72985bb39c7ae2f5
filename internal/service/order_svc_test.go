package service

import (
	"context"
	"testing"

	"multishop_v1/internal/api/dto"
	"multishop_v1/internal/model"
	"multishop_v1/internal/repository"
)

func newOrderService(t *testing.T) (*OrderService, *testRepos) {
	t.Helper()
	repos := newTestRepos(t)
	notify := NewNotificationService(repos.Notifications)
	return NewOrderService(repos.Orders, repos.Products, notify), repos
}

func orderReq(productID int64, quantity int) dto.OrderCreateReq {
	return dto.OrderCreateReq{
		Items:           []dto.OrderItemReq{{ProductID: productID, Quantity: quantity}},
		ShippingAddress: map[string]interface{}{"city": "Shanghai", "line1": "某路 1 号"},
	}
}

func TestOrderService_Create(t *testing.T) {
	svc, repos := newOrderService(t)
	ctx := context.Background()

	shop := seedShop(t, repos.DB, "order-shop")
	buyer := seedUser(t, repos.DB, "buyer@example.com", model.RoleCustomer)
	product := seedProduct(t, repos.DB, shop.ID, "SKU-1", 1500, 5)

	t.Run("下单扣库存并快照价格", func(t *testing.T) {
		order, err := svc.Create(ctx, shop.ID, buyer.ID, orderReq(product.ID, 3))
		if err != nil {
			t.Fatalf("下单失败: %v", err)
		}
		if order.Status != model.OrderStatusPending {
			t.Errorf("初始状态错误: %s", order.Status)
		}
		if order.SubtotalAmount != 4500 || order.GrandTotalAmount != 4500 {
			t.Errorf("金额计算错误: subtotal=%d grand=%d", order.SubtotalAmount, order.GrandTotalAmount)
		}
		if len(order.Items) != 1 || order.Items[0].PriceAmount != 1500 {
			t.Errorf("价格快照错误: %+v", order.Items)
		}

		stored, _ := repos.Products.GetByID(ctx, product.ID)
		if stored.Stock != 2 {
			t.Errorf("库存未扣减: got %d", stored.Stock)
		}
	})

	t.Run("库存不足拒绝", func(t *testing.T) {
		if _, err := svc.Create(ctx, shop.ID, buyer.ID, orderReq(product.ID, 10)); err != repository.ErrInsufficientStock {
			t.Errorf("期望 ErrInsufficientStock, got %v", err)
		}

		stored, _ := repos.Products.GetByID(ctx, product.ID)
		if stored.Stock != 2 {
			t.Errorf("失败下单不应动库存: got %d", stored.Stock)
		}
	})

	t.Run("下架商品拒绝", func(t *testing.T) {
		inactive := seedProduct(t, repos.DB, shop.ID, "SKU-OFF", 900, 5)
		repos.DB.Model(inactive).Update("status", model.ProductStatusInactive)

		if _, err := svc.Create(ctx, shop.ID, buyer.ID, orderReq(inactive.ID, 1)); err != ErrProductNotFound {
			t.Errorf("期望 ErrProductNotFound, got %v", err)
		}
	})

	t.Run("跨店商品拒绝", func(t *testing.T) {
		other := seedShop(t, repos.DB, "other-order-shop")
		foreign := seedProduct(t, repos.DB, other.ID, "SKU-X", 100, 5)

		if _, err := svc.Create(ctx, shop.ID, buyer.ID, orderReq(foreign.ID, 1)); err != ErrProductNotFound {
			t.Errorf("期望 ErrProductNotFound, got %v", err)
		}
	})
}

func TestOrderService_Transitions(t *testing.T) {
	svc, repos := newOrderService(t)
	ctx := context.Background()

	shop := seedShop(t, repos.DB, "flow-shop")
	buyer := seedUser(t, repos.DB, "flow-buyer@example.com", model.RoleCustomer)
	product := seedProduct(t, repos.DB, shop.ID, "SKU-FLOW", 1000, 10)

	order, err := svc.Create(ctx, shop.ID, buyer.ID, orderReq(product.ID, 1))
	if err != nil {
		t.Fatalf("下单失败: %v", err)
	}

	t.Run("pending不可直接发货", func(t *testing.T) {
		if err := svc.Ship(ctx, shop.ID, order.ID, ""); err != ErrOrderStateInvalid {
			t.Errorf("期望 ErrOrderStateInvalid, got %v", err)
		}
	})

	t.Run("完整流转", func(t *testing.T) {
		if err := svc.Process(ctx, shop.ID, order.ID, "准备中"); err != nil {
			t.Fatalf("接单失败: %v", err)
		}
		if err := svc.Ship(ctx, shop.ID, order.ID, "已出库"); err != nil {
			t.Fatalf("发货失败: %v", err)
		}
		if err := svc.Deliver(ctx, shop.ID, order.ID); err != nil {
			t.Fatalf("签收失败: %v", err)
		}

		stored, _ := svc.Get(ctx, shop.ID, order.ID)
		if stored.Status != model.OrderStatusDelivered {
			t.Errorf("终态错误: %s", stored.Status)
		}
		if stored.ShippedAt == nil || stored.DeliveredAt == nil {
			t.Error("时间戳未记录")
		}
		if stored.StaffNote != "已出库" {
			t.Errorf("员工备注错误: %s", stored.StaffNote)
		}
	})

	t.Run("终态不可再流转", func(t *testing.T) {
		if err := svc.Process(ctx, shop.ID, order.ID, ""); err != ErrOrderStateInvalid {
			t.Errorf("期望 ErrOrderStateInvalid, got %v", err)
		}
	})

	t.Run("跨店订单不可见", func(t *testing.T) {
		other := seedShop(t, repos.DB, "flow-other")
		if _, err := svc.Get(ctx, other.ID, order.ID); err != ErrOrderNotFound {
			t.Errorf("期望 ErrOrderNotFound, got %v", err)
		}
	})
}

func TestOrderService_CancelByBuyer(t *testing.T) {
	svc, repos := newOrderService(t)
	ctx := context.Background()

	shop := seedShop(t, repos.DB, "cancel-shop")
	buyer := seedUser(t, repos.DB, "cancel-buyer@example.com", model.RoleCustomer)
	stranger := seedUser(t, repos.DB, "stranger@example.com", model.RoleCustomer)
	product := seedProduct(t, repos.DB, shop.ID, "SKU-CANCEL", 2000, 5)

	order, err := svc.Create(ctx, shop.ID, buyer.ID, orderReq(product.ID, 2))
	if err != nil {
		t.Fatalf("下单失败: %v", err)
	}

	t.Run("非本人拒绝", func(t *testing.T) {
		if err := svc.CancelByBuyer(ctx, stranger.ID, order.ID); err != ErrNotOrderOwner {
			t.Errorf("期望 ErrNotOrderOwner, got %v", err)
		}
	})

	t.Run("取消回补库存并通知", func(t *testing.T) {
		if err := svc.CancelByBuyer(ctx, buyer.ID, order.ID); err != nil {
			t.Fatalf("取消失败: %v", err)
		}

		stored, _ := svc.Get(ctx, shop.ID, order.ID)
		if stored.Status != model.OrderStatusCanceled || stored.CanceledAt == nil {
			t.Errorf("取消状态错误: %+v", stored.Status)
		}

		restocked, _ := repos.Products.GetByID(ctx, product.ID)
		if restocked.Stock != 5 {
			t.Errorf("库存未回补: got %d", restocked.Stock)
		}

		var count int64
		repos.DB.Model(&model.Notification{}).Where("user_id = ? AND type = ?", buyer.ID, model.NotifyTypeOrder).Count(&count)
		if count != 1 {
			t.Errorf("买家通知缺失: got %d", count)
		}
	})

	t.Run("已取消不可再取消", func(t *testing.T) {
		if err := svc.CancelByBuyer(ctx, buyer.ID, order.ID); err != ErrOrderStateInvalid {
			t.Errorf("期望 ErrOrderStateInvalid, got %v", err)
		}
	})

	t.Run("已发货不可取消", func(t *testing.T) {
		shipped, err := svc.Create(ctx, shop.ID, buyer.ID, orderReq(product.ID, 1))
		if err != nil {
			t.Fatalf("下单失败: %v", err)
		}
		_ = svc.Process(ctx, shop.ID, shipped.ID, "")
		_ = svc.Ship(ctx, shop.ID, shipped.ID, "")

		if err := svc.CancelByBuyer(ctx, buyer.ID, shipped.ID); err != ErrOrderStateInvalid {
			t.Errorf("期望 ErrOrderStateInvalid, got %v", err)
		}
	})
}

package service

import (
	"context"
	"testing"

	"multishop_v1/internal/api/dto"
	"multishop_v1/internal/model"
	"multishop_v1/pkg/logger"
)

func TestAnalyticsService_Overview(t *testing.T) {
	repos := newTestRepos(t)
	notify := NewNotificationService(repos.Notifications)
	orderSvc := NewOrderService(repos.Orders, repos.Products, notify)
	svc := NewAnalyticsService(repos.Users, repos.Shops, repos.Products, repos.Orders, nil, logger.Named("analytics_test"))
	ctx := context.Background()

	buyer := seedUser(t, repos.DB, "stat-buyer@example.com", model.RoleCustomer)
	seedUser(t, repos.DB, "stat-admin@example.com", model.RoleAdmin)

	shopA := seedShop(t, repos.DB, "stat-shop-a")
	shopB := seedShop(t, repos.DB, "stat-shop-b")
	productA := seedProduct(t, repos.DB, shopA.ID, "SKU-A", 1000, 100) // 10.00
	productB := seedProduct(t, repos.DB, shopB.ID, "SKU-B", 2550, 100) // 25.50

	mustOrder := func(shopID, productID int64, qty int) *model.Order {
		t.Helper()
		order, err := orderSvc.Create(ctx, shopID, buyer.ID, dto.OrderCreateReq{
			Items:           []dto.OrderItemReq{{ProductID: productID, Quantity: qty}},
			ShippingAddress: map[string]interface{}{"city": "Beijing"},
		})
		if err != nil {
			t.Fatalf("造订单失败: %v", err)
		}
		return order
	}

	mustOrder(shopA.ID, productA.ID, 2) // 20.00
	mustOrder(shopB.ID, productB.ID, 1) // 25.50
	canceled := mustOrder(shopB.ID, productB.ID, 3)
	if err := orderSvc.CancelByBuyer(ctx, buyer.ID, canceled.ID); err != nil {
		t.Fatalf("取消订单失败: %v", err)
	}

	overview, err := svc.Overview(ctx)
	if err != nil {
		t.Fatalf("查询总览失败: %v", err)
	}

	if overview.UserCount != 2 {
		t.Errorf("用户数错误: got %d", overview.UserCount)
	}
	if overview.ShopCount != 2 {
		t.Errorf("店铺数错误: got %d", overview.ShopCount)
	}
	if overview.ProductCount != 2 {
		t.Errorf("商品数错误: got %d", overview.ProductCount)
	}
	if overview.OrderCount != 3 {
		t.Errorf("订单数错误: got %d", overview.OrderCount)
	}

	// 已取消订单不计入销售额
	if overview.TotalRevenue != "45.50" {
		t.Errorf("总销售额错误: got %s", overview.TotalRevenue)
	}

	revenueByShop := make(map[int64]string, len(overview.ShopSales))
	for _, row := range overview.ShopSales {
		revenueByShop[row.ShopID] = row.Revenue
	}
	if revenueByShop[shopA.ID] != "20.00" {
		t.Errorf("店铺A销售额错误: got %s", revenueByShop[shopA.ID])
	}
	if revenueByShop[shopB.ID] != "25.50" {
		t.Errorf("店铺B销售额错误: got %s", revenueByShop[shopB.ID])
	}
}

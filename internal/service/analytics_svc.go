package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"multishop_v1/internal/repository"
)

// ==================== AnalyticsService 平台统计服务 ====================

const (
	overviewCacheKey = "analytics:overview"
	overviewCacheTTL = 60 * time.Second
)

// PlatformOverview 平台总览
type PlatformOverview struct {
	UserCount    int64           `json:"user_count"`
	ShopCount    int64           `json:"shop_count"`
	ProductCount int64           `json:"product_count"`
	OrderCount   int64           `json:"order_count"`
	TotalRevenue string          `json:"total_revenue"` // 元，保留两位小数
	ShopSales    []ShopSalesItem `json:"shop_sales"`
}

// ShopSalesItem 单店销售汇总
type ShopSalesItem struct {
	ShopID     int64  `json:"shop_id"`
	ShopName   string `json:"shop_name"`
	OrderCount int64  `json:"order_count"`
	Revenue    string `json:"revenue"` // 元，保留两位小数
}

// AnalyticsService 平台侧数据统计，仅全局管理角色可访问
type AnalyticsService struct {
	users    repository.UserRepository
	shops    repository.ShopRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
	cache    *redis.Client // 可为 nil，未配置 Redis 时直查数据库
	log      *zap.Logger
}

// NewAnalyticsService 创建统计服务
func NewAnalyticsService(
	users repository.UserRepository,
	shops repository.ShopRepository,
	products repository.ProductRepository,
	orders repository.OrderRepository,
	cache *redis.Client,
	log *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		users:    users,
		shops:    shops,
		products: products,
		orders:   orders,
		cache:    cache,
		log:      log,
	}
}

// Overview 平台总览：用户/店铺/商品/订单数与各店销售额
// 配置了 Redis 时走短时缓存，缓存故障不阻塞查询
func (s *AnalyticsService) Overview(ctx context.Context) (*PlatformOverview, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, overviewCacheKey).Bytes(); err == nil {
			var overview PlatformOverview
			if err := json.Unmarshal(cached, &overview); err == nil {
				return &overview, nil
			}
		} else if err != redis.Nil {
			s.log.Warn("读取统计缓存失败", zap.Error(err))
		}
	}

	overview, err := s.buildOverview(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(overview); err == nil {
			if err := s.cache.Set(ctx, overviewCacheKey, data, overviewCacheTTL).Err(); err != nil {
				s.log.Warn("写入统计缓存失败", zap.Error(err))
			}
		}
	}
	return overview, nil
}

func (s *AnalyticsService) buildOverview(ctx context.Context) (*PlatformOverview, error) {
	userCount, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	shopCount, err := s.shops.Count(ctx)
	if err != nil {
		return nil, err
	}
	productCount, err := s.products.CountByShop(ctx, 0)
	if err != nil {
		return nil, err
	}
	orderCount, err := s.orders.Count(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.orders.SalesSummary(ctx)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	items := make([]ShopSalesItem, 0, len(rows))
	for _, row := range rows {
		revenue := centsToYuan(row.RevenueAmount)
		total = total.Add(revenue)
		items = append(items, ShopSalesItem{
			ShopID:     row.ShopID,
			ShopName:   row.ShopName,
			OrderCount: row.OrderCount,
			Revenue:    revenue.StringFixed(2),
		})
	}

	return &PlatformOverview{
		UserCount:    userCount,
		ShopCount:    shopCount,
		ProductCount: productCount,
		OrderCount:   orderCount,
		TotalRevenue: total.StringFixed(2),
		ShopSales:    items,
	}, nil
}

// centsToYuan 分转元
func centsToYuan(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))
}

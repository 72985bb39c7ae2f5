package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"multishop_v1/internal/model"
)

func setupRepoDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "打开测试数据库失败")
	require.NoError(t, db.AutoMigrate(
		&model.Shop{}, &model.User{}, &model.Product{},
		&model.Order{}, &model.OrderItem{},
	), "迁移测试表失败")
	return db
}

func TestProductRepository_AdjustStock(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	product := &model.Product{
		ShopID: 1, SKU: "ADJ-001", Title: "库存测试",
		Status: model.ProductStatusActive, PriceAmount: 100, Stock: 10,
	}
	require.NoError(t, db.Create(product).Error)

	reload := func() *model.Product {
		stored, err := repo.GetByID(ctx, product.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		return stored
	}

	// 正向入库
	require.NoError(t, repo.AdjustStock(ctx, product.ID, 5))
	assert.Equal(t, 15, reload().Stock)

	// 扣减超过库存：条件 UPDATE 零行命中，库存不变
	err := repo.AdjustStock(ctx, product.ID, -16)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 15, reload().Stock)

	// 扣到恰好为零允许
	require.NoError(t, repo.AdjustStock(ctx, product.ID, -15))
	assert.Equal(t, 0, reload().Stock)

	// 不存在的商品按库存不足处理
	assert.ErrorIs(t, repo.AdjustStock(ctx, 99999, -1), ErrInsufficientStock)
}

func TestOrderRepository_CreateWithStock(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	plenty := &model.Product{
		ShopID: 1, SKU: "TX-001", Title: "充足",
		Status: model.ProductStatusActive, PriceAmount: 100, Stock: 10,
	}
	scarce := &model.Product{
		ShopID: 1, SKU: "TX-002", Title: "紧缺",
		Status: model.ProductStatusActive, PriceAmount: 200, Stock: 1,
	}
	require.NoError(t, db.Create(plenty).Error)
	require.NoError(t, db.Create(scarce).Error)

	newOrder := func() *model.Order {
		return &model.Order{
			ShopID: 1, BuyerID: 1, Status: model.OrderStatusPending,
			Items: []model.OrderItem{
				{ProductID: plenty.ID, SKU: plenty.SKU, Title: plenty.Title, Quantity: 2, PriceAmount: 100, TotalAmount: 200},
				{ProductID: scarce.ID, SKU: scarce.SKU, Title: scarce.Title, Quantity: 1, PriceAmount: 200, TotalAmount: 200},
			},
		}
	}

	t.Run("库存足够整单成功", func(t *testing.T) {
		order := newOrder()
		require.NoError(t, repo.CreateWithStock(ctx, order, map[int64]int{
			plenty.ID: 2,
			scarce.ID: 1,
		}))
		assert.NotZero(t, order.ID)

		stored, err := repo.GetByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Len(t, stored.Items, 2)
	})

	t.Run("任一商品不足整单回滚", func(t *testing.T) {
		var before model.Product
		require.NoError(t, db.First(&before, plenty.ID).Error)

		err := repo.CreateWithStock(ctx, newOrder(), map[int64]int{
			plenty.ID: 2,
			scarce.ID: 5, // 紧缺商品已被上一单买空
		})
		assert.ErrorIs(t, err, ErrInsufficientStock)

		// 充足商品的扣减也一并回滚
		var after model.Product
		require.NoError(t, db.First(&after, plenty.ID).Error)
		assert.Equal(t, before.Stock, after.Stock)

		var orderCount int64
		db.Model(&model.Order{}).Count(&orderCount)
		assert.Equal(t, int64(1), orderCount)
	})
}

package service

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"multishop_v1/internal/model"
	"multishop_v1/internal/repository"
)

// testRepos 测试用仓库集合
type testRepos struct {
	DB            *gorm.DB
	Users         repository.UserRepository
	Shops         repository.ShopRepository
	Members       repository.ShopMemberRepository
	Products      repository.ProductRepository
	Orders        repository.OrderRepository
	Reviews       repository.ReviewRepository
	Notifications repository.NotificationRepository
}

// newTestRepos 内存库加全套仓库
func newTestRepos(t *testing.T) *testRepos {
	t.Helper()
	db := setupServiceDB(t)
	return &testRepos{
		DB:            db,
		Users:         repository.NewUserRepository(db),
		Shops:         repository.NewShopRepository(db),
		Members:       repository.NewShopMemberRepository(db),
		Products:      repository.NewProductRepository(db),
		Orders:        repository.NewOrderRepository(db),
		Reviews:       repository.NewReviewRepository(db),
		Notifications: repository.NewNotificationRepository(db),
	}
}

// setupServiceDB 内存库，迁移全部业务表
func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("连接数据库失败: %v", err)
	}
	err = db.AutoMigrate(
		&model.User{},
		&model.Shop{}, &model.ShopMember{},
		&model.Product{},
		&model.Order{}, &model.OrderItem{},
		&model.Review{},
		&model.Notification{},
	)
	if err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}

// seedUser 造一个启用状态的用户
func seedUser(t *testing.T, db *gorm.DB, email, role string) *model.User {
	t.Helper()
	user := &model.User{Email: email, Password: "x", Role: role, IsActive: true}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("造用户失败: %v", err)
	}
	return user
}

// seedShop 造一个正常状态的店铺
func seedShop(t *testing.T, db *gorm.DB, slug string) *model.Shop {
	t.Helper()
	shop := &model.Shop{Slug: slug, Name: slug, Status: model.ShopStatusActive}
	if err := db.Create(shop).Error; err != nil {
		t.Fatalf("造店铺失败: %v", err)
	}
	return shop
}

// seedProduct 造一个在售商品
func seedProduct(t *testing.T, db *gorm.DB, shopID int64, sku string, price int64, stock int) *model.Product {
	t.Helper()
	product := &model.Product{
		ShopID:      shopID,
		SKU:         sku,
		Title:       "商品 " + sku,
		Status:      model.ProductStatusActive,
		PriceAmount: price,
		Currency:    "USD",
		Stock:       stock,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("造商品失败: %v", err)
	}
	return product
}

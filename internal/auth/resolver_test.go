package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"multishop_v1/internal/model"
	"multishop_v1/internal/repository"
)

// setupAuthDB 内存库，迁移认证链路用到的表
func setupAuthDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("连接数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Shop{}, &model.ShopMember{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}

// ==================== TenantResolver ====================

func TestTenantResolver_Resolve(t *testing.T) {
	db := setupAuthDB(t)
	shops := repository.NewShopRepository(db)
	resolver := NewTenantResolver(shops)
	ctx := context.Background()

	db.Create(&model.Shop{Slug: "acme-co", Name: "Acme", Status: model.ShopStatusActive})
	db.Create(&model.Shop{Slug: "frozen-shop", Name: "Frozen", Status: model.ShopStatusSuspended})

	t.Run("路径参数解析", func(t *testing.T) {
		shop, err := resolver.Resolve(ctx, SlugSources{Path: "acme-co"})
		if err != nil {
			t.Fatalf("解析失败: %v", err)
		}
		if shop == nil || shop.Slug != "acme-co" {
			t.Errorf("店铺解析错误: %+v", shop)
		}
	})

	t.Run("全空视为无租户", func(t *testing.T) {
		shop, err := resolver.Resolve(ctx, SlugSources{})
		if err != nil {
			t.Fatalf("无租户请求不应报错: %v", err)
		}
		if shop != nil {
			t.Errorf("期望无租户, got %+v", shop)
		}
	})

	t.Run("多来源一致", func(t *testing.T) {
		shop, err := resolver.Resolve(ctx, SlugSources{Path: "acme-co", Query: "acme-co", Header: "acme-co"})
		if err != nil {
			t.Fatalf("解析失败: %v", err)
		}
		if shop.Slug != "acme-co" {
			t.Errorf("店铺解析错误: %s", shop.Slug)
		}
	})

	t.Run("多来源冲突", func(t *testing.T) {
		if _, err := resolver.Resolve(ctx, SlugSources{Path: "acme-co", Header: "frozen-shop"}); err != ErrConflictingTenantContext {
			t.Errorf("期望 ErrConflictingTenantContext, got %v", err)
		}
	})

	t.Run("语法非法", func(t *testing.T) {
		for _, slug := range []string{"ab", "UPPER-CASE", "has space", "语法非法"} {
			if _, err := resolver.Resolve(ctx, SlugSources{Path: slug}); err != ErrInvalidTenantSlug {
				t.Errorf("slug %q 期望 ErrInvalidTenantSlug, got %v", slug, err)
			}
		}
	})

	t.Run("店铺不存在", func(t *testing.T) {
		if _, err := resolver.Resolve(ctx, SlugSources{Path: "no-such-shop"}); err != ErrTenantNotFound {
			t.Errorf("期望 ErrTenantNotFound, got %v", err)
		}
	})

	t.Run("店铺已封禁", func(t *testing.T) {
		if _, err := resolver.Resolve(ctx, SlugSources{Path: "frozen-shop"}); err != ErrTenantSuspended {
			t.Errorf("期望 ErrTenantSuspended, got %v", err)
		}
	})
}

func TestValidSlug(t *testing.T) {
	valid := []string{"abc", "shop-1", "a1b2c3", "my-long-shop-name-0123456789"}
	invalid := []string{"", "ab", "ABC", "shop_1", "shop 1", "-" /* 长度不足 */}

	for _, s := range valid {
		if !ValidSlug(s) {
			t.Errorf("slug %q 应当合法", s)
		}
	}
	for _, s := range invalid {
		if ValidSlug(s) {
			t.Errorf("slug %q 应当非法", s)
		}
	}
}

// ==================== IdentityResolver ====================

// contendedUserRepo 在首次建档落库前抢先写入同身份用户，模拟并发建档竞争
type contendedUserRepo struct {
	repository.UserRepository
	db    *gorm.DB
	rival *model.User
	fired bool
}

func (r *contendedUserRepo) Create(ctx context.Context, user *model.User) error {
	if !r.fired {
		r.fired = true
		if err := r.db.Create(r.rival).Error; err != nil {
			return err
		}
	}
	return r.UserRepository.Create(ctx, user)
}

func TestIdentityResolver_Resolve(t *testing.T) {
	db := setupAuthDB(t)
	users := repository.NewUserRepository(db)
	resolver := NewIdentityResolver(users)
	ctx := context.Background()

	t.Run("subject精确匹配", func(t *testing.T) {
		subject := "sub-existing"
		db.Create(&model.User{Email: "dave@example.com", Password: "x", AuthSubject: &subject, Role: model.RoleCustomer, IsActive: true})

		user, err := resolver.Resolve(ctx, &VerifiedClaims{Path: TrustSharedSecret, Subject: "sub-existing"})
		if err != nil {
			t.Fatalf("解析失败: %v", err)
		}
		if user.Email != "dave@example.com" {
			t.Errorf("匹配到了错误的用户: %s", user.Email)
		}
	})

	t.Run("邮箱回落并回填subject", func(t *testing.T) {
		db.Create(&model.User{Email: "erin@example.com", Password: "x", Role: model.RoleCustomer, IsActive: true})

		user, err := resolver.Resolve(ctx, &VerifiedClaims{
			Path:    TrustRemoteKey,
			Subject: "sub-new-binding",
			Email:   "Erin@Example.com", // 归一化后匹配
		})
		if err != nil {
			t.Fatalf("解析失败: %v", err)
		}

		var stored model.User
		db.First(&stored, user.ID)
		if stored.AuthSubject == nil || *stored.AuthSubject != "sub-new-binding" {
			t.Errorf("subject 回填失败: %+v", stored.AuthSubject)
		}
	})

	t.Run("首次出现自动建档", func(t *testing.T) {
		user, err := resolver.Resolve(ctx, &VerifiedClaims{
			Path:    TrustRemoteKey,
			Subject: "sub-brand-new",
			Email:   "frank@example.com",
		})
		if err != nil {
			t.Fatalf("自动建档失败: %v", err)
		}
		if user.Role != model.RoleCustomer {
			t.Errorf("建档角色错误: got %s", user.Role)
		}
		if user.AuthSubject == nil || *user.AuthSubject != "sub-brand-new" {
			t.Errorf("建档未绑定 subject")
		}

		// 同一身份再次解析，命中同一条记录
		again, err := resolver.Resolve(ctx, &VerifiedClaims{
			Path:    TrustRemoteKey,
			Subject: "sub-brand-new",
			Email:   "frank@example.com",
		})
		if err != nil {
			t.Fatalf("二次解析失败: %v", err)
		}
		if again.ID != user.ID {
			t.Errorf("重复建档: %d != %d", again.ID, user.ID)
		}
	})

	t.Run("并发建档靠唯一索引裁决", func(t *testing.T) {
		subject := "sub-race"
		rival := &model.User{Email: "race@example.com", Password: "x", AuthSubject: &subject, Role: model.RoleCustomer, IsActive: true}
		contended := NewIdentityResolver(&contendedUserRepo{UserRepository: users, db: db, rival: rival})

		user, err := contended.Resolve(ctx, &VerifiedClaims{
			Path:    TrustRemoteKey,
			Subject: "sub-race",
			Email:   "race@example.com",
		})
		if err != nil {
			t.Fatalf("撞唯一索引后应重查成功: %v", err)
		}
		if user.ID != rival.ID {
			t.Errorf("应命中对方先建的记录: got %d, want %d", user.ID, rival.ID)
		}

		var count int64
		db.Model(&model.User{}).Where("email = ?", "race@example.com").Count(&count)
		if count != 1 {
			t.Errorf("同一身份建了 %d 条档", count)
		}
	})

	t.Run("无邮箱无法建档", func(t *testing.T) {
		if _, err := resolver.Resolve(ctx, &VerifiedClaims{Path: TrustRemoteKey, Subject: "sub-no-email"}); err != ErrIdentityResolutionFailed {
			t.Errorf("期望 ErrIdentityResolutionFailed, got %v", err)
		}
	})

	t.Run("兼容路径按内嵌id直查", func(t *testing.T) {
		local := &model.User{Email: "local@example.com", Password: "x", Role: model.RoleStaff, IsActive: true}
		db.Create(local)

		user, err := resolver.Resolve(ctx, &VerifiedClaims{
			Path:  TrustLegacy,
			Email: "stale@example.com", // 凭证里的旧邮箱不参与查找
			Raw:   jwt.MapClaims{"user_id": local.ID},
		})
		if err != nil {
			t.Fatalf("解析失败: %v", err)
		}
		if user.ID != local.ID || user.Email != "local@example.com" {
			t.Errorf("匹配到了错误的用户: %+v", user)
		}
	})

	t.Run("兼容路径停用账号拒绝", func(t *testing.T) {
		frozen := &model.User{Email: "frozen-local@example.com", Password: "x", Role: model.RoleCustomer, IsActive: false}
		db.Create(frozen)

		if _, err := resolver.Resolve(ctx, &VerifiedClaims{
			Path: TrustLegacy,
			Raw:  jwt.MapClaims{"user_id": frozen.ID},
		}); err != ErrAccountInactive {
			t.Errorf("期望 ErrAccountInactive, got %v", err)
		}
	})

	t.Run("兼容路径不建档", func(t *testing.T) {
		// 只有邮箱没有内嵌 id 的兼容凭证既不回落也不建档
		if _, err := resolver.Resolve(ctx, &VerifiedClaims{Path: TrustLegacy, Email: "ghost@example.com"}); err != ErrIdentityResolutionFailed {
			t.Errorf("期望 ErrIdentityResolutionFailed, got %v", err)
		}

		if _, err := resolver.Resolve(ctx, &VerifiedClaims{
			Path: TrustLegacy,
			Raw:  jwt.MapClaims{"user_id": int64(99999)},
		}); err != ErrIdentityResolutionFailed {
			t.Errorf("未知 id 期望 ErrIdentityResolutionFailed, got %v", err)
		}
	})

	t.Run("停用账号拒绝", func(t *testing.T) {
		subject := "sub-inactive"
		db.Create(&model.User{Email: "inactive@example.com", Password: "x", AuthSubject: &subject, Role: model.RoleCustomer, IsActive: false})

		if _, err := resolver.Resolve(ctx, &VerifiedClaims{Path: TrustSharedSecret, Subject: "sub-inactive"}); err != ErrAccountInactive {
			t.Errorf("期望 ErrAccountInactive, got %v", err)
		}
	})

	t.Run("声明全空", func(t *testing.T) {
		if _, err := resolver.Resolve(ctx, &VerifiedClaims{Path: TrustSharedSecret}); err != ErrIdentityResolutionFailed {
			t.Errorf("期望 ErrIdentityResolutionFailed, got %v", err)
		}
	})
}

// ==================== Gate ====================

func TestGate_Authorize(t *testing.T) {
	db := setupAuthDB(t)
	members := repository.NewShopMemberRepository(db)
	users := repository.NewUserRepository(db)
	gate := NewGate(members, users)
	ctx := context.Background()

	shop := &model.Shop{Slug: "acme-co", Name: "Acme", Status: model.ShopStatusActive}
	db.Create(shop)

	// 平台角色是 customer，但在店内是 admin
	shopAdmin := &model.User{Email: "admin@acme.example.com", Password: "x", Role: model.RoleCustomer, IsActive: true}
	db.Create(shopAdmin)
	db.Create(&model.ShopMember{ShopID: shop.ID, UserID: shopAdmin.ID, Role: model.ShopRoleAdmin, Status: model.MemberStatusActive})

	// 平台 admin，但不是店铺成员
	platformAdmin := &model.User{Email: "root@example.com", Password: "x", Role: model.RoleAdmin, IsActive: true}
	db.Create(platformAdmin)

	// 停职成员
	inactiveMember := &model.User{Email: "left@acme.example.com", Password: "x", Role: model.RoleCustomer, IsActive: true}
	db.Create(inactiveMember)
	db.Create(&model.ShopMember{ShopID: shop.ID, UserID: inactiveMember.ID, Role: model.ShopRoleManager, Status: model.MemberStatusInactive})

	t.Run("店内角色优先于平台角色", func(t *testing.T) {
		if err := gate.Authorize(ctx, shopAdmin, shop, model.ShopRoleAdmin); err != nil {
			t.Errorf("店铺管理员应当放行: %v", err)
		}
	})

	t.Run("平台角色不隐式穿透租户", func(t *testing.T) {
		if err := gate.Authorize(ctx, platformAdmin, shop, model.ShopRoleAdmin); err != ErrInsufficientPermissions {
			t.Errorf("非成员应当被拒, got %v", err)
		}
	})

	t.Run("无租户回落平台角色", func(t *testing.T) {
		if err := gate.Authorize(ctx, platformAdmin, nil, model.RoleAdmin); err != nil {
			t.Errorf("平台管理员应当放行: %v", err)
		}
		if err := gate.Authorize(ctx, shopAdmin, nil, model.RoleAdmin); err != ErrInsufficientPermissions {
			t.Errorf("平台普通用户应当被拒, got %v", err)
		}
	})

	t.Run("停职成员拒绝", func(t *testing.T) {
		if err := gate.Authorize(ctx, inactiveMember, shop, model.ShopRoleManager); err != ErrInsufficientPermissions {
			t.Errorf("停职成员应当被拒, got %v", err)
		}
	})

	t.Run("角色不在要求集合内", func(t *testing.T) {
		staff := &model.User{Email: "staff@acme.example.com", Password: "x", Role: model.RoleCustomer, IsActive: true}
		db.Create(staff)
		db.Create(&model.ShopMember{ShopID: shop.ID, UserID: staff.ID, Role: model.ShopRoleStaff, Status: model.MemberStatusActive})

		if err := gate.Authorize(ctx, staff, shop, model.ShopRoleAdmin, model.ShopRoleManager); err != ErrInsufficientPermissions {
			t.Errorf("店员访问管理端应当被拒, got %v", err)
		}
	})

	t.Run("无角色要求直接放行", func(t *testing.T) {
		if err := gate.Authorize(ctx, shopAdmin, shop); err != nil {
			t.Errorf("无角色要求应当放行: %v", err)
		}
	})

	t.Run("通过后记录最近店铺", func(t *testing.T) {
		if err := gate.Authorize(ctx, shopAdmin, shop, model.ShopRoleAdmin); err != nil {
			t.Fatalf("授权失败: %v", err)
		}

		// 附带动作是异步的，轮询等待
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			var stored model.User
			db.First(&stored, shopAdmin.ID)
			if stored.LastShopID == shop.ID {
				return
			}
			time.Sleep(20 * time.Millisecond)
		}
		t.Error("last_shop_id 未更新")
	})
}

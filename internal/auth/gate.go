package auth

import (
	"context"
	"time"

	"go.uber.org/zap"

	"multishop_v1/internal/model"
	"multishop_v1/internal/repository"
	"multishop_v1/pkg/logger"
)

// ==================== Gate 授权闸门 ====================

// Gate 两级授权策略
// 有租户上下文时查店铺成员角色，没有时回落到平台级角色
// 与传输层解耦，可以脱离 HTTP 单测
type Gate struct {
	members repository.ShopMemberRepository
	users   repository.UserRepository
	log     *zap.Logger
}

// NewGate 创建授权闸门
func NewGate(members repository.ShopMemberRepository, users repository.UserRepository) *Gate {
	return &Gate{
		members: members,
		users:   users,
		log:     logger.Named("gate"),
	}
}

// Authorize 授权判定
// shop 为 nil 表示无租户上下文，按用户的平台级角色判定
// 判定通过且有租户时，异步记录用户最近访问的店铺
func (g *Gate) Authorize(ctx context.Context, user *model.User, shop *model.Shop, required ...string) error {
	if len(required) == 0 {
		return nil
	}

	// 无租户: 平台级角色回落
	if shop == nil {
		if roleIn(user.Role, required) {
			return nil
		}
		return ErrInsufficientPermissions
	}

	// 有租户: 只看店铺内的成员角色，平台角色不参与
	member, err := g.members.GetByShopAndUser(ctx, shop.ID, user.ID)
	if err != nil {
		return ErrInternalAuth
	}
	if member == nil || !member.IsActive() || !roleIn(member.Role, required) {
		return ErrInsufficientPermissions
	}

	// 通过后的附带动作，失败只打日志，绝不影响本次请求
	go g.touchLastShop(user.ID, shop.ID)

	return nil
}

// touchLastShop 记录最近访问的店铺
// 请求可能已经结束，用独立的短超时上下文
func (g *Gate) touchLastShop(userID, shopID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := g.users.UpdateLastShop(ctx, userID, shopID); err != nil {
		g.log.Warn("记录最近访问店铺失败",
			zap.Int64("user_id", userID),
			zap.Int64("shop_id", shopID),
			zap.Error(err))
	}
}

// roleIn 角色是否在要求集合内
func roleIn(role string, required []string) bool {
	for _, r := range required {
		if role == r {
			return true
		}
	}
	return false
}

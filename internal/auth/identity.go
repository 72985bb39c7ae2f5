package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"multishop_v1/internal/model"
	"multishop_v1/internal/repository"
	"multishop_v1/pkg/logger"
)

// ==================== IdentityResolver 身份解析器 ====================

// IdentityResolver 把验签通过的声明映射为本地用户
// 外部身份首次出现时自动建档
type IdentityResolver struct {
	users repository.UserRepository
	log   *zap.Logger
}

// NewIdentityResolver 创建身份解析器
func NewIdentityResolver(users repository.UserRepository) *IdentityResolver {
	return &IdentityResolver{
		users: users,
		log:   logger.Named("identity"),
	}
}

// Resolve 解析身份
// 外部身份查找顺序: subject 精确匹配 -> 归一化邮箱回落(并回填 subject) -> 自动建档
// 兼容路径凭证按内嵌的用户 id 直查；停用账号直接终止请求，不返回用户
func (r *IdentityResolver) Resolve(ctx context.Context, claims *VerifiedClaims) (*model.User, error) {
	// 兼容路径凭证由本服务签发，不走外部身份流程，也永不建档
	if claims.Path == TrustLegacy {
		return r.resolveLegacy(ctx, claims)
	}

	email := strings.ToLower(strings.TrimSpace(claims.Email))
	subject := claims.Subject

	if subject == "" && email == "" {
		return nil, ErrIdentityResolutionFailed
	}

	// (a) 外部 subject 精确匹配
	if subject != "" {
		user, err := r.users.GetByAuthSubject(ctx, subject)
		if err != nil {
			return nil, ErrInternalAuth
		}
		if user != nil {
			return r.checkActive(user)
		}
	}

	// (b) 邮箱回落匹配
	if email != "" {
		user, err := r.users.GetByEmail(ctx, email)
		if err != nil {
			return nil, ErrInternalAuth
		}
		if user != nil {
			// 本地老账号第一次用外部身份登录，补上 subject 绑定
			// 回填失败不阻断请求，下次登录还有机会
			if subject != "" && user.AuthSubject == nil {
				if err := r.users.LinkAuthSubject(ctx, user.ID, subject); err != nil {
					r.log.Warn("回填外部身份绑定失败",
						zap.Int64("user_id", user.ID), zap.Error(err))
				}
			}
			return r.checkActive(user)
		}
	}

	// (c) 自动建档
	return r.provision(ctx, subject, email, claims)
}

// resolveLegacy 兼容路径身份解析
// 兼容凭证的 sub 是 token 类型标记，用户定位只靠声明里内嵌的 user_id
func (r *IdentityResolver) resolveLegacy(ctx context.Context, claims *VerifiedClaims) (*model.User, error) {
	userID := legacyUserID(claims)
	if userID <= 0 {
		return nil, ErrIdentityResolutionFailed
	}

	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrInternalAuth
	}
	if user == nil {
		return nil, ErrIdentityResolutionFailed
	}
	return r.checkActive(user)
}

// legacyUserID 取声明里内嵌的用户 id
// 进程内签发时是 int64，经过一轮 JSON 会退化为 float64
func legacyUserID(claims *VerifiedClaims) int64 {
	switch v := claims.Raw["user_id"].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}

// provision 首次见到外部身份时建档
// 邮箱是本地账号体系的主键之一，没有邮箱的声明无法建档
func (r *IdentityResolver) provision(ctx context.Context, subject, email string, claims *VerifiedClaims) (*model.User, error) {
	if email == "" {
		return nil, ErrIdentityResolutionFailed
	}

	user := &model.User{
		Email:    email,
		Password: placeholderPassword(),
		Role:     model.RoleCustomer,
		IsActive: true,
	}
	if subject != "" {
		user.AuthSubject = &subject
	}

	err := r.users.Create(ctx, user)
	if err != nil {
		// 并发的同身份请求靠唯一索引裁决：撞上冲突说明别人已建档，重查即可
		if !isUniqueViolation(err) {
			return nil, ErrInternalAuth
		}
		return r.refetch(ctx, subject, email)
	}

	// 自动建档是一条隐式的开户旁路，留审计日志
	r.log.Info("外部身份自动建档",
		zap.String("email", email),
		zap.String("issuer", claims.Issuer),
		zap.String("trust_path", claims.Path.String()))

	return user, nil
}

// refetch 唯一索引冲突后重新查询既有用户
func (r *IdentityResolver) refetch(ctx context.Context, subject, email string) (*model.User, error) {
	if subject != "" {
		user, err := r.users.GetByAuthSubject(ctx, subject)
		if err != nil {
			return nil, ErrInternalAuth
		}
		if user != nil {
			return r.checkActive(user)
		}
	}
	user, err := r.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInternalAuth
	}
	if user == nil {
		return nil, ErrIdentityResolutionFailed
	}
	return r.checkActive(user)
}

// checkActive 停用账号终止请求
func (r *IdentityResolver) checkActive(user *model.User) (*model.User, error) {
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	return user, nil
}

// placeholderPassword 随机占位密码哈希
// 自动建档的用户永远不会用本地密码登录
func placeholderPassword() string {
	hashed, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return ""
	}
	return string(hashed)
}

// isUniqueViolation 判断是否为唯一索引冲突
// Postgres 下是 pq 的 23505，sqlite/gorm 下是 ErrDuplicatedKey
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	// sqlite 驱动不导出错误类型，退化为字符串判断
	return strings.Contains(strings.ToLower(err.Error()), "unique")
}

package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"multishop_v1/internal/api/dto"
	"multishop_v1/internal/auth"
	"multishop_v1/internal/model"
)

// ==================== Context Keys ====================

const (
	ContextKeyUser   = "current_user"
	ContextKeyShop   = "current_shop"
	ContextKeyClaims = "verified_claims"
)

// ==================== AuthChain 认证中间件链 ====================

// AuthChain 认证/授权中间件的依赖集合
// Legacy 为 nil 表示兼容路径关闭
type AuthChain struct {
	Verifier *auth.TokenVerifier
	Legacy   *auth.LegacyVerifier
	Identity *auth.IdentityResolver
	Tenant   *auth.TenantResolver
	Gate     *auth.Gate
	DevMode  bool
}

// Authenticate 认证中间件
// 验签 -> 身份解析，成功后把用户和声明注入 Context
func (a *AuthChain) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			dto.Fail(c, http.StatusUnauthorized, "未提供认证信息")
			c.Abort()
			return
		}

		claims, err := a.Verifier.Verify(c.Request.Context(), token)
		if err != nil && a.Legacy != nil {
			// 兼容路径: 本地签发的旧版凭证
			claims, err = a.Legacy.Verify(token)
		}
		if err != nil {
			a.abortWith(c, err)
			return
		}

		user, err := a.Identity.Resolve(c.Request.Context(), claims)
		if err != nil {
			a.abortWith(c, err)
			return
		}

		c.Set(ContextKeyUser, user)
		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// ResolveTenant 租户解析中间件
// 三个来源都为空时放行（部分路由是租户可选的），解析成功才注入店铺
func (a *AuthChain) ResolveTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		shop, err := a.Tenant.Resolve(c.Request.Context(), auth.SlugSources{
			Path:   c.Param("slug"),
			Query:  c.Query("shop_slug"),
			Header: c.GetHeader("X-Shop-Slug"),
		})
		if err != nil {
			a.abortWith(c, err)
			return
		}
		if shop != nil {
			c.Set(ContextKeyShop, shop)
		}
		c.Next()
	}
}

// RequireRole 角色权限校验中间件
// 有租户上下文时查店铺成员角色，否则回落到平台级角色
func (a *AuthChain) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetCurrentUser(c)
		if user == nil {
			dto.Fail(c, http.StatusUnauthorized, "未获取到用户信息")
			c.Abort()
			return
		}

		if err := a.Gate.Authorize(c.Request.Context(), user, GetCurrentShop(c), roles...); err != nil {
			a.abortWith(c, err)
			return
		}
		c.Next()
	}
}

// RequireTenant 要求请求必须带租户上下文
func (a *AuthChain) RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetCurrentShop(c) == nil {
			dto.Fail(c, http.StatusBadRequest, "缺少店铺标识")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ==================== 错误映射 ====================

// abortWith 把认证错误映射为 HTTP 状态码并终止请求
func (a *AuthChain) abortWith(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := auth.ErrInternalAuth.Error()

	switch {
	case errors.Is(err, auth.ErrInvalidCredential),
		errors.Is(err, auth.ErrIdentityResolutionFailed),
		errors.Is(err, auth.ErrAccountInactive):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, auth.ErrInvalidTenantSlug),
		errors.Is(err, auth.ErrConflictingTenantContext):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, auth.ErrTenantNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, auth.ErrTenantSuspended),
		errors.Is(err, auth.ErrInsufficientPermissions):
		status = http.StatusForbidden
		message = err.Error()
	}

	if status == http.StatusInternalServerError && a.DevMode {
		dto.FailDetail(c, status, message, err.Error())
	} else {
		dto.Fail(c, status, message)
	}
	c.Abort()
}

// bearerToken 提取 Authorization: Bearer <token>
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// ==================== 辅助函数 ====================

// GetCurrentUser 从 Context 获取当前用户
func GetCurrentUser(c *gin.Context) *model.User {
	if v, exists := c.Get(ContextKeyUser); exists {
		return v.(*model.User)
	}
	return nil
}

// GetCurrentShop 从 Context 获取当前店铺，可能为 nil
func GetCurrentShop(c *gin.Context) *model.Shop {
	if v, exists := c.Get(ContextKeyShop); exists {
		return v.(*model.Shop)
	}
	return nil
}

// GetUserID 从 Context 获取用户 ID
func GetUserID(c *gin.Context) int64 {
	if user := GetCurrentUser(c); user != nil {
		return user.ID
	}
	return 0
}

// GetClaims 从 Context 获取完整声明
func GetClaims(c *gin.Context) *auth.VerifiedClaims {
	if v, exists := c.Get(ContextKeyClaims); exists {
		return v.(*auth.VerifiedClaims)
	}
	return nil
}

package auth

import "errors"

// 认证/授权失败的错误集合
// 所有错误对当前请求都是终态，由中间件统一映射为 HTTP 状态码
var (
	// ErrInvalidCredential 凭证缺失、签名无效或已过期
	ErrInvalidCredential = errors.New("凭证无效或已过期")

	// ErrIdentityResolutionFailed 凭证合法但无法映射到本地用户
	ErrIdentityResolutionFailed = errors.New("无法解析用户身份")

	// ErrAccountInactive 账号已停用
	ErrAccountInactive = errors.New("账号已被停用")

	// ErrInvalidTenantSlug slug 不符合 [a-z0-9-]{3,50}
	ErrInvalidTenantSlug = errors.New("店铺标识格式错误")

	// ErrConflictingTenantContext 多个来源给出了不一致的 slug
	ErrConflictingTenantContext = errors.New("请求中存在冲突的店铺标识")

	// ErrTenantNotFound slug 对应的店铺不存在
	ErrTenantNotFound = errors.New("店铺不存在")

	// ErrTenantSuspended 店铺已封停，拒绝所有租户请求
	ErrTenantSuspended = errors.New("店铺已被封停")

	// ErrInsufficientPermissions 角色不满足要求
	ErrInsufficientPermissions = errors.New("无权限访问")

	// ErrInternalAuth 数据库或密钥拉取等意外失败的兜底错误
	ErrInternalAuth = errors.New("认证服务内部错误")
)

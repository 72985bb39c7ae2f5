package auth

import (
	"context"
	"regexp"

	"multishop_v1/internal/model"
	"multishop_v1/internal/repository"
)

// ==================== TenantResolver 租户解析器 ====================

// slug 规则: 小写字母/数字/连字符，3~50 位
var slugPattern = regexp.MustCompile(`^[a-z0-9-]{3,50}$`)

// ValidSlug slug 是否符合语法
func ValidSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}

// SlugSources 一次请求里可能携带 slug 的三个来源
// 优先级: 路径参数 > 查询参数 > 请求头
type SlugSources struct {
	Path   string // 路径参数 :slug
	Query  string // 查询参数 shop_slug
	Header string // 请求头 X-Shop-Slug
}

// TenantResolver 把请求携带的 slug 解析为店铺
// 纯读操作，必须在任何需要租户上下文的 handler 之前执行
type TenantResolver struct {
	shops repository.ShopRepository
}

// NewTenantResolver 创建租户解析器
func NewTenantResolver(shops repository.ShopRepository) *TenantResolver {
	return &TenantResolver{shops: shops}
}

// Resolve 解析租户
// 多个来源同时出现时必须完全一致，否则判冲突
// 所有来源都为空时按"无租户"成功返回，部分路由是租户可选的
func (r *TenantResolver) Resolve(ctx context.Context, sources SlugSources) (*model.Shop, error) {
	slug := ""
	for _, candidate := range []string{sources.Path, sources.Query, sources.Header} {
		if candidate == "" {
			continue
		}
		if slug == "" {
			slug = candidate
			continue
		}
		if candidate != slug {
			return nil, ErrConflictingTenantContext
		}
	}

	if slug == "" {
		return nil, nil
	}

	if !ValidSlug(slug) {
		return nil, ErrInvalidTenantSlug
	}

	shop, err := r.shops.GetBySlug(ctx, slug)
	if err != nil {
		return nil, ErrInternalAuth
	}
	if shop == nil {
		return nil, ErrTenantNotFound
	}
	if shop.IsSuspended() {
		return nil, ErrTenantSuspended
	}
	return shop, nil
}

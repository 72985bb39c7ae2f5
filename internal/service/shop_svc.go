package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"multishop_v1/internal/api/dto"
	"multishop_v1/internal/auth"
	"multishop_v1/internal/model"
	"multishop_v1/internal/repository"
	"multishop_v1/pkg/logger"
)

// ==================== ShopService 店铺服务 ====================

var (
	// ErrInvalidSlug slug 语法不合法或使用了保留词
	ErrInvalidSlug = errors.New("店铺标识不合法")
	// ErrSlugTaken slug 已被占用
	ErrSlugTaken = errors.New("店铺标识已被占用")
	// ErrShopNotFound 店铺不存在
	ErrShopNotFound = errors.New("店铺不存在")
	// ErrMemberExists 成员已存在
	ErrMemberExists = errors.New("该用户已是店铺成员")
	// ErrMemberNotFound 成员不存在
	ErrMemberNotFound = errors.New("店铺成员不存在")
	// ErrLastAdmin 店铺必须保留至少一个管理员
	ErrLastAdmin = errors.New("不能移除店铺最后一个管理员")
)

// ShopService 店铺服务
type ShopService struct {
	shops   repository.ShopRepository
	members repository.ShopMemberRepository
	users   repository.UserRepository
	log     *zap.Logger
}

// NewShopService 创建店铺服务
func NewShopService(
	shops repository.ShopRepository,
	members repository.ShopMemberRepository,
	users repository.UserRepository,
) *ShopService {
	return &ShopService{
		shops:   shops,
		members: members,
		users:   users,
		log:     logger.Named("shop_svc"),
	}
}

// Register 开店
// slug 语法 [a-z0-9-]{3,50}，保留词 platform 无论语法是否合法一律拒绝
// 创建者在同一事务内成为店铺 admin
func (s *ShopService) Register(ctx context.Context, ownerID int64, req dto.ShopRegisterReq) (*model.Shop, error) {
	slug := strings.TrimSpace(req.Slug)
	if !auth.ValidSlug(slug) || slug == model.SlugReserved {
		return nil, ErrInvalidSlug
	}

	exists, err := s.shops.ExistsBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrSlugTaken
	}

	shop := &model.Shop{
		Slug:   slug,
		Name:   req.Name,
		Status: model.ShopStatusActive,
		AuditMixin: model.AuditMixin{
			CreatedBy: ownerID,
		},
	}
	if err := s.shops.CreateWithOwner(ctx, shop, ownerID); err != nil {
		// 并发开店撞唯一索引也按占用处理
		return nil, ErrSlugTaken
	}

	s.log.Info("店铺创建成功",
		zap.String("slug", slug), zap.Int64("owner_id", ownerID))
	return shop, nil
}

// GetBySlug 按 slug 查店铺
func (s *ShopService) GetBySlug(ctx context.Context, slug string) (*model.Shop, error) {
	shop, err := s.shops.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, ErrShopNotFound
	}
	return shop, nil
}

// List 店铺列表（平台管理）
func (s *ShopService) List(ctx context.Context, req dto.ShopListReq) ([]model.Shop, int64, error) {
	return s.shops.List(ctx, repository.ShopFilter{
		Keyword:  req.Keyword,
		Status:   req.Status,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
}

// ListMine 我参与的店铺
func (s *ShopService) ListMine(ctx context.Context, userID int64) ([]model.Shop, error) {
	return s.shops.ListByMember(ctx, userID)
}

// Update 更新店铺信息
// slug 不可变，不在可更新字段内
func (s *ShopService) Update(ctx context.Context, shopID int64, req dto.ShopUpdateReq) error {
	fields := map[string]interface{}{}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.LogoUrl != "" {
		fields["logo_url"] = req.LogoUrl
	}
	if req.ThemeColor != "" {
		fields["theme_color"] = req.ThemeColor
	}
	if req.Announcement != "" {
		fields["announcement"] = req.Announcement
	}
	if len(fields) == 0 {
		return nil
	}
	return s.shops.UpdateFields(ctx, shopID, fields)
}

// Suspend 封停店铺（平台管理）
// 封停后所有租户请求在租户解析阶段被拒绝
func (s *ShopService) Suspend(ctx context.Context, shopID int64) error {
	return s.shops.UpdateStatus(ctx, shopID, model.ShopStatusSuspended)
}

// Restore 恢复店铺（平台管理）
func (s *ShopService) Restore(ctx context.Context, shopID int64) error {
	return s.shops.UpdateStatus(ctx, shopID, model.ShopStatusActive)
}

// ==================== 成员管理 ====================

// AddMember 按邮箱添加店铺成员
func (s *ShopService) AddMember(ctx context.Context, shopID, operatorID int64, req dto.MemberAddReq) (*model.ShopMember, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	existing, err := s.members.GetByShopAndUser(ctx, shopID, user.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrMemberExists
	}

	member := &model.ShopMember{
		ShopID: shopID,
		UserID: user.ID,
		Role:   req.Role,
		Status: model.MemberStatusActive,
		AuditMixin: model.AuditMixin{
			CreatedBy: operatorID,
		},
	}
	if err := s.members.Create(ctx, member); err != nil {
		// (shop, user) 唯一索引兜底并发加人
		return nil, ErrMemberExists
	}
	member.User = user
	return member, nil
}

// ListMembers 店铺成员列表
func (s *ShopService) ListMembers(ctx context.Context, shopID int64) ([]model.ShopMember, error) {
	return s.members.ListByShop(ctx, shopID)
}

// UpdateMember 调整成员角色/状态
// 改动会导致店铺没有有效 admin 时拒绝
func (s *ShopService) UpdateMember(ctx context.Context, shopID, memberID int64, req dto.MemberUpdateReq) error {
	member, err := s.memberInShop(ctx, shopID, memberID)
	if err != nil {
		return err
	}

	// 降级/停用最后一个 admin 的保护
	demoting := (req.Role != "" && req.Role != model.ShopRoleAdmin) ||
		(req.Status != "" && req.Status != model.MemberStatusActive)
	if member.Role == model.ShopRoleAdmin && member.IsActive() && demoting {
		count, err := s.members.CountActiveAdmins(ctx, shopID)
		if err != nil {
			return err
		}
		if count <= 1 {
			return ErrLastAdmin
		}
	}

	fields := map[string]interface{}{}
	if req.Role != "" {
		fields["role"] = req.Role
	}
	if req.Status != "" {
		fields["status"] = req.Status
	}
	if len(fields) == 0 {
		return nil
	}
	return s.members.UpdateFields(ctx, memberID, fields)
}

// RemoveMember 移除成员
// 这是本核心里唯一的破坏性操作，最后一个 admin 同样受保护
func (s *ShopService) RemoveMember(ctx context.Context, shopID, memberID int64) error {
	member, err := s.memberInShop(ctx, shopID, memberID)
	if err != nil {
		return err
	}

	if member.Role == model.ShopRoleAdmin && member.IsActive() {
		count, err := s.members.CountActiveAdmins(ctx, shopID)
		if err != nil {
			return err
		}
		if count <= 1 {
			return ErrLastAdmin
		}
	}
	return s.members.Delete(ctx, memberID)
}

// memberInShop 校验成员属于该店铺
func (s *ShopService) memberInShop(ctx context.Context, shopID, memberID int64) (*model.ShopMember, error) {
	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member == nil || member.ShopID != shopID {
		return nil, ErrMemberNotFound
	}
	return member, nil
}

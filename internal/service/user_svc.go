package service

import (
	"context"
	"errors"

	"multishop_v1/internal/api/dto"
	"multishop_v1/internal/model"
	"multishop_v1/internal/repository"
)

// ==================== UserService 用户服务 ====================

var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("用户不存在")
	// ErrInvalidRole 非法的全局角色
	ErrInvalidRole = errors.New("非法的角色")
)

// UserService 用户服务
type UserService struct {
	users repository.UserRepository
}

// NewUserService 创建用户服务
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// GetProfile 获取个人资料
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile 更新个人资料
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req dto.UpdateProfileReq) error {
	fields := map[string]interface{}{}
	if req.Nickname != "" {
		fields["nickname"] = req.Nickname
	}
	if req.Avatar != "" {
		fields["avatar"] = req.Avatar
	}
	if len(fields) == 0 {
		return nil
	}
	return s.users.UpdateFields(ctx, userID, fields)
}

// List 用户列表（平台管理）
func (s *UserService) List(ctx context.Context, filter repository.UserFilter) ([]model.User, int64, error) {
	return s.users.List(ctx, filter)
}

// SetRole 调整平台级角色（平台管理）
func (s *UserService) SetRole(ctx context.Context, userID int64, role string) error {
	switch role {
	case model.RoleAdmin, model.RoleManager, model.RoleStaff, model.RoleCustomer:
	default:
		return ErrInvalidRole
	}
	return s.users.UpdateFields(ctx, userID, map[string]interface{}{"role": role})
}

// SetActive 启用/停用账号（平台管理）
// 账号状态不做硬删除，停用即全局拒绝
func (s *UserService) SetActive(ctx context.Context, userID int64, active bool) error {
	return s.users.UpdateFields(ctx, userID, map[string]interface{}{"is_active": active})
}

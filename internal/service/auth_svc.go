package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"multishop_v1/internal/api/dto"
	"multishop_v1/internal/auth"
	"multishop_v1/internal/model"
	"multishop_v1/internal/repository"
	"multishop_v1/pkg/logger"
)

// ==================== AuthService 认证服务 ====================

var (
	// ErrLegacyDisabled 兼容登录未开启
	ErrLegacyDisabled = errors.New("本地登录未开启")
	// ErrBadCredentials 登录失败统一口径，不区分账号不存在和密码错误
	ErrBadCredentials = errors.New("邮箱或密码错误")
	// ErrEmailTaken 邮箱已被注册
	ErrEmailTaken = errors.New("该邮箱已被注册")
	// ErrOldPasswordWrong 原密码校验失败
	ErrOldPasswordWrong = errors.New("原密码错误")
)

// AuthService 认证服务
// 负责本地账号的注册/登录（兼容路径），外部身份由 auth 包处理
type AuthService struct {
	users  repository.UserRepository
	legacy *auth.LegacyVerifier // nil 表示兼容路径关闭
	log    *zap.Logger
}

// NewAuthService 创建认证服务
func NewAuthService(users repository.UserRepository, legacy *auth.LegacyVerifier) *AuthService {
	return &AuthService{
		users:  users,
		legacy: legacy,
		log:    logger.Named("auth_svc"),
	}
}

// Register 注册本地账号
func (s *AuthService) Register(ctx context.Context, req dto.RegisterReq) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:    email,
		Password: string(hashed),
		Nickname: req.Nickname,
		Role:     model.RoleCustomer,
		IsActive: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// 并发注册撞唯一索引也按邮箱占用处理
		return nil, ErrEmailTaken
	}
	return user, nil
}

// Login 本地登录（兼容路径）
// 只有显式开启兼容开关时可用
func (s *AuthService) Login(ctx context.Context, req dto.LoginReq) (*dto.LoginResp, error) {
	if s.legacy == nil {
		return nil, ErrLegacyDisabled
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrBadCredentials
	}
	if !user.IsActive {
		return nil, auth.ErrAccountInactive
	}

	accessToken, refreshToken, err := s.legacy.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResp{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         dto.ToUserProfile(user),
	}, nil
}

// Refresh 刷新凭证
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResp, error) {
	if s.legacy == nil {
		return nil, ErrLegacyDisabled
	}

	claims, err := s.legacy.ParseToken(refreshToken)
	if err != nil || claims.Subject != "refresh" {
		return nil, auth.ErrInvalidCredential
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, auth.ErrInvalidCredential
	}
	if !user.IsActive {
		return nil, auth.ErrAccountInactive
	}

	accessToken, newRefresh, err := s.legacy.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResp{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		User:         dto.ToUserProfile(user),
	}, nil
}

// ChangePassword 修改密码
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, req dto.ChangePasswordReq) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return ErrOldPasswordWrong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, string(hashed))
}

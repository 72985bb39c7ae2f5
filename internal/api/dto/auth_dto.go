package dto

import "multishop_v1/internal/model"

// ==================== 认证相关 ====================

// RegisterReq 注册请求
type RegisterReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Nickname string `json:"nickname" binding:"max=100"`
}

// LoginReq 本地登录请求（兼容路径）
type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshReq 刷新凭证请求
type RefreshReq struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordReq 修改密码请求
type ChangePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// UpdateProfileReq 更新个人资料请求
type UpdateProfileReq struct {
	Nickname string `json:"nickname" binding:"max=100"`
	Avatar   string `json:"avatar" binding:"max=255"`
}

// LoginResp 登录响应
type LoginResp struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         UserProfile `json:"user"`
}

// UserProfile 用户公开信息
type UserProfile struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	Nickname   string `json:"nickname"`
	Avatar     string `json:"avatar"`
	Role       string `json:"role"`
	IsActive   bool   `json:"is_active"`
	LastShopID int64  `json:"last_shop_id"`
}

// ToUserProfile 模型转响应
func ToUserProfile(user *model.User) UserProfile {
	return UserProfile{
		ID:         user.ID,
		Email:      user.Email,
		Nickname:   user.Nickname,
		Avatar:     user.Avatar,
		Role:       user.Role,
		IsActive:   user.IsActive,
		LastShopID: user.LastShopID,
	}
}

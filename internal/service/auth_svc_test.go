package service

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"multishop_v1/internal/api/dto"
	"multishop_v1/internal/auth"
)

func newAuthService(t *testing.T, repos *testRepos, withLegacy bool) *AuthService {
	t.Helper()
	var legacy *auth.LegacyVerifier
	if withLegacy {
		legacy = auth.NewLegacyVerifier(auth.DefaultLegacyConfig())
	}
	return NewAuthService(repos.Users, legacy)
}

func TestAuthService_Register(t *testing.T) {
	repos := newTestRepos(t)
	svc := newAuthService(t, repos, true)
	ctx := context.Background()

	t.Run("注册成功且邮箱归一化", func(t *testing.T) {
		user, err := svc.Register(ctx, dto.RegisterReq{
			Email:    "  Frank@Example.COM ",
			Password: "password123",
			Nickname: "弗兰克",
		})
		if err != nil {
			t.Fatalf("注册失败: %v", err)
		}
		if user.Email != "frank@example.com" {
			t.Errorf("邮箱未归一化: %s", user.Email)
		}
		if user.Role != "customer" || !user.IsActive {
			t.Errorf("初始角色/状态错误: %s %v", user.Role, user.IsActive)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")); err != nil {
			t.Errorf("密码未正确加密: %v", err)
		}
	})

	t.Run("邮箱重复拒绝", func(t *testing.T) {
		if _, err := svc.Register(ctx, dto.RegisterReq{
			Email:    "FRANK@example.com",
			Password: "password456",
		}); err != ErrEmailTaken {
			t.Errorf("期望 ErrEmailTaken, got %v", err)
		}
	})
}

func TestAuthService_Login(t *testing.T) {
	repos := newTestRepos(t)
	svc := newAuthService(t, repos, true)
	ctx := context.Background()

	if _, err := svc.Register(ctx, dto.RegisterReq{
		Email:    "grace@example.com",
		Password: "password123",
	}); err != nil {
		t.Fatalf("准备账号失败: %v", err)
	}

	t.Run("登录成功返回双令牌", func(t *testing.T) {
		resp, err := svc.Login(ctx, dto.LoginReq{Email: "Grace@Example.com", Password: "password123"})
		if err != nil {
			t.Fatalf("登录失败: %v", err)
		}
		if resp.AccessToken == "" || resp.RefreshToken == "" {
			t.Error("令牌为空")
		}
		if resp.User.Email != "grace@example.com" {
			t.Errorf("用户信息错误: %s", resp.User.Email)
		}
	})

	t.Run("密码错误", func(t *testing.T) {
		if _, err := svc.Login(ctx, dto.LoginReq{Email: "grace@example.com", Password: "wrong"}); err != ErrBadCredentials {
			t.Errorf("期望 ErrBadCredentials, got %v", err)
		}
	})

	t.Run("账号不存在同一口径", func(t *testing.T) {
		if _, err := svc.Login(ctx, dto.LoginReq{Email: "nobody@example.com", Password: "password123"}); err != ErrBadCredentials {
			t.Errorf("期望 ErrBadCredentials, got %v", err)
		}
	})

	t.Run("停用账号拒绝", func(t *testing.T) {
		repos.DB.Table("users").Where("email = ?", "grace@example.com").Update("is_active", false)
		if _, err := svc.Login(ctx, dto.LoginReq{Email: "grace@example.com", Password: "password123"}); err != auth.ErrAccountInactive {
			t.Errorf("期望 ErrAccountInactive, got %v", err)
		}
		repos.DB.Table("users").Where("email = ?", "grace@example.com").Update("is_active", true)
	})

	t.Run("兼容开关关闭", func(t *testing.T) {
		closed := newAuthService(t, repos, false)
		if _, err := closed.Login(ctx, dto.LoginReq{Email: "grace@example.com", Password: "password123"}); err != ErrLegacyDisabled {
			t.Errorf("期望 ErrLegacyDisabled, got %v", err)
		}
	})
}

func TestAuthService_Refresh(t *testing.T) {
	repos := newTestRepos(t)
	svc := newAuthService(t, repos, true)
	ctx := context.Background()

	if _, err := svc.Register(ctx, dto.RegisterReq{
		Email:    "henry@example.com",
		Password: "password123",
	}); err != nil {
		t.Fatalf("准备账号失败: %v", err)
	}
	resp, err := svc.Login(ctx, dto.LoginReq{Email: "henry@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}

	t.Run("刷新成功", func(t *testing.T) {
		fresh, err := svc.Refresh(ctx, resp.RefreshToken)
		if err != nil {
			t.Fatalf("刷新失败: %v", err)
		}
		if fresh.AccessToken == "" || fresh.RefreshToken == "" {
			t.Error("刷新后令牌为空")
		}
	})

	t.Run("AccessToken不能用于刷新", func(t *testing.T) {
		if _, err := svc.Refresh(ctx, resp.AccessToken); err != auth.ErrInvalidCredential {
			t.Errorf("期望 ErrInvalidCredential, got %v", err)
		}
	})

	t.Run("伪造令牌拒绝", func(t *testing.T) {
		if _, err := svc.Refresh(ctx, "not-a-token"); err != auth.ErrInvalidCredential {
			t.Errorf("期望 ErrInvalidCredential, got %v", err)
		}
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	repos := newTestRepos(t)
	svc := newAuthService(t, repos, true)
	ctx := context.Background()

	user, err := svc.Register(ctx, dto.RegisterReq{
		Email:    "iris@example.com",
		Password: "oldpassword1",
	})
	if err != nil {
		t.Fatalf("准备账号失败: %v", err)
	}

	t.Run("原密码错误", func(t *testing.T) {
		err := svc.ChangePassword(ctx, user.ID, dto.ChangePasswordReq{
			OldPassword: "wrongpassword",
			NewPassword: "newpassword1",
		})
		if err != ErrOldPasswordWrong {
			t.Errorf("期望 ErrOldPasswordWrong, got %v", err)
		}
	})

	t.Run("修改成功后新密码可登录", func(t *testing.T) {
		err := svc.ChangePassword(ctx, user.ID, dto.ChangePasswordReq{
			OldPassword: "oldpassword1",
			NewPassword: "newpassword1",
		})
		if err != nil {
			t.Fatalf("修改密码失败: %v", err)
		}

		if _, err := svc.Login(ctx, dto.LoginReq{Email: "iris@example.com", Password: "oldpassword1"}); err != ErrBadCredentials {
			t.Errorf("旧密码应失效, got %v", err)
		}
		if _, err := svc.Login(ctx, dto.LoginReq{Email: "iris@example.com", Password: "newpassword1"}); err != nil {
			t.Errorf("新密码登录失败: %v", err)
		}
	})
}

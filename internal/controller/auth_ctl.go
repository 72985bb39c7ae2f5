package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"multishop_v1/internal/api/dto"
	"multishop_v1/internal/middleware"
	"multishop_v1/internal/service"
)

// ==================== AuthController 认证模块 ====================

type AuthController struct {
	authService *service.AuthService
	userService *service.UserService
}

func NewAuthController(authService *service.AuthService, userService *service.UserService) *AuthController {
	return &AuthController{authService: authService, userService: userService}
}

// Register
// @Summary 注册账号
// @Description 注册本地账号，默认角色为 customer
// @Tags Auth (认证模块)
// @Accept json
// @Produce json
// @Param body body dto.RegisterReq true "注册信息"
// @Success 201 {object} dto.Response
// @Failure 409 {object} dto.Response "邮箱已被注册"
// @Router /auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	user, err := ctrl.authService.Register(c.Request.Context(), req)
	if err != nil {
		failFrom(c, err)
		return
	}
	dto.Created(c, dto.ToUserProfile(user))
}

// Login
// @Summary 本地登录
// @Description 邮箱密码登录，兼容开关关闭时返回 401
// @Tags Auth (认证模块)
// @Accept json
// @Produce json
// @Param body body dto.LoginReq true "登录信息"
// @Success 200 {object} dto.Response{data=dto.LoginResp}
// @Failure 401 {object} dto.Response
// @Router /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	resp, err := ctrl.authService.Login(c.Request.Context(), req)
	if err != nil {
		failFrom(c, err)
		return
	}
	dto.OK(c, resp)
}

// Refresh
// @Summary 刷新令牌
// @Tags Auth (认证模块)
// @Accept json
// @Produce json
// @Param body body dto.RefreshReq true "刷新令牌"
// @Success 200 {object} dto.Response{data=dto.LoginResp}
// @Failure 401 {object} dto.Response
// @Router /auth/refresh [post]
func (ctrl *AuthController) Refresh(c *gin.Context) {
	var req dto.RefreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	resp, err := ctrl.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		failFrom(c, err)
		return
	}
	dto.OK(c, resp)
}

// Me
// @Summary 当前用户信息
// @Tags Auth (认证模块)
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Response{data=dto.UserProfile}
// @Router /me [get]
func (ctrl *AuthController) Me(c *gin.Context) {
	user := middleware.GetCurrentUser(c)
	dto.OK(c, dto.ToUserProfile(user))
}

// UpdateMe
// @Summary 更新个人资料
// @Tags Auth (认证模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.UpdateProfileReq true "资料"
// @Success 200 {object} dto.Response
// @Router /me [put]
func (ctrl *AuthController) UpdateMe(c *gin.Context) {
	var req dto.UpdateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	if err := ctrl.userService.UpdateProfile(c.Request.Context(), middleware.GetUserID(c), req); err != nil {
		failFrom(c, err)
		return
	}
	dto.OKMessage(c, "更新成功")
}

// ChangePassword
// @Summary 修改密码
// @Tags Auth (认证模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ChangePasswordReq true "新旧密码"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.Response "旧密码不正确"
// @Router /me/password [put]
func (ctrl *AuthController) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	if err := ctrl.authService.ChangePassword(c.Request.Context(), middleware.GetUserID(c), req); err != nil {
		failFrom(c, err)
		return
	}
	dto.OKMessage(c, "密码修改成功")
}

package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"multishop_v1/internal/api/dto"
	"multishop_v1/internal/repository"
	"multishop_v1/internal/service"
)

// ==================== UserController 用户管理（平台侧） ====================

type UserController struct {
	userService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{userService: userService}
}

// List
// @Summary 用户列表
// @Description 平台管理员查看全量用户，支持关键字/角色/状态筛选
// @Tags Admin (平台管理)
// @Produce json
// @Security BearerAuth
// @Param keyword query string false "邮箱或昵称关键字"
// @Param role query string false "全局角色"
// @Param is_active query bool false "是否启用"
// @Param page query int false "页码"
// @Param page_size query int false "每页条数"
// @Success 200 {object} dto.Response{data=dto.PageData}
// @Router /admin/users [get]
func (ctrl *UserController) List(c *gin.Context) {
	filter := repository.UserFilter{
		Keyword: c.Query("keyword"),
		Role:    c.Query("role"),
	}
	if v := c.Query("is_active"); v != "" {
		active := v == "true"
		filter.IsActive = &active
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	users, total, err := ctrl.userService.List(c.Request.Context(), filter)
	if err != nil {
		failFrom(c, err)
		return
	}

	list := make([]dto.UserProfile, 0, len(users))
	for i := range users {
		list = append(list, dto.ToUserProfile(&users[i]))
	}
	dto.OK(c, dto.PageData{List: list, Total: total, Page: filter.Page, PageSize: filter.PageSize})
}

// SetRole
// @Summary 调整用户全局角色
// @Tags Admin (平台管理)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户 ID"
// @Param body body object{role=string} true "目标角色"
// @Success 200 {object} dto.Response
// @Router /admin/users/{id}/role [put]
func (ctrl *UserController) SetRole(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	if err := ctrl.userService.SetRole(c.Request.Context(), userID, req.Role); err != nil {
		failFrom(c, err)
		return
	}
	dto.OKMessage(c, "角色已更新")
}

// SetActive
// @Summary 启用/停用用户
// @Tags Admin (平台管理)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户 ID"
// @Param body body object{is_active=bool} true "启用状态"
// @Success 200 {object} dto.Response
// @Router /admin/users/{id}/active [put]
func (ctrl *UserController) SetActive(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	if err := ctrl.userService.SetActive(c.Request.Context(), userID, *req.IsActive); err != nil {
		failFrom(c, err)
		return
	}
	dto.OKMessage(c, "状态已更新")
}

package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"multishop_v1/internal/api/dto"
	"multishop_v1/internal/middleware"
	"multishop_v1/internal/service"
)

// ==================== ShopController 店铺模块 ====================

type ShopController struct {
	shopService *service.ShopService
}

func NewShopController(shopService *service.ShopService) *ShopController {
	return &ShopController{shopService: shopService}
}

// Register
// @Summary 注册店铺
// @Description 创建店铺并把创建人设为店铺管理员，slug 全局唯一且不可修改
// @Tags Shop (店铺模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ShopRegisterReq true "店铺信息"
// @Success 201 {object} dto.Response{data=dto.ShopResp}
// @Failure 409 {object} dto.Response "slug 已被占用"
// @Router /shops [post]
func (ctrl *ShopController) Register(c *gin.Context) {
	var req dto.ShopRegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	shop, err := ctrl.shopService.Register(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		failFrom(c, err)
		return
	}
	dto.Created(c, dto.ToShopResp(shop))
}

// List
// @Summary 店铺列表（平台管理）
// @Tags Admin (平台管理)
// @Produce json
// @Security BearerAuth
// @Param keyword query string false "名称关键字"
// @Param status query string false "店铺状态"
// @Param page query int false "页码"
// @Param page_size query int false "每页条数"
// @Success 200 {object} dto.Response{data=dto.PageData}
// @Router /admin/shops [get]
func (ctrl *ShopController) List(c *gin.Context) {
	var req dto.ShopListReq
	if err := c.ShouldBindQuery(&req); err != nil {
		dto.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	shops, total, err := ctrl.shopService.List(c.Request.Context(), req)
	if err != nil {
		failFrom(c, err)
		return
	}

	list := make([]dto.ShopResp, 0, len(shops))
	for i := range shops {
		list = append(list, dto.ToShopResp(&shops[i]))
	}
	dto.OK(c, dto.PageData{List: list, Total: total, Page: req.Page, PageSize: req.PageSize})
}

// ListMine
// @Summary 我参与的店铺
// @Description 返回当前用户为在职成员的店铺
// @Tags Shop (店铺模块)
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Response{data=[]dto.ShopResp}
// @Router /shops/mine [get]
func (ctrl *ShopController) ListMine(c *gin.Context) {
	shops, err := ctrl.shopService.ListMine(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		failFrom(c, err)
		return
	}

	list := make([]dto.ShopResp, 0, len(shops))
	for i := range shops {
		list = append(list, dto.ToShopResp(&shops[i]))
	}
	dto.OK(c, list)
}

// Get
// @Summary 店铺详情
// @Tags Shop (店铺模块)
// @Produce json
// @Security BearerAuth
// @Param slug path string true "店铺 slug"
// @Success 200 {object} dto.Response{data=dto.ShopResp}
// @Router /shops/{slug} [get]
func (ctrl *ShopController) Get(c *gin.Context) {
	shop := middleware.GetCurrentShop(c)
	dto.OK(c, dto.ToShopResp(shop))
}

// Update
// @Summary 更新店铺资料
// @Description 名称、Logo、主题色、公告，slug 不可修改
// @Tags Shop (店铺模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "店铺 slug"
// @Param body body dto.ShopUpdateReq true "店铺资料"
// @Success 200 {object} dto.Response
// @Router /shops/{slug} [put]
func (ctrl *ShopController) Update(c *gin.Context) {
	var req dto.ShopUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	shop := middleware.GetCurrentShop(c)
	if err := ctrl.shopService.Update(c.Request.Context(), shop.ID, req); err != nil {
		failFrom(c, err)
		return
	}
	dto.OKMessage(c, "更新成功")
}

// Suspend
// @Summary 封禁店铺（平台管理）
// @Tags Admin (平台管理)
// @Produce json
// @Security BearerAuth
// @Param id path int true "店铺 ID"
// @Success 200 {object} dto.Response
// @Router /admin/shops/{id}/suspend [put]
func (ctrl *ShopController) Suspend(c *gin.Context) {
	shopID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.shopService.Suspend(c.Request.Context(), shopID); err != nil {
		failFrom(c, err)
		return
	}
	dto.OKMessage(c, "店铺已封禁")
}

// Restore
// @Summary 解封店铺（平台管理）
// @Tags Admin (平台管理)
// @Produce json
// @Security BearerAuth
// @Param id path int true "店铺 ID"
// @Success 200 {object} dto.Response
// @Router /admin/shops/{id}/restore [put]
func (ctrl *ShopController) Restore(c *gin.Context) {
	shopID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.shopService.Restore(c.Request.Context(), shopID); err != nil {
		failFrom(c, err)
		return
	}
	dto.OKMessage(c, "店铺已恢复")
}

// AddMember
// @Summary 添加店铺成员
// @Description 按邮箱把已有用户拉入店铺并指定店内角色
// @Tags Shop (店铺模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "店铺 slug"
// @Param body body dto.MemberAddReq true "成员信息"
// @Success 201 {object} dto.Response{data=dto.MemberResp}
// @Failure 409 {object} dto.Response "已是店铺成员"
// @Router /shops/{slug}/members [post]
func (ctrl *ShopController) AddMember(c *gin.Context) {
	var req dto.MemberAddReq
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	shop := middleware.GetCurrentShop(c)
	member, err := ctrl.shopService.AddMember(c.Request.Context(), shop.ID, middleware.GetUserID(c), req)
	if err != nil {
		failFrom(c, err)
		return
	}
	dto.Created(c, dto.ToMemberResp(member))
}

// ListMembers
// @Summary 店铺成员列表
// @Tags Shop (店铺模块)
// @Produce json
// @Security BearerAuth
// @Param slug path string true "店铺 slug"
// @Success 200 {object} dto.Response{data=[]dto.MemberResp}
// @Router /shops/{slug}/members [get]
func (ctrl *ShopController) ListMembers(c *gin.Context) {
	shop := middleware.GetCurrentShop(c)
	members, err := ctrl.shopService.ListMembers(c.Request.Context(), shop.ID)
	if err != nil {
		failFrom(c, err)
		return
	}

	list := make([]dto.MemberResp, 0, len(members))
	for i := range members {
		list = append(list, dto.ToMemberResp(&members[i]))
	}
	dto.OK(c, list)
}

// UpdateMember
// @Summary 调整成员角色/状态
// @Description 不允许把最后一名在职管理员降级或停用
// @Tags Shop (店铺模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "店铺 slug"
// @Param id path int true "成员记录 ID"
// @Param body body dto.MemberUpdateReq true "角色与状态"
// @Success 200 {object} dto.Response
// @Failure 403 {object} dto.Response "最后一名管理员"
// @Router /shops/{slug}/members/{id} [put]
func (ctrl *ShopController) UpdateMember(c *gin.Context) {
	memberID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.MemberUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	shop := middleware.GetCurrentShop(c)
	if err := ctrl.shopService.UpdateMember(c.Request.Context(), shop.ID, memberID, req); err != nil {
		failFrom(c, err)
		return
	}
	dto.OKMessage(c, "成员已更新")
}

// RemoveMember
// @Summary 移除店铺成员
// @Tags Shop (店铺模块)
// @Produce json
// @Security BearerAuth
// @Param slug path string true "店铺 slug"
// @Param id path int true "成员记录 ID"
// @Success 200 {object} dto.Response
// @Failure 403 {object} dto.Response "最后一名管理员"
// @Router /shops/{slug}/members/{id} [delete]
func (ctrl *ShopController) RemoveMember(c *gin.Context) {
	memberID, ok := pathID(c, "id")
	if !ok {
		return
	}

	shop := middleware.GetCurrentShop(c)
	if err := ctrl.shopService.RemoveMember(c.Request.Context(), shop.ID, memberID); err != nil {
		failFrom(c, err)
		return
	}
	dto.OKMessage(c, "成员已移除")
}

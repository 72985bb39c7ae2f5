package controller

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"multishop_v1/internal/api/dto"
	"multishop_v1/internal/middleware"
	"multishop_v1/internal/model"
	"multishop_v1/internal/service"
)

// ==================== OrderController 订单模块 ====================

type OrderController struct {
	orderService *service.OrderService
}

func NewOrderController(orderService *service.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// Create
// @Summary 下单
// @Description 买家在店铺内下单，库存原子扣减，超卖返回 409
// @Tags Order (订单模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "店铺 slug"
// @Param body body dto.OrderCreateReq true "订单内容"
// @Success 201 {object} dto.Response{data=dto.OrderResp}
// @Failure 409 {object} dto.Response "库存不足"
// @Router /shops/{slug}/orders [post]
func (ctrl *OrderController) Create(c *gin.Context) {
	var req dto.OrderCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	shop := middleware.GetCurrentShop(c)
	order, err := ctrl.orderService.Create(c.Request.Context(), shop.ID, middleware.GetUserID(c), req)
	if err != nil {
		failFrom(c, err)
		return
	}
	dto.Created(c, dto.ToOrderResp(order))
}

// List
// @Summary 店铺订单列表
// @Tags Order (订单模块)
// @Produce json
// @Security BearerAuth
// @Param slug path string true "店铺 slug"
// @Param status query string false "订单状态"
// @Param page query int false "页码"
// @Param page_size query int false "每页条数"
// @Success 200 {object} dto.Response{data=dto.PageData}
// @Router /shops/{slug}/orders [get]
func (ctrl *OrderController) List(c *gin.Context) {
	var req dto.OrderListReq
	if err := c.ShouldBindQuery(&req); err != nil {
		dto.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	shop := middleware.GetCurrentShop(c)
	orders, total, err := ctrl.orderService.List(c.Request.Context(), shop.ID, req)
	if err != nil {
		failFrom(c, err)
		return
	}
	dto.OK(c, dto.PageData{List: toOrderList(orders), Total: total, Page: req.Page, PageSize: req.PageSize})
}

// ListMine
// @Summary 我的订单
// @Description 买家查看自己在各店铺的订单
// @Tags Order (订单模块)
// @Produce json
// @Security BearerAuth
// @Param status query string false "订单状态"
// @Param page query int false "页码"
// @Param page_size query int false "每页条数"
// @Success 200 {object} dto.Response{data=dto.PageData}
// @Router /orders/mine [get]
func (ctrl *OrderController) ListMine(c *gin.Context) {
	var req dto.OrderListReq
	if err := c.ShouldBindQuery(&req); err != nil {
		dto.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	orders, total, err := ctrl.orderService.ListMine(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		failFrom(c, err)
		return
	}
	dto.OK(c, dto.PageData{List: toOrderList(orders), Total: total, Page: req.Page, PageSize: req.PageSize})
}

// Get
// @Summary 订单详情
// @Tags Order (订单模块)
// @Produce json
// @Security BearerAuth
// @Param slug path string true "店铺 slug"
// @Param id path int true "订单 ID"
// @Success 200 {object} dto.Response{data=dto.OrderResp}
// @Router /shops/{slug}/orders/{id} [get]
func (ctrl *OrderController) Get(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	shop := middleware.GetCurrentShop(c)
	order, err := ctrl.orderService.Get(c.Request.Context(), shop.ID, orderID)
	if err != nil {
		failFrom(c, err)
		return
	}
	dto.OK(c, dto.ToOrderResp(order))
}

// Process
// @Summary 接单
// @Description pending -> processing
// @Tags Order (订单模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "店铺 slug"
// @Param id path int true "订单 ID"
// @Param body body dto.OrderStatusReq false "员工备注"
// @Success 200 {object} dto.Response
// @Failure 409 {object} dto.Response "状态不允许"
// @Router /shops/{slug}/orders/{id}/process [put]
func (ctrl *OrderController) Process(c *gin.Context) {
	ctrl.transition(c, ctrl.orderService.Process)
}

// Ship
// @Summary 发货
// @Description processing -> shipped
// @Tags Order (订单模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "店铺 slug"
// @Param id path int true "订单 ID"
// @Param body body dto.OrderStatusReq false "员工备注"
// @Success 200 {object} dto.Response
// @Failure 409 {object} dto.Response "状态不允许"
// @Router /shops/{slug}/orders/{id}/ship [put]
func (ctrl *OrderController) Ship(c *gin.Context) {
	ctrl.transition(c, ctrl.orderService.Ship)
}

// Deliver
// @Summary 确认送达
// @Description shipped -> delivered
// @Tags Order (订单模块)
// @Produce json
// @Security BearerAuth
// @Param slug path string true "店铺 slug"
// @Param id path int true "订单 ID"
// @Success 200 {object} dto.Response
// @Failure 409 {object} dto.Response "状态不允许"
// @Router /shops/{slug}/orders/{id}/deliver [put]
func (ctrl *OrderController) Deliver(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	shop := middleware.GetCurrentShop(c)
	if err := ctrl.orderService.Deliver(c.Request.Context(), shop.ID, orderID); err != nil {
		failFrom(c, err)
		return
	}
	dto.OKMessage(c, "订单已送达")
}

// Cancel
// @Summary 买家取消订单
// @Description 仅限本人、仅限 pending/processing，取消后回补库存
// @Tags Order (订单模块)
// @Produce json
// @Security BearerAuth
// @Param id path int true "订单 ID"
// @Success 200 {object} dto.Response
// @Failure 403 {object} dto.Response "不是订单买家"
// @Router /orders/{id}/cancel [put]
func (ctrl *OrderController) Cancel(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.orderService.CancelByBuyer(c.Request.Context(), middleware.GetUserID(c), orderID); err != nil {
		failFrom(c, err)
		return
	}
	dto.OKMessage(c, "订单已取消")
}

// transition 带员工备注的状态流转公共逻辑
func (ctrl *OrderController) transition(c *gin.Context, fn func(ctx context.Context, shopID, orderID int64, staffNote string) error) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.OrderStatusReq
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		dto.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	shop := middleware.GetCurrentShop(c)
	if err := fn(c.Request.Context(), shop.ID, orderID, req.StaffNote); err != nil {
		failFrom(c, err)
		return
	}
	dto.OKMessage(c, "订单状态已更新")
}

func toOrderList(orders []model.Order) []dto.OrderResp {
	list := make([]dto.OrderResp, 0, len(orders))
	for i := range orders {
		list = append(list, dto.ToOrderResp(&orders[i]))
	}
	return list
}

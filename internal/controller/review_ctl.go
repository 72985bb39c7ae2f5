package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"multishop_v1/internal/api/dto"
	"multishop_v1/internal/middleware"
	"multishop_v1/internal/service"
)

// ==================== ReviewController 评价模块 ====================

type ReviewController struct {
	reviewService *service.ReviewService
}

func NewReviewController(reviewService *service.ReviewService) *ReviewController {
	return &ReviewController{reviewService: reviewService}
}

// Create
// @Summary 提交评价
// @Description 买家对店铺商品评价，每人每商品一条，初始待审核
// @Tags Review (评价模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "店铺 slug"
// @Param body body dto.ReviewCreateReq true "评价内容"
// @Success 201 {object} dto.Response{data=dto.ReviewResp}
// @Failure 409 {object} dto.Response "已评价过"
// @Router /shops/{slug}/reviews [post]
func (ctrl *ReviewController) Create(c *gin.Context) {
	var req dto.ReviewCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	shop := middleware.GetCurrentShop(c)
	review, err := ctrl.reviewService.Create(c.Request.Context(), shop.ID, middleware.GetUserID(c), req)
	if err != nil {
		failFrom(c, err)
		return
	}
	dto.Created(c, dto.ToReviewResp(review))
}

// List
// @Summary 评价列表（店铺管理）
// @Description 店铺成员查看全部评价，可按状态筛选待审核队列
// @Tags Review (评价模块)
// @Produce json
// @Security BearerAuth
// @Param slug path string true "店铺 slug"
// @Param product_id query int false "商品 ID"
// @Param status query string false "评价状态"
// @Param page query int false "页码"
// @Param page_size query int false "每页条数"
// @Success 200 {object} dto.Response{data=dto.PageData}
// @Router /shops/{slug}/reviews [get]
func (ctrl *ReviewController) List(c *gin.Context) {
	var req dto.ReviewListReq
	if err := c.ShouldBindQuery(&req); err != nil {
		dto.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	shop := middleware.GetCurrentShop(c)
	reviews, total, err := ctrl.reviewService.List(c.Request.Context(), shop.ID, req)
	if err != nil {
		failFrom(c, err)
		return
	}

	list := make([]dto.ReviewResp, 0, len(reviews))
	for i := range reviews {
		list = append(list, dto.ToReviewResp(&reviews[i]))
	}
	dto.OK(c, dto.PageData{List: list, Total: total, Page: req.Page, PageSize: req.PageSize})
}

// ListApproved
// @Summary 商品公开评价
// @Description 商品详情页展示，仅返回已通过审核的评价
// @Tags Review (评价模块)
// @Produce json
// @Security BearerAuth
// @Param slug path string true "店铺 slug"
// @Param id path int true "商品 ID"
// @Param page query int false "页码"
// @Param page_size query int false "每页条数"
// @Success 200 {object} dto.Response{data=dto.PageData}
// @Router /shops/{slug}/products/{id}/reviews [get]
func (ctrl *ReviewController) ListApproved(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	shop := middleware.GetCurrentShop(c)
	reviews, total, err := ctrl.reviewService.ListApproved(c.Request.Context(), shop.ID, productID, page, pageSize)
	if err != nil {
		failFrom(c, err)
		return
	}

	list := make([]dto.ReviewResp, 0, len(reviews))
	for i := range reviews {
		list = append(list, dto.ToReviewResp(&reviews[i]))
	}
	dto.OK(c, dto.PageData{List: list, Total: total, Page: page, PageSize: pageSize})
}

// Moderate
// @Summary 审核评价
// @Description 通过或驳回待审核评价，通过后回写商品评分
// @Tags Review (评价模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "店铺 slug"
// @Param id path int true "评价 ID"
// @Param body body dto.ReviewModerateReq true "审核结果"
// @Success 200 {object} dto.Response{data=dto.ReviewResp}
// @Failure 409 {object} dto.Response "已审核过"
// @Router /shops/{slug}/reviews/{id}/moderate [put]
func (ctrl *ReviewController) Moderate(c *gin.Context) {
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.ReviewModerateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	shop := middleware.GetCurrentShop(c)
	review, err := ctrl.reviewService.Moderate(c.Request.Context(), shop.ID, reviewID, middleware.GetUserID(c), req)
	if err != nil {
		failFrom(c, err)
		return
	}
	dto.OK(c, dto.ToReviewResp(review))
}

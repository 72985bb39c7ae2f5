package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"multishop_v1/internal/api/dto"
	"multishop_v1/internal/middleware"
	"multishop_v1/internal/service"
)

// ==================== ProductController 商品模块 ====================

type ProductController struct {
	productService *service.ProductService
}

func NewProductController(productService *service.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

// Create
// @Summary 创建商品
// @Description SKU 在店铺内唯一，价格单位为分
// @Tags Product (商品模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "店铺 slug"
// @Param body body dto.ProductCreateReq true "商品信息"
// @Success 201 {object} dto.Response{data=dto.ProductResp}
// @Failure 409 {object} dto.Response "SKU 已存在"
// @Router /shops/{slug}/products [post]
func (ctrl *ProductController) Create(c *gin.Context) {
	var req dto.ProductCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	shop := middleware.GetCurrentShop(c)
	product, err := ctrl.productService.Create(c.Request.Context(), shop.ID, middleware.GetUserID(c), req)
	if err != nil {
		failFrom(c, err)
		return
	}
	dto.Created(c, dto.ToProductResp(product))
}

// List
// @Summary 商品列表
// @Tags Product (商品模块)
// @Produce json
// @Security BearerAuth
// @Param slug path string true "店铺 slug"
// @Param keyword query string false "标题关键字"
// @Param status query string false "商品状态"
// @Param page query int false "页码"
// @Param page_size query int false "每页条数"
// @Success 200 {object} dto.Response{data=dto.PageData}
// @Router /shops/{slug}/products [get]
func (ctrl *ProductController) List(c *gin.Context) {
	var req dto.ProductListReq
	if err := c.ShouldBindQuery(&req); err != nil {
		dto.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	shop := middleware.GetCurrentShop(c)
	products, total, err := ctrl.productService.List(c.Request.Context(), shop.ID, req)
	if err != nil {
		failFrom(c, err)
		return
	}

	list := make([]dto.ProductResp, 0, len(products))
	for i := range products {
		list = append(list, dto.ToProductResp(&products[i]))
	}
	dto.OK(c, dto.PageData{List: list, Total: total, Page: req.Page, PageSize: req.PageSize})
}

// Get
// @Summary 商品详情
// @Tags Product (商品模块)
// @Produce json
// @Security BearerAuth
// @Param slug path string true "店铺 slug"
// @Param id path int true "商品 ID"
// @Success 200 {object} dto.Response{data=dto.ProductResp}
// @Router /shops/{slug}/products/{id} [get]
func (ctrl *ProductController) Get(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	shop := middleware.GetCurrentShop(c)
	product, err := ctrl.productService.Get(c.Request.Context(), shop.ID, productID)
	if err != nil {
		failFrom(c, err)
		return
	}
	dto.OK(c, dto.ToProductResp(product))
}

// Update
// @Summary 更新商品
// @Tags Product (商品模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "店铺 slug"
// @Param id path int true "商品 ID"
// @Param body body dto.ProductUpdateReq true "商品信息"
// @Success 200 {object} dto.Response
// @Router /shops/{slug}/products/{id} [put]
func (ctrl *ProductController) Update(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.ProductUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	shop := middleware.GetCurrentShop(c)
	if err := ctrl.productService.Update(c.Request.Context(), shop.ID, productID, req); err != nil {
		failFrom(c, err)
		return
	}
	dto.OKMessage(c, "更新成功")
}

// AdjustStock
// @Summary 调整库存
// @Description 增减库存，扣减到负数时返回 409
// @Tags Product (商品模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "店铺 slug"
// @Param id path int true "商品 ID"
// @Param body body dto.StockAdjustReq true "增量，可为负"
// @Success 200 {object} dto.Response{data=dto.ProductResp}
// @Failure 409 {object} dto.Response "库存不足"
// @Router /shops/{slug}/products/{id}/stock [put]
func (ctrl *ProductController) AdjustStock(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.StockAdjustReq
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	shop := middleware.GetCurrentShop(c)
	product, err := ctrl.productService.AdjustStock(c.Request.Context(), shop.ID, productID, req.Delta)
	if err != nil {
		failFrom(c, err)
		return
	}
	dto.OK(c, dto.ToProductResp(product))
}

// Delete
// @Summary 删除商品
// @Tags Product (商品模块)
// @Produce json
// @Security BearerAuth
// @Param slug path string true "店铺 slug"
// @Param id path int true "商品 ID"
// @Success 200 {object} dto.Response
// @Router /shops/{slug}/products/{id} [delete]
func (ctrl *ProductController) Delete(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	shop := middleware.GetCurrentShop(c)
	if err := ctrl.productService.Delete(c.Request.Context(), shop.ID, productID); err != nil {
		failFrom(c, err)
		return
	}
	dto.OKMessage(c, "删除成功")
}

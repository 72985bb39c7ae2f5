package controller

import (
	"github.com/gin-gonic/gin"

	"multishop_v1/internal/api/dto"
	"multishop_v1/internal/service"
)

// ==================== AnalyticsController 平台统计 ====================

type AnalyticsController struct {
	analyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analyticsService: analyticsService}
}

// Overview
// @Summary 平台总览
// @Description 用户/店铺/商品/订单总数与各店销售额，仅平台管理角色可访问
// @Tags Admin (平台管理)
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Response{data=service.PlatformOverview}
// @Router /admin/analytics/overview [get]
func (ctrl *AnalyticsController) Overview(c *gin.Context) {
	overview, err := ctrl.analyticsService.Overview(c.Request.Context())
	if err != nil {
		failFrom(c, err)
		return
	}
	dto.OK(c, overview)
}

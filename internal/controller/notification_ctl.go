package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"multishop_v1/internal/api/dto"
	"multishop_v1/internal/middleware"
	"multishop_v1/internal/service"
)

// ==================== NotificationController 通知模块 ====================

type NotificationController struct {
	notifyService *service.NotificationService
}

func NewNotificationController(notifyService *service.NotificationService) *NotificationController {
	return &NotificationController{notifyService: notifyService}
}

// List
// @Summary 我的通知
// @Tags Notification (通知模块)
// @Produce json
// @Security BearerAuth
// @Param only_unread query bool false "仅未读"
// @Param page query int false "页码"
// @Param page_size query int false "每页条数"
// @Success 200 {object} dto.Response{data=dto.PageData}
// @Router /notifications [get]
func (ctrl *NotificationController) List(c *gin.Context) {
	var req dto.NotificationListReq
	if err := c.ShouldBindQuery(&req); err != nil {
		dto.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	notifications, total, err := ctrl.notifyService.List(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		failFrom(c, err)
		return
	}

	list := make([]dto.NotificationResp, 0, len(notifications))
	for i := range notifications {
		list = append(list, dto.ToNotificationResp(&notifications[i]))
	}
	dto.OK(c, dto.PageData{List: list, Total: total, Page: req.Page, PageSize: req.PageSize})
}

// UnreadCount
// @Summary 未读数
// @Tags Notification (通知模块)
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Response
// @Router /notifications/unread-count [get]
func (ctrl *NotificationController) UnreadCount(c *gin.Context) {
	count, err := ctrl.notifyService.UnreadCount(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		failFrom(c, err)
		return
	}
	dto.OK(c, gin.H{"unread": count})
}

// MarkRead
// @Summary 标记已读
// @Tags Notification (通知模块)
// @Produce json
// @Security BearerAuth
// @Param id path int true "通知 ID"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response "通知不存在"
// @Router /notifications/{id}/read [put]
func (ctrl *NotificationController) MarkRead(c *gin.Context) {
	notificationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.notifyService.MarkRead(c.Request.Context(), middleware.GetUserID(c), notificationID); err != nil {
		failFrom(c, err)
		return
	}
	dto.OKMessage(c, "已标记为已读")
}

// MarkAllRead
// @Summary 全部标记已读
// @Tags Notification (通知模块)
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Response
// @Router /notifications/read-all [put]
func (ctrl *NotificationController) MarkAllRead(c *gin.Context) {
	if err := ctrl.notifyService.MarkAllRead(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		failFrom(c, err)
		return
	}
	dto.OKMessage(c, "全部已读")
}

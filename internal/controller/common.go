package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"multishop_v1/internal/api/dto"
	"multishop_v1/internal/repository"
	"multishop_v1/internal/service"
)

// ==================== 控制器公共逻辑 ====================

// failFrom 把业务错误翻译成统一响应
// 未识别的错误按 500 处理，避免把内部信息带给客户端
func failFrom(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBadCredentials),
		errors.Is(err, service.ErrLegacyDisabled):
		dto.Fail(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrSlugTaken),
		errors.Is(err, service.ErrMemberExists),
		errors.Is(err, service.ErrSKUTaken),
		errors.Is(err, service.ErrReviewExists),
		errors.Is(err, service.ErrReviewModerated),
		errors.Is(err, service.ErrOrderStateInvalid),
		errors.Is(err, repository.ErrInsufficientStock):
		dto.Fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidSlug),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrOldPasswordWrong):
		dto.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrLastAdmin),
		errors.Is(err, service.ErrNotOrderOwner):
		dto.Fail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrShopNotFound),
		errors.Is(err, service.ErrMemberNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrReviewNotFound),
		errors.Is(err, service.ErrNotificationNotFound):
		dto.Fail(c, http.StatusNotFound, err.Error())
	default:
		dto.Fail(c, http.StatusInternalServerError, "服务器内部错误")
	}
}

// pathID 解析路径上的数字 ID，非法时返回 false 并已写入响应
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		dto.Fail(c, http.StatusBadRequest, name+" 必须是正整数")
		return 0, false
	}
	return id, true
}

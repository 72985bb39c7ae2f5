package dto

import (
	"time"

	"multishop_v1/internal/model"
)

// ==================== 评价相关 ====================

// ReviewCreateReq 提交评价请求
type ReviewCreateReq struct {
	ProductID int64  `json:"product_id" binding:"required,gt=0"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Content   string `json:"content" binding:"max=2000"`
}

// ReviewModerateReq 审核请求
type ReviewModerateReq struct {
	Approve    bool   `json:"approve"`
	RejectNote string `json:"reject_note" binding:"max=255"`
}

// ReviewListReq 评价列表查询
type ReviewListReq struct {
	ProductID int64  `form:"product_id"`
	Status    string `form:"status"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
}

// ReviewResp 评价信息
type ReviewResp struct {
	ID         int64     `json:"id"`
	ShopID     int64     `json:"shop_id"`
	ProductID  int64     `json:"product_id"`
	UserID     int64     `json:"user_id"`
	Rating     int       `json:"rating"`
	Content    string    `json:"content"`
	Status     string    `json:"status"`
	RejectNote string    `json:"reject_note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToReviewResp 模型转响应
func ToReviewResp(review *model.Review) ReviewResp {
	return ReviewResp{
		ID:         review.ID,
		ShopID:     review.ShopID,
		ProductID:  review.ProductID,
		UserID:     review.UserID,
		Rating:     review.Rating,
		Content:    review.Content,
		Status:     review.Status,
		RejectNote: review.RejectNote,
		CreatedAt:  review.CreatedAt,
	}
}

// ==================== 通知相关 ====================

// NotificationListReq 通知列表查询
type NotificationListReq struct {
	OnlyUnread bool `form:"only_unread"`
	Page       int  `form:"page"`
	PageSize   int  `form:"page_size"`
}

// NotificationResp 通知信息
type NotificationResp struct {
	ID        int64     `json:"id"`
	ShopID    int64     `json:"shop_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// ToNotificationResp 模型转响应
func ToNotificationResp(n *model.Notification) NotificationResp {
	return NotificationResp{
		ID:        n.ID,
		ShopID:    n.ShopID,
		Type:      n.Type,
		Title:     n.Title,
		Body:      n.Body,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

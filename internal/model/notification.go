package model

import "time"

// 通知类型常量
const (
	NotifyTypeOrder  = "order"  // 订单状态变更
	NotifyTypeReview = "review" // 评价审核结果
	NotifyTypeSystem = "system" // 平台通知
)

// Notification 站内通知
type Notification struct {
	BaseModel
	UserID int64 `gorm:"index;not null"`
	ShopID int64 `gorm:"index;default:0"` // 0 表示平台级通知

	Type  string `gorm:"size:20;index"`
	Title string `gorm:"size:255"`
	Body  string `gorm:"type:text"`

	IsRead bool `gorm:"index;default:false"`
	ReadAt *time.Time
}

func (Notification) TableName() string {
	return "notifications"
}

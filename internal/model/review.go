package model

import "time"

// 评价审核状态常量
const (
	ReviewStatusPending  = "pending"  // 待审核
	ReviewStatusApproved = "approved" // 已通过
	ReviewStatusRejected = "rejected" // 已驳回
)

// Review 商品评价
// 买家提交后进入待审核队列，审核通过才对外展示并计入评分
type Review struct {
	BaseModel
	ShopID    int64 `gorm:"index;not null"`
	ProductID int64 `gorm:"index;uniqueIndex:idx_product_user;not null"`
	UserID    int64 `gorm:"index;uniqueIndex:idx_product_user;not null"`

	Rating  int    `gorm:"not null"` // 1~5
	Content string `gorm:"type:text"`

	Status string `gorm:"size:20;index;default:'pending'"`

	// 审核记录
	ModeratedBy int64 `gorm:"default:0"` // 审核人 UserID
	ModeratedAt *time.Time
	RejectNote  string `gorm:"size:255"` // 驳回原因

	Product *Product `gorm:"foreignKey:ProductID"`
	User    *User    `gorm:"foreignKey:UserID"`
}

func (Review) TableName() string {
	return "reviews"
}

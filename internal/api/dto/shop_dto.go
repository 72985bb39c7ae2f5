package dto

import "multishop_v1/internal/model"

// ==================== 店铺相关 ====================

// ShopRegisterReq 开店请求
// slug 语法在 service 层校验（含保留词）
type ShopRegisterReq struct {
	Slug string `json:"slug" binding:"required"`
	Name string `json:"name" binding:"required,max=100"`
}

// ShopUpdateReq 店铺信息更新请求
// slug 不可变更，不出现在该请求里
type ShopUpdateReq struct {
	Name         string `json:"name" binding:"max=100"`
	LogoUrl      string `json:"logo_url" binding:"max=255"`
	ThemeColor   string `json:"theme_color" binding:"max=20"`
	Announcement string `json:"announcement"`
}

// ShopListReq 店铺列表查询
type ShopListReq struct {
	Keyword  string `form:"keyword"`
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// ShopResp 店铺信息
type ShopResp struct {
	ID           int64  `json:"id"`
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	LogoUrl      string `json:"logo_url"`
	ThemeColor   string `json:"theme_color"`
	Announcement string `json:"announcement"`
	Status       string `json:"status"`
}

// ToShopResp 模型转响应
func ToShopResp(shop *model.Shop) ShopResp {
	return ShopResp{
		ID:           shop.ID,
		Slug:         shop.Slug,
		Name:         shop.Name,
		LogoUrl:      shop.LogoUrl,
		ThemeColor:   shop.ThemeColor,
		Announcement: shop.Announcement,
		Status:       shop.Status,
	}
}

// ==================== 店铺成员相关 ====================

// MemberAddReq 添加成员请求
type MemberAddReq struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=admin manager staff"`
}

// MemberUpdateReq 更新成员请求
type MemberUpdateReq struct {
	Role   string `json:"role" binding:"omitempty,oneof=admin manager staff"`
	Status string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// MemberResp 成员信息
type MemberResp struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// ToMemberResp 模型转响应
func ToMemberResp(member *model.ShopMember) MemberResp {
	resp := MemberResp{
		ID:     member.ID,
		UserID: member.UserID,
		Role:   member.Role,
		Status: member.Status,
	}
	if member.User != nil {
		resp.Email = member.User.Email
		resp.Name = member.User.Nickname
	}
	return resp
}

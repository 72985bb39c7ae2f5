package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ==================== 统一响应结构 ====================

// Response 统一响应体
// 失败时 success 恒为 false，message 为用户可读信息
// 内部错误细节（堆栈、原始数据库错误）只在开发模式下通过 detail 暴露
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Detail  string      `json:"detail,omitempty"`
}

// OK 成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// OKMessage 无数据的成功响应
func OKMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// Fail 失败响应
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Message: message})
}

// FailDetail 带内部细节的失败响应，仅开发模式使用
func FailDetail(c *gin.Context, status int, message, detail string) {
	c.JSON(status, Response{Success: false, Message: message, Detail: detail})
}

// PageData 分页数据
type PageData struct {
	List     interface{} `json:"list"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

package response

import (
	"github.com/gin-gonic/gin"
)

// Success 成功响应：{success: true, message?, ...fields}
func Success(c *gin.Context, status int, msg string, fields gin.H) {
	body := gin.H{"success": true}
	if msg != "" {
		body["message"] = msg
	}
	for key, value := range fields {
		body[key] = value
	}
	c.JSON(status, body)
}

// OK 200 成功响应
func OK(c *gin.Context, fields gin.H) {
	Success(c, CodeOK, "", fields)
}

// Page 分页响应
func Page(c *gin.Context, key string, items interface{}, total int64, totalPages, currentPage int) {
	OK(c, gin.H{
		key:           items,
		"total":       total,
		"totalPages":  totalPages,
		"currentPage": currentPage,
	})
}

// Error 错误响应：{success: false, message, request_id?}
func Error(c *gin.Context, status int, msg string) {
	body := gin.H{
		"success": false,
		"message": msg,
	}
	if requestID := requestIDFrom(c); requestID != "" {
		body["request_id"] = requestID
	}
	c.JSON(status, body)
}

// Unauthorized 401响应
func Unauthorized(c *gin.Context, msg string) {
	Error(c, CodeUnauthorized, msg)
}

// Forbidden 403响应
func Forbidden(c *gin.Context, msg string) {
	Error(c, CodeForbidden, msg)
}

func requestIDFrom(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if value, ok := c.Get("request_id"); ok {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}

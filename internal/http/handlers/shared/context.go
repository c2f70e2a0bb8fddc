package shared

import (
	"github.com/souq-next/internal/http/response"
	"github.com/souq-next/internal/service"

	"github.com/gin-gonic/gin"
)

// PrincipalContextKey 鉴权中间件写入的调用方身份
const PrincipalContextKey = "principal"

// GetPrincipal 从上下文读取调用方身份并统一处理错误响应。
func GetPrincipal(c *gin.Context) (service.Principal, bool) {
	value, exists := c.Get(PrincipalContextKey)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "Not authorized", nil)
		return service.Principal{}, false
	}
	switch v := value.(type) {
	case service.Principal:
		if v.UserID == 0 {
			RespondError(c, response.CodeUnauthorized, "Not authorized", nil)
			return service.Principal{}, false
		}
		return v, true
	case *service.Principal:
		if v == nil || v.UserID == 0 {
			RespondError(c, response.CodeUnauthorized, "Not authorized", nil)
			return service.Principal{}, false
		}
		return *v, true
	default:
		RespondError(c, response.CodeInternal, "Server error", nil)
		return service.Principal{}, false
	}
}

// ParseUintParam 读取路径中的正整数 ID。
func ParseUintParam(c *gin.Context, name, invalidMsg string) (uint, bool) {
	id, err := parseUint(c.Param(name))
	if err != nil || id == 0 {
		RespondError(c, response.CodeBadRequest, invalidMsg, nil)
		return 0, false
	}
	return id, true
}

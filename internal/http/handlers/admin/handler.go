package admin

import "github.com/souq-next/internal/provider"

// Handler 平台管理接口处理器入口
// 说明：该处理器仅用于 SUPERADMIN 角色可访问的 API。
type Handler struct {
	*provider.Container
}

// New 创建平台管理处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

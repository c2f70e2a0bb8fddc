package public

import "github.com/souq-next/internal/provider"

// Handler 用户侧接口处理器入口
// 说明：购物车与订单接口，调用方均需登录。
type Handler struct {
	*provider.Container
}

// New 创建用户侧处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

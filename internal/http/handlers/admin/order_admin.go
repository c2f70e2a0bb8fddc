package admin

import (
	handlershared "github.com/souq-next/internal/http/handlers/shared"
	"github.com/souq-next/internal/http/response"
	"github.com/souq-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListAllOrders 平台全部订单（默认每页 20 条）
func (h *Handler) ListAllOrders(c *gin.Context) {
	page, limit := handlershared.ParsePageQuery(c)
	result, err := h.OrderService.ListAll(c.Request.Context(), service.OrderListQuery{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "Failed to fetch orders", err)
		return
	}
	response.Page(c, "orders", result.Orders, result.Total, result.TotalPages, result.CurrentPage)
}

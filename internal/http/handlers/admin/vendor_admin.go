package admin

import (
	"errors"

	handlershared "github.com/souq-next/internal/http/handlers/shared"
	"github.com/souq-next/internal/http/response"
	"github.com/souq-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ReconcileVendor 商家累计统计与流水对账
func (h *Handler) ReconcileVendor(c *gin.Context) {
	vendorID, ok := handlershared.ParseUintParam(c, "id", "Invalid vendor id")
	if !ok {
		return
	}
	result, err := h.ReconcileService.Reconcile(c.Request.Context(), vendorID)
	if err != nil {
		if errors.Is(err, service.ErrVendorNotFound) {
			handlershared.RespondError(c, response.CodeNotFound, "Vendor not found", nil)
			return
		}
		handlershared.RespondError(c, response.CodeInternal, "Failed to reconcile vendor", err)
		return
	}
	response.OK(c, gin.H{"reconcile": result})
}

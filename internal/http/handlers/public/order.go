package public

import (
	"fmt"

	handlershared "github.com/souq-next/internal/http/handlers/shared"
	"github.com/souq-next/internal/http/response"
	"github.com/souq-next/internal/models"
	"github.com/souq-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ShippingAddressRequest 收货地址
type ShippingAddressRequest struct {
	FullName     string `json:"fullName"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
}

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	ShippingAddress *ShippingAddressRequest `json:"shippingAddress"`
	PaymentMethod   string                  `json:"paymentMethod"`
	CustomerNotes   string                  `json:"customerNotes"`
}

// UpdateOrderStatusRequest 商家更新状态请求
type UpdateOrderStatusRequest struct {
	Status         string `json:"status"`
	TrackingNumber string `json:"trackingNumber"`
	VendorNotes    string `json:"vendorNotes"`
}

// CancelOrderRequest 取消订单请求
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

func (r *ShippingAddressRequest) toModel() models.ShippingAddress {
	if r == nil {
		return models.ShippingAddress{}
	}
	return models.ShippingAddress{
		FullName:     r.FullName,
		Phone:        r.Phone,
		AddressLine1: r.AddressLine1,
		AddressLine2: r.AddressLine2,
		City:         r.City,
		State:        r.State,
		PostalCode:   r.PostalCode,
		Country:      r.Country,
	}
}

// CreateOrder 结算购物车，按商家拆单
func (h *Handler) CreateOrder(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "Invalid request body", nil)
		return
	}
	orders, err := h.CheckoutService.PlaceOrder(c.Request.Context(), service.PlaceOrderInput{
		CustomerID:      principal.UserID,
		ShippingAddress: req.ShippingAddress.toModel(),
		PaymentMethod:   req.PaymentMethod,
		CustomerNotes:   req.CustomerNotes,
	})
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, "Failed to place order")
		return
	}
	msg := fmt.Sprintf("%d order(s) created successfully", len(orders))
	response.Success(c, response.CodeCreated, msg, gin.H{"orders": orders})
}

// ListMyOrders 我的订单
func (h *Handler) ListMyOrders(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	page, limit := handlershared.ParsePageQuery(c)
	result, err := h.OrderService.ListMyOrders(c.Request.Context(), principal, service.OrderListQuery{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondWithMappedError(c, err, nil, "Failed to fetch orders")
		return
	}
	response.Page(c, "orders", result.Orders, result.Total, result.TotalPages, result.CurrentPage)
}

// ListVendorOrders 商家订单
func (h *Handler) ListVendorOrders(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	page, limit := handlershared.ParsePageQuery(c)
	result, err := h.OrderService.ListVendorOrders(c.Request.Context(), principal, service.OrderListQuery{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondWithMappedError(c, err, vendorOrderListErrorRules, "Failed to fetch orders")
		return
	}
	response.Page(c, "orders", result.Orders, result.Total, result.TotalPages, result.CurrentPage)
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseUintParam(c, "id", "Order not found")
	if !ok {
		return
	}
	order, err := h.OrderService.GetByID(c.Request.Context(), orderID, principal)
	if err != nil {
		respondWithMappedError(c, err, orderViewErrorRules, "Failed to fetch order")
		return
	}
	response.OK(c, gin.H{"order": order})
}

// UpdateOrderStatus 商家更新订单状态
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseUintParam(c, "id", "Order not found")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "Invalid order status", nil)
		return
	}
	order, err := h.OrderService.UpdateStatus(c.Request.Context(), orderID, principal, service.UpdateStatusInput{
		Status:         req.Status,
		TrackingNumber: req.TrackingNumber,
		VendorNotes:    req.VendorNotes,
	})
	if err != nil {
		respondWithMappedError(c, err, orderStatusErrorRules, "Failed to update order status")
		return
	}
	response.Success(c, response.CodeOK, "Order status updated", gin.H{"order": order})
}

// CancelOrder 取消订单
func (h *Handler) CancelOrder(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseUintParam(c, "id", "Order not found")
	if !ok {
		return
	}
	var req CancelOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "Invalid request body", nil)
			return
		}
	}
	order, err := h.OrderService.Cancel(c.Request.Context(), orderID, principal, req.Reason)
	if err != nil {
		respondWithMappedError(c, err, orderCancelErrorRules, "Failed to cancel order")
		return
	}
	response.Success(c, response.CodeOK, "Order cancelled successfully", gin.H{"order": order})
}

package public

import (
	handlershared "github.com/souq-next/internal/http/handlers/shared"
	"github.com/souq-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加购请求
type AddCartItemRequest struct {
	ProductID uint `json:"productId"`
	Quantity  *int `json:"quantity"`
}

// UpdateCartItemRequest 修改数量请求
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	cart, err := h.CartService.Get(c.Request.Context(), principal.UserID)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, "Failed to fetch cart")
		return
	}
	response.OK(c, gin.H{"cart": cart})
}

// GetGroupedCart 按商家分组查看购物车
func (h *Handler) GetGroupedCart(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	groups, err := h.CartService.GroupByVendor(c.Request.Context(), principal.UserID)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, "Failed to fetch cart")
		return
	}
	response.OK(c, gin.H{"groups": groups})
}

// AddCartItem 加入购物车
func (h *Handler) AddCartItem(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "Invalid request body", nil)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	cart, err := h.CartService.Add(c.Request.Context(), principal.UserID, req.ProductID, quantity)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, "Failed to add item to cart")
		return
	}
	response.Success(c, response.CodeOK, "Item added to cart", gin.H{"cart": cart})
}

// UpdateCartItem 修改购物车项数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	productID, ok := handlershared.ParseUintParam(c, "productId", "Product ID is required")
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "Invalid request body", nil)
		return
	}
	cart, err := h.CartService.UpdateQuantity(c.Request.Context(), principal.UserID, productID, req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, "Failed to update cart")
		return
	}
	response.Success(c, response.CodeOK, "Cart updated", gin.H{"cart": cart})
}

// RemoveCartItem 移除购物车项
func (h *Handler) RemoveCartItem(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	productID, ok := handlershared.ParseUintParam(c, "productId", "Product ID is required")
	if !ok {
		return
	}
	cart, err := h.CartService.Remove(c.Request.Context(), principal.UserID, productID)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, "Failed to remove item from cart")
		return
	}
	response.Success(c, response.CodeOK, "Item removed from cart", gin.H{"cart": cart})
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	cart, err := h.CartService.Clear(c.Request.Context(), principal.UserID)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, "Failed to clear cart")
		return
	}
	response.Success(c, response.CodeOK, "Cart cleared", gin.H{"cart": cart})
}

package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrCartItemNotFound   = errors.New("item not found in cart")
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product is no longer available")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrOrderNotFound      = errors.New("order not found")
	ErrVendorNotFound     = errors.New("vendor profile not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserDisabled       = errors.New("user is disabled")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidState       = errors.New("invalid order state transition")
	ErrCannotCancel       = fmt.Errorf("%w: cannot cancel order in this status", ErrInvalidState)
	ErrForbidden          = errors.New("not authorized to access this order")
	ErrCheckoutConflict   = errors.New("cart changed during checkout, please retry")
	ErrCheckoutInProgress = errors.New("another checkout is in progress")
	ErrOrderNumberExhaust = errors.New("failed to allocate order number")
	ErrInvalidToken       = errors.New("invalid token")
)

// ValidationError 参数校验错误
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap 支持 errors.Is(err, ErrValidation)
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func newValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ProductUnavailableError 商品不可下单
type ProductUnavailableError struct {
	ProductID uint
	Name      string
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("Product %q is no longer available", e.Name)
}

// Unwrap 支持 errors.Is(err, ErrProductUnavailable)
func (e *ProductUnavailableError) Unwrap() error {
	return ErrProductUnavailable
}

// InsufficientStockError 库存不足
type InsufficientStockError struct {
	ProductID uint
	Name      string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %q. Only %d available", e.Name, e.Available)
}

// Unwrap 支持 errors.Is(err, ErrInsufficientStock)
func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

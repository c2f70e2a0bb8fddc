package shared

import (
	"errors"

	"github.com/souq-next/internal/service"
)

// BusinessMessage 提取面向用户的业务错误文案
func BusinessMessage(err error) string {
	if err == nil {
		return ""
	}
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}
	var stockErr *service.InsufficientStockError
	if errors.As(err, &stockErr) {
		return stockErr.Error()
	}
	var unavailableErr *service.ProductUnavailableError
	if errors.As(err, &unavailableErr) {
		return unavailableErr.Error()
	}
	return err.Error()
}

package public

import (
	handlershared "github.com/souq-next/internal/http/handlers/shared"
	"github.com/souq-next/internal/http/response"
	"github.com/souq-next/internal/service"

	"github.com/gin-gonic/gin"
)

type mappedHandlerError = handlershared.MappedError

var checkoutErrorRules = []mappedHandlerError{
	{Target: service.ErrValidation, Code: response.CodeBadRequest},
	{Target: service.ErrCartEmpty, Code: response.CodeBadRequest, Message: "Cart is empty"},
	{Target: service.ErrProductUnavailable, Code: response.CodeBadRequest},
	{Target: service.ErrInsufficientStock, Code: response.CodeBadRequest},
	{Target: service.ErrCheckoutConflict, Code: response.CodeConflict, Message: "Cart changed during checkout, please retry"},
	{Target: service.ErrCheckoutInProgress, Code: response.CodeConflict, Message: "Another checkout is in progress"},
}

var orderLookupErrorRules = []mappedHandlerError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Message: "Order not found"},
}

var orderViewErrorRules = handlershared.ConcatMappedErrors(orderLookupErrorRules, []mappedHandlerError{
	{Target: service.ErrForbidden, Code: response.CodeForbidden, Message: "Not authorized to view this order"},
})

var orderStatusErrorRules = handlershared.ConcatMappedErrors([]mappedHandlerError{
	{Target: service.ErrInvalidStatus, Code: response.CodeBadRequest, Message: "Invalid order status"},
}, orderLookupErrorRules, []mappedHandlerError{
	{Target: service.ErrForbidden, Code: response.CodeForbidden, Message: "Not authorized to update this order"},
	{Target: service.ErrInvalidState, Code: response.CodeBadRequest, Message: "Invalid status transition"},
})

var orderCancelErrorRules = handlershared.ConcatMappedErrors(orderLookupErrorRules, []mappedHandlerError{
	{Target: service.ErrForbidden, Code: response.CodeForbidden, Message: "Not authorized to cancel this order"},
	{Target: service.ErrCannotCancel, Code: response.CodeBadRequest, Message: "Cannot cancel order in this status"},
	{Target: service.ErrInvalidState, Code: response.CodeBadRequest, Message: "Cannot cancel order in this status"},
})

var vendorOrderListErrorRules = []mappedHandlerError{
	{Target: service.ErrVendorNotFound, Code: response.CodeNotFound, Message: "Vendor profile not found"},
}

var cartErrorRules = []mappedHandlerError{
	{Target: service.ErrValidation, Code: response.CodeBadRequest},
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Message: "Product not found"},
	{Target: service.ErrCartItemNotFound, Code: response.CodeNotFound, Message: "Item not found in cart"},
	{Target: service.ErrProductUnavailable, Code: response.CodeBadRequest},
	{Target: service.ErrInsufficientStock, Code: response.CodeBadRequest},
	{Target: service.ErrCheckoutConflict, Code: response.CodeConflict, Message: "Cart changed concurrently, please retry"},
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackMsg string) {
	handlershared.RespondMappedError(c, err, rules, response.CodeInternal, fallbackMsg)
}

package public

import (
	handlershared "github.com/souq-next/internal/http/handlers/shared"
	"github.com/souq-next/internal/service"

	"github.com/gin-gonic/gin"
)

func getPrincipal(c *gin.Context) (service.Principal, bool) {
	return handlershared.GetPrincipal(c)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/coachtranscribe/engine/modules/billing/interfaces/http/handlers"
	"github.com/coachtranscribe/engine/modules/user/interfaces/http/middleware"
)

// UsageRoutes mounts the billing module's read surface.
type UsageRoutes struct {
	handlers       *handlers.UsageHandlers
	authMiddleware *middleware.AuthMiddleware
}

func NewUsageRoutes(h *handlers.UsageHandlers, authMiddleware *middleware.AuthMiddleware) *UsageRoutes {
	return &UsageRoutes{handlers: h, authMiddleware: authMiddleware}
}

func (ur *UsageRoutes) Setup(router *gin.RouterGroup) {
	router.Use(ur.authMiddleware.FirebaseAuth())
	router.GET("/usage", ur.handlers.GetUsageStatus)
}

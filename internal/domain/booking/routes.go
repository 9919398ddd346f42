package booking

import (
	"github.com/gin-gonic/gin"

	"umrahstay/internal/middleware"
)

// RegisterRoutes mounts the booking endpoints on authed, which must already
// carry JWTAuth.
func (h *Handler) RegisterRoutes(authed *gin.RouterGroup) {
	bookings := authed.Group("/bookings")
	{
		bookings.GET("", h.List)
		bookings.POST("", h.Create)
		bookings.GET("/:id", h.Get)
		bookings.POST("/:id/cancel", h.Cancel)
		bookings.PATCH("/:id/status", middleware.AdminOnly(), h.UpdateStatus)
	}
}

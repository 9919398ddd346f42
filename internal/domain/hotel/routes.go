package hotel

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the public catalogue on public and the write
// endpoints on admin, which must already carry the admin guard.
func (h *Handler) RegisterRoutes(public, admin *gin.RouterGroup) {
	public.GET("/hotels", h.Search)
	public.GET("/hotels/:id", h.Get)
	public.GET("/amenities", h.ListAmenities)

	admin.POST("/hotels", h.Create)
	admin.PUT("/hotels/:id", h.Update)
	admin.DELETE("/hotels/:id", h.Delete)
}

package profile

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the profile endpoints on authed, which must already
// carry JWTAuth.
func (h *Handler) RegisterRoutes(authed *gin.RouterGroup) {
	profile := authed.Group("/user/profile")
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
	}
}

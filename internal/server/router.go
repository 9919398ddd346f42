// Package server assembles the HTTP router from the feature handlers.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"umrahstay/internal/domain/booking"
	"umrahstay/internal/domain/hotel"
	"umrahstay/internal/domain/profile"
	"umrahstay/internal/middleware"
	jwtsvc "umrahstay/internal/pkg/jwt"
	"umrahstay/internal/repository"
)

type Deps struct {
	DB          *gorm.DB
	JWT         *jwtsvc.Service
	SearchCache hotel.SearchCache // optional
	Notifier    booking.Notifier  // optional
	CORSOrigins []string
}

func NewRouter(d Deps) *gin.Engine {
	users := repository.NewUserRepository(d.DB)

	hotelHandler := hotel.NewHandler(hotel.NewService(hotel.NewRepository(d.DB), d.SearchCache))
	bookingHandler := booking.NewHandler(booking.NewService(booking.NewRepository(d.DB), users, d.Notifier))
	profileHandler := profile.NewHandler(profile.NewService(users))

	r := gin.New()
	r.Use(middleware.ErrorLogger(), middleware.AccessLogger(), middleware.CORS(d.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
	})

	api := r.Group("/api")
	{
		authed := api.Group("", middleware.JWTAuth(d.JWT))
		admin := authed.Group("", middleware.AdminOnly())

		hotelHandler.RegisterRoutes(api, admin)
		bookingHandler.RegisterRoutes(authed)
		profileHandler.RegisterRoutes(authed)
	}
	return r
}

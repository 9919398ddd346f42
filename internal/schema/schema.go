// Package schema migrates every table the service owns.
package schema

import (
	"gorm.io/gorm"

	"umrahstay/internal/database"
	"umrahstay/internal/domain/booking"
	"umrahstay/internal/domain/hotel"
	"umrahstay/internal/repository"
)

func Migrate(db *gorm.DB) error {
	models := append(repository.UserModels(), hotel.Models()...)
	if err := database.Migrate(db, models...); err != nil {
		return err
	}
	return booking.Migrate(db)
}

package db

import (
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/meinhoongagan/conectados/models"
)

// Migrate creates or updates the schema, including the unique index on a
// provider's (date, hour) slot and the one-review-per-appointment index.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.Appointment{},
		&models.Review{},
	)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	log.Info("✅ Migrations applied successfully!")
	return nil
}

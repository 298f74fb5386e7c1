package db

import (
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the Postgres connection without running migrations.
func Connect(dsn string, debug bool) (*gorm.DB, error) {
	db, err := Open(postgres.Open(dsn), debug)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	log.Info("✅ Database connection established successfully!")
	return db, nil
}

// Open applies the shared gorm settings to any dialector. Driver errors are
// translated so unique violations surface as gorm.ErrDuplicatedKey.
func Open(dialector gorm.Dialector, debug bool) (*gorm.DB, error) {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	return gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
}

package database

import (
	"log"

	"github.com/tripdesk/registration-api/internal/config"
	"github.com/tripdesk/registration-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto Migrate
	err = db.AutoMigrate(
		&models.User{},
		&models.Flight{},
		&models.GroupFlightAssignment{},
		&models.Registration{},
		&models.RegistrationHistory{},
		&models.EventSettings{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	return db
}

package database

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"pos-fbr-backend/models"
)

var DB *gorm.DB

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Connect loads .env and opens the PostgreSQL connection. TranslateError is
// enabled so unique-index violations surface as gorm.ErrDuplicatedKey and can
// be mapped to the Conflict error kind at the boundary.
func Connect() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("no .env file found, using process environment")
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		env("DB_HOST", "localhost"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		env("DB_PORT", "5432"),
		env("DB_SSLMODE", "disable"),
		env("DB_TIMEZONE", "Asia/Karachi"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to database")
	}
}

// AutoMigrate creates/updates tables for all persisted entities.
func AutoMigrate() {
	if err := DB.AutoMigrate(
		&models.Branch{},
		&models.Device{},
		&models.Category{},
		&models.TaxRate{},
		&models.Product{},
		&models.Customer{},
		&models.User{},
		&models.Sale{},
		&models.SaleItem{},
		&models.Payment{},
		&models.InvoiceSyncLog{},
		&models.IdempotencyKey{},
	); err != nil {
		log.Fatal().Err(err).Msg("automigrate failed")
	}
}

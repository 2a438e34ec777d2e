package database

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"prediction-service/internal/models"
)

var DB *gorm.DB

// Connect opens the prediction audit database and migrates its schema.
// DB_HOST selects postgres (with the usual DB_USER/DB_PASSWORD/DB_NAME/DB_PORT
// variables); otherwise AUDIT_DB_PATH selects a sqlite file. With neither set
// the audit log is disabled and Connect is a no-op: scoring has no data
// dependency on it.
func Connect() error {
	var dialector gorm.Dialector
	switch {
	case os.Getenv("DB_HOST") != "":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			os.Getenv("DB_HOST"),
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"),
			os.Getenv("DB_PORT"),
		)
		dialector = postgres.Open(dsn)
	case os.Getenv("AUDIT_DB_PATH") != "":
		dialector = sqlite.Open(os.Getenv("AUDIT_DB_PATH"))
	default:
		log.Println("No audit database configured; prediction audit log disabled")
		return nil
	}

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to audit database: %w", err)
	}

	if err := DB.AutoMigrate(&models.PredictionLog{}); err != nil {
		return fmt.Errorf("failed to migrate audit database schema: %w", err)
	}
	log.Println("Audit database connection established")
	return nil
}

// GetDB returns the gorm database instance, or nil when auditing is disabled.
func GetDB() *gorm.DB {
	return DB
}

// LogPrediction persists one audit row. Audit failures are logged and
// swallowed; they must never fail the request that produced them.
func LogPrediction(entry *models.PredictionLog) {
	if DB == nil {
		return
	}
	if err := DB.Create(entry).Error; err != nil {
		log.Printf("Failed to write prediction audit log: %v", err)
	}
}

package database

import (
	"fmt"
	"os"
	"strconv"

	"arena-app/logger"
	"arena-app/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASSWORD")
	name := os.Getenv("DB_NAME")
	sslmode := os.Getenv("DB_SSLMODE")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, pass, name, port, sslmode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Fatal("failed to connect to database: %v", err)
	}

	DB = db
	logger.Info("connected to database %s", name)

	autoMigrateEnv := os.Getenv("DB_AUTO_MIGRATE")
	autoMigrate, err := strconv.ParseBool(autoMigrateEnv)
	if err != nil && autoMigrateEnv != "" {
		logger.Warn("invalid value for DB_AUTO_MIGRATE: %s", autoMigrateEnv)
	}

	if autoMigrate {
		logger.Info("starting auto-migration")
		if err := Migrate(DB); err != nil {
			logger.Fatal("failed to auto-migrate database: %v", err)
		}
		logger.Info("auto migration completed")
	}
}

// Migrate creates or updates the schema for every model. Split out so
// tests can run it against their own database handle.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Staff{},
		&models.Session{},
		&models.FundPool{},
		&models.TellerBalance{},
		&models.TellerAssignment{},
		&models.CashTransfer{},
		&models.Fight{},
		&models.Bet{},
	)
}

package config

import (
	"fmt"

	"github.com/apebrain/shop-api/models"
	"github.com/apebrain/shop-api/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OpenPostgres initializes the database connection and performs migrations
func OpenPostgres(config *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}
	utils.LogInfo("Connected to postgres database %s on %s", config.DBName, config.DBHost)

	err = db.AutoMigrate(
		&models.User{},
		&models.PasswordResetToken{},
		&models.Order{},
		&models.Coupon{},
		&models.Product{},
		&models.BlogPost{},
		&models.Setting{},
		&models.ColorProfile{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %v", err)
	}
	return db, nil
}

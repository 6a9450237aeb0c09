package configs

import (
	"fmt"

	"cafe-backend/entity"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var db *gorm.DB

func DB() *gorm.DB {
	return db
}

// ConnectionDB opens sqlite (default) or postgres depending on DB_DRIVER.
func ConnectionDB(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DBSource)
	case "sqlite", "":
		dialector = sqlite.Open(cfg.DBSource)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	level := gormlogger.Warn
	if cfg.Debug {
		level = gormlogger.Info
	}
	database, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	db = database
	return db, nil
}

// SetupDatabase migrates the schema.
func SetupDatabase(database *gorm.DB) error {
	return database.AutoMigrate(
		&entity.User{}, &entity.CustomerProfile{}, &entity.OTPDevice{},
		&entity.Category{}, &entity.MenuItem{},
		&entity.Order{}, &entity.OrderItem{}, &entity.Payment{},
		&entity.Review{},
		&entity.SupportRequest{}, &entity.SupportMessage{},
	)
}

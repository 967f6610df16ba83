package config

import (
	"fmt"
	"time"

	"github.com/SahilDudhatWork/Synthia.AI/internal/logger"
	"github.com/SahilDudhatWork/Synthia.AI/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

func ConnectDB() error {
	level := gormlogger.Warn
	if AppConfig.LogLevel == "debug" {
		level = gormlogger.Info
	}

	var err error
	DB, err = gorm.Open(postgres.Open(AppConfig.DatabaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pool settings
	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logger.Log.Info("Database connected successfully")
	return nil
}

// MigrateAllModels creates or alters the tables. The schema is normally owned
// by the hosted database, so this only runs when DB_MIGRATE is set.
func MigrateAllModels(db *gorm.DB, run bool) error {
	if !run {
		logger.Log.Info("skipping migration")
		return nil
	}

	err := db.AutoMigrate(models.All()...)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Log.Info("Database migration completed")
	return nil
}

func CloseDB() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

package pkg

import (
	"fmt"

	"github.com/classtrack/learning-service/internal/config"
	"github.com/classtrack/learning-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Warn
	if !cfg.IsProduction() {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// MigrateDatabase creates or updates the schema for all domain tables.
func MigrateDatabase(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Subject{},
		&models.StudyLog{},
		&models.Assignment{},
		&models.Grade{},
		&models.Report{},
		&models.StudyGoal{},
		&models.DailyReflection{},
		&models.Notification{},
	)
}

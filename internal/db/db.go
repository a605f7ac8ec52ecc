package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/fieldops/internal/config"
	"github.com/BruksfildServices01/fieldops/internal/models"
)

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates every table and normalizes legacy status casing.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Service{},
		&models.Job{},
		&models.Invoice{},
		&models.JobMedia{},
		&models.Automation{},
		&models.ActivityLog{},
		&models.PushSubscription{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	fixups := []string{
		`UPDATE jobs SET status = LOWER(status) WHERE status <> LOWER(status)`,
		`UPDATE jobs SET status = 'in-progress' WHERE status IN ('in_progress', 'in progress', 'inprogress')`,
		`UPDATE invoices SET status = LOWER(status) WHERE status <> LOWER(status)`,
		`UPDATE users SET role = LOWER(role) WHERE role <> LOWER(role)`,
	}
	for _, stmt := range fixups {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("normalize legacy rows: %w", err)
		}
	}

	return nil
}

package database

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Initialize(dbPath string) (*gorm.DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&CaseRecord{},
		&UserCase{},
		&SubscribedCases{},
	); err != nil {
		return err
	}

	return createIndexes(db)
}

// createIndexes creates indexes AutoMigrate does not cover
func createIndexes(db *gorm.DB) error {
	// Case-insensitive diary number lookups
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_case_records_diary_lower
		ON case_records(LOWER(diary_number))
	`).Error; err != nil {
		return err
	}

	// Subscription lookups by user and case
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_subscribed_cases_user_case
		ON subscribed_cases(user_id, case_id, status)
	`).Error; err != nil {
		return err
	}

	// Duplicate tracked-case detection
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_user_cases_user_diary
		ON user_cases(user_id, diary_number)
	`).Error; err != nil {
		return err
	}

	return nil
}

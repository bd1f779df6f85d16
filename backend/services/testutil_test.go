package services

import (
	"io"
	"log"
	"testing"

	"learnforge/backend/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory database pinned to a single connection so
// every query sees the same schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.AgentKey{},
		&models.Course{},
		&models.Module{},
		&models.Topic{},
		&models.Progress{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

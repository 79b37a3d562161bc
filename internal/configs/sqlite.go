package config

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	repository "task-tracker.com/task-tracker/internal/repositories"
)

func NewDatabaseClient(dsn string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	if err := repository.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	return db
}

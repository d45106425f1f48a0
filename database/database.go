package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Database struct {
	db                    *gorm.DB
	contactSubmissionRepo *ContactSubmissionRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:                    db,
		contactSubmissionRepo: NewContactSubmissionRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) ContactSubmissionRepo() *ContactSubmissionRepo {
	return d.contactSubmissionRepo
}

// Ping checks that the database answers within timeout.
func (d Database) Ping(ctx context.Context, timeout time.Duration) error {
	if d.db == nil {
		return fmt.Errorf("database not initialized")
	}
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return sqlDB.PingContext(pingCtx)
}

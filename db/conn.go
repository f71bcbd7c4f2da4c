// Package db contains things related to the database connection
package db

import (
	"bitwise74/auth-api/internal/model"
	"bitwise74/auth-api/pkg/util"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// schemaRevision is bumped whenever the models change in a way that
// needs to be tracked
const schemaRevision = "0001_users_otp"

// New opens the database described by typ and dsn and migrates it.
// typ is either "sqlite" or "postgres".
func New(typ, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch typ {
	case "sqlite":
		if dsn != ":memory:" {
			// If running in a container don't allow the sqlite file to be created.
			// The host should instead mount it using volumes
			if util.IsRunningInContainer() {
				if _, err := os.Stat(dsn); errors.Is(err, os.ErrNotExist) {
					return nil, fmt.Errorf("SQLite database file not mounted, please use volumes to mount it to %s", dsn)
				}
			} else if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory, %w", err)
			}
		}

		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database type %q", typ)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database, %w", typ, err)
	}

	// Every connection to :memory: gets its own empty database
	if dsn == ":memory:" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}

		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the tables and records the schema revision
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(model.User{}, model.Migration{})
	if err != nil {
		return fmt.Errorf("failed to automigrate tables, %w", err)
	}

	err = db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.Migration{Name: schemaRevision}).
		Error
	if err != nil {
		return fmt.Errorf("failed to record schema revision, %w", err)
	}

	return nil
}

// Package store persists an audit trail of codec operations: every
// compress/decompress/paramdata-load the prsctl CLI performs is recorded here
// so an operator can answer "what ran against this file, and when."
package store

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

// Initialize opens the configured database engine and migrates the schema.
// engine is "postgres" or "sqlite"; dataSource is a Postgres DSN for the
// former and a file path (or ":memory:") for the latter.
func Initialize(engine, dataSource string, debug bool) error {
	log := logger.Default.LogMode(logger.Error)
	if debug {
		log = logger.Default.LogMode(logger.Info)
	}

	var dialector gorm.Dialector
	switch engine {
	case "postgres":
		dialector = postgres.Open(dataSource)
	case "sqlite":
		dialector = sqlite.Open(dataSource)
	default:
		return fmt.Errorf("unsupported database engine %q", engine)
	}

	var err error
	db, err = gorm.Open(dialector, &gorm.Config{Logger: log})
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	if err := db.AutoMigrate(&CompressionJob{}); err != nil {
		return fmt.Errorf("error auto migrating db: %w", err)
	}
	return nil
}

func Shutdown() error {
	database, err := db.DB()
	if err != nil {
		return fmt.Errorf("error while getting current connection: %w", err)
	}
	if err := database.Close(); err != nil {
		return fmt.Errorf("error while closing database connection: %w", err)
	}
	return nil
}

// DB returns the initialized database handle for callers (primarily cmd/prsctl)
// that need to pass it to the Find/Create functions below.
func DB() *gorm.DB {
	return db
}

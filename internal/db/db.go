package db

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func Init(driver, connection string) (*sqlx.DB, error) {
	// SQLite: create data directory if needed
	if driver == "sqlite" {
		path, _, _ := strings.Cut(connection, "?")
		path = strings.TrimPrefix(path, "file:")
		if path != "" && path != ":memory:" {
			err := os.MkdirAll(filepath.Dir(path), 0755)
			if err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	}

	db, err := sqlx.Connect(driver, connection)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	// A single writer is assumed; keep the pool small so SQLite locking stays cheap.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	slog.Info("database connected", "driver", driver)

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if driver == "sqlite" {
		checkForeignKeys(db)
	}

	return db, nil
}

// checkForeignKeys warns when the DSN did not enable foreign keys. Cascades
// from goals to entries, images and milestones depend on them.
func checkForeignKeys(db *sqlx.DB) {
	var enabled int
	err := db.Get(&enabled, "PRAGMA foreign_keys")
	if err != nil {
		slog.Warn("failed to read foreign_keys pragma", "error", err)
		return
	}
	if enabled == 0 {
		slog.Warn("sqlite foreign keys are disabled, add _pragma=foreign_keys(1) to DB_CONNECTION")
	}
}

func Close(db *sqlx.DB) error {
	if db != nil {
		return db.Close()
	}
	return nil
}

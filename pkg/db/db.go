package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// busyTimeout bounds how long a writer waits for a lock held by another
// roombridge process, such as `config --save` next to a running bridge.
const busyTimeout = 5 * time.Second

// DB is the bridge's settings file. It holds every profile and, per
// profile, one api_servers, mqtt_brokers and vacuums row.
type DB struct {
	*sql.DB
	path string
}

// Open opens the settings file at path, creating it and its directory on
// first run. An empty path means defaultPath and a leading ~ is the home
// directory. Call Migrate before use.
func Open(path string) (*DB, error) {
	path, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create settings directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)",
		path, busyTimeout.Milliseconds())
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings %s: %w", path, err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to open settings %s: %w", path, err)
	}

	return &DB{DB: sqlDB, path: path}, nil
}

// Path returns the resolved settings file location.
func (db *DB) Path() string {
	return db.path
}

func (db *DB) Close() error {
	return db.DB.Close()
}

// inTx runs fn in a transaction, committing only if fn succeeds.
func (db *DB) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// defaultPath is roombridge/roombridge.db under $XDG_CONFIG_HOME on Linux,
// or under ~/.config when that is unset and on other systems.
func defaultPath() (string, error) {
	base := ""
	if runtime.GOOS == "linux" {
		base = os.Getenv("XDG_CONFIG_HOME")
	}
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine settings path: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "roombridge", "roombridge.db"), nil
}

func resolvePath(path string) (string, error) {
	if path == "" {
		return defaultPath()
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to expand home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

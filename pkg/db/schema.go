package db

import (
	"context"
	"database/sql"
	"fmt"
)

const currentSchemaVersion = 1

// Schema SQL for version 1
const schemaV1 = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version     INTEGER PRIMARY KEY,
    applied_at  TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Profiles (one per bridged vacuum)
CREATE TABLE IF NOT EXISTS profiles (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL UNIQUE,
    is_active   INTEGER NOT NULL DEFAULT 0,
    created_at  TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
);

-- API server config
CREATE TABLE IF NOT EXISTS api_servers (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    profile_id  INTEGER NOT NULL UNIQUE REFERENCES profiles(id) ON DELETE CASCADE,
    host        TEXT NOT NULL DEFAULT '0.0.0.0',
    port        INTEGER NOT NULL DEFAULT 8080,
    created_at  TEXT NOT NULL DEFAULT (datetime('now'))
);

-- MQTT broker and topic layout
CREATE TABLE IF NOT EXISTS mqtt_brokers (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    profile_id    INTEGER NOT NULL UNIQUE REFERENCES profiles(id) ON DELETE CASCADE,
    url           TEXT NOT NULL DEFAULT 'tcp://localhost:1883',
    client_id     TEXT NOT NULL DEFAULT '',
    username      TEXT NOT NULL DEFAULT '',
    password      TEXT NOT NULL DEFAULT '',
    topic_base    TEXT NOT NULL DEFAULT 'vacuum/',
    id_prefix     TEXT NOT NULL DEFAULT 'roomba',
    divider       TEXT NOT NULL DEFAULT '/',
    command_topic TEXT NOT NULL DEFAULT 'command',
    state_topic   TEXT NOT NULL DEFAULT 'state',
    config_topic  TEXT NOT NULL DEFAULT 'config',
    created_at    TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at    TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Vacuum link and feature toggles
CREATE TABLE IF NOT EXISTS vacuums (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    profile_id       INTEGER NOT NULL UNIQUE REFERENCES profiles(id) ON DELETE CASCADE,
    model            TEXT NOT NULL DEFAULT '650',
    transport        TEXT NOT NULL DEFAULT 'serial',
    port             TEXT NOT NULL DEFAULT '/dev/ttyUSB0',
    baud_rate        INTEGER NOT NULL DEFAULT 115200,
    wake_line        TEXT NOT NULL DEFAULT 'rts',
    ws_url           TEXT NOT NULL DEFAULT '',
    ws_username      TEXT NOT NULL DEFAULT '',
    net_interface    TEXT NOT NULL DEFAULT '',
    dock_sleep_fix   INTEGER NOT NULL DEFAULT 1,
    low_power_cutoff INTEGER NOT NULL DEFAULT 0,
    low_power_mv     REAL NOT NULL DEFAULT 10800,
    adc_path         TEXT NOT NULL DEFAULT '',
    adc_divider      REAL NOT NULL DEFAULT 1,
    adc_samples      INTEGER NOT NULL DEFAULT 10,
    created_at       TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at       TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_profiles_active ON profiles(is_active);
`

// Migrate runs database migrations to bring the schema up to date.
func (db *DB) Migrate(ctx context.Context) error {
	version, err := db.getSchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	if version >= currentSchemaVersion {
		return nil
	}

	if version < 1 {
		if err := db.applySchemaV1(ctx); err != nil {
			return fmt.Errorf("failed to apply schema v1: %w", err)
		}
	}

	return nil
}

// getSchemaVersion returns the current schema version, or 0 if no schema exists.
func (db *DB) getSchemaVersion(ctx context.Context) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='table' AND name='schema_version'
	`).Scan(&count)
	if err != nil {
		return 0, err
	}

	if count == 0 {
		return 0, nil
	}

	var version int
	err = db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return 0, err
	}

	return version, nil
}

func (db *DB) applySchemaV1(ctx context.Context) error {
	return db.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, schemaV1); err != nil {
			return fmt.Errorf("failed to execute schema: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (1)`); err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}

		return nil
	})
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	return db.getSchemaVersion(ctx)
}

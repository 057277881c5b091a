package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Bootstrap initializes the database with default data if it's empty.
// This is called after migrations and handles first-run setup.
func (db *DB) Bootstrap(ctx context.Context) error {
	empty, err := db.NeedsBootstrap(ctx)
	if err != nil {
		return fmt.Errorf("failed to check profiles: %w", err)
	}
	if !empty {
		return nil
	}

	return db.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO profiles (name, is_active)
			VALUES (?, 1)
		`, "default")
		if err != nil {
			return fmt.Errorf("failed to create default profile: %w", err)
		}

		profileID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get profile ID: %w", err)
		}

		// Column defaults carry the stock settings.
		for _, table := range []string{"api_servers", "mqtt_brokers", "vacuums"} {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO `+table+` (profile_id) VALUES (?)`, profileID); err != nil {
				return fmt.Errorf("failed to create default %s row: %w", table, err)
			}
		}
		return nil
	})
}

// NeedsBootstrap returns true if the database needs initial setup.
func (db *DB) NeedsBootstrap(ctx context.Context) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

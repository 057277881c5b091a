package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrVacuumNotFound = errors.New("vacuum config not found")

// Transports accepted in Vacuum.Transport.
const (
	TransportSerial    = "serial"
	TransportWebSocket = "websocket"
)

// Vacuum holds the robot link settings and feature toggles for a profile.
type Vacuum struct {
	ID         int64
	ProfileID  int64
	Model      string
	Transport  string
	Port       string
	BaudRate   int
	WakeLine   string
	WSURL      string
	WSUsername string
	// NetInterface names the interface whose MAC forms the entity ID.
	NetInterface string

	DockSleepFix       bool
	LowPowerCutoff     bool
	LowPowerMillivolts float64
	ADCPath            string
	ADCDivider         float64
	ADCSamples         int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// VacuumStore provides vacuum config CRUD operations.
type VacuumStore interface {
	Get(ctx context.Context, profileID int64) (*Vacuum, error)
	Create(ctx context.Context, v *Vacuum) error
	Update(ctx context.Context, v *Vacuum) error
	Delete(ctx context.Context, profileID int64) error
}

// Vacuums returns a VacuumStore for this database.
func (db *DB) Vacuums() VacuumStore {
	return &vacuumStore{db: db}
}

type vacuumStore struct {
	db *DB
}

func (s *vacuumStore) Get(ctx context.Context, profileID int64) (*Vacuum, error) {
	v := &Vacuum{}
	var createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, profile_id, model, transport, port, baud_rate, wake_line,
		       ws_url, ws_username, net_interface,
		       dock_sleep_fix, low_power_cutoff, low_power_mv,
		       adc_path, adc_divider, adc_samples,
		       created_at, updated_at
		FROM vacuums WHERE profile_id = ?
	`, profileID).Scan(
		&v.ID, &v.ProfileID, &v.Model, &v.Transport, &v.Port, &v.BaudRate, &v.WakeLine,
		&v.WSURL, &v.WSUsername, &v.NetInterface,
		&v.DockSleepFix, &v.LowPowerCutoff, &v.LowPowerMillivolts,
		&v.ADCPath, &v.ADCDivider, &v.ADCSamples,
		&createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVacuumNotFound
	}
	if err != nil {
		return nil, err
	}
	v.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
	v.UpdatedAt, _ = time.Parse(time.DateTime, updatedAt)
	return v, nil
}

func (s *vacuumStore) Create(ctx context.Context, v *Vacuum) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO vacuums (
			profile_id, model, transport, port, baud_rate, wake_line,
			ws_url, ws_username, net_interface,
			dock_sleep_fix, low_power_cutoff, low_power_mv,
			adc_path, adc_divider, adc_samples
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, v.ProfileID, v.Model, v.Transport, v.Port, v.BaudRate, v.WakeLine,
		v.WSURL, v.WSUsername, v.NetInterface,
		v.DockSleepFix, v.LowPowerCutoff, v.LowPowerMillivolts,
		v.ADCPath, v.ADCDivider, v.ADCSamples)
	if err != nil {
		return fmt.Errorf("failed to create vacuum config: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = id
	return nil
}

func (s *vacuumStore) Update(ctx context.Context, v *Vacuum) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE vacuums SET
			model = ?, transport = ?, port = ?, baud_rate = ?, wake_line = ?,
			ws_url = ?, ws_username = ?, net_interface = ?,
			dock_sleep_fix = ?, low_power_cutoff = ?, low_power_mv = ?,
			adc_path = ?, adc_divider = ?, adc_samples = ?,
			updated_at = datetime('now')
		WHERE profile_id = ?
	`, v.Model, v.Transport, v.Port, v.BaudRate, v.WakeLine,
		v.WSURL, v.WSUsername, v.NetInterface,
		v.DockSleepFix, v.LowPowerCutoff, v.LowPowerMillivolts,
		v.ADCPath, v.ADCDivider, v.ADCSamples,
		v.ProfileID)
	if err != nil {
		return err
	}
	return affected(result, ErrVacuumNotFound)
}

func (s *vacuumStore) Delete(ctx context.Context, profileID int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM vacuums WHERE profile_id = ?`, profileID)
	if err != nil {
		return err
	}
	return affected(result, ErrVacuumNotFound)
}

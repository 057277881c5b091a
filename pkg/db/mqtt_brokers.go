package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrMQTTBrokerNotFound = errors.New("mqtt broker config not found")

// MQTTBroker holds the broker connection and topic layout for a profile.
type MQTTBroker struct {
	ID           int64
	ProfileID    int64
	URL          string
	ClientID     string
	Username     string
	Password     string
	TopicBase    string
	IDPrefix     string
	Divider      string
	CommandTopic string
	StateTopic   string
	ConfigTopic  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MQTTBrokerStore provides MQTT broker config CRUD operations.
type MQTTBrokerStore interface {
	Get(ctx context.Context, profileID int64) (*MQTTBroker, error)
	Create(ctx context.Context, b *MQTTBroker) error
	Update(ctx context.Context, b *MQTTBroker) error
	Delete(ctx context.Context, profileID int64) error
}

// MQTTBrokers returns an MQTTBrokerStore for this database.
func (db *DB) MQTTBrokers() MQTTBrokerStore {
	return &mqttBrokerStore{db: db}
}

type mqttBrokerStore struct {
	db *DB
}

func (s *mqttBrokerStore) Get(ctx context.Context, profileID int64) (*MQTTBroker, error) {
	b := &MQTTBroker{}
	var createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, profile_id, url, client_id, username, password,
		       topic_base, id_prefix, divider, command_topic, state_topic, config_topic,
		       created_at, updated_at
		FROM mqtt_brokers WHERE profile_id = ?
	`, profileID).Scan(
		&b.ID, &b.ProfileID, &b.URL, &b.ClientID, &b.Username, &b.Password,
		&b.TopicBase, &b.IDPrefix, &b.Divider, &b.CommandTopic, &b.StateTopic, &b.ConfigTopic,
		&createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMQTTBrokerNotFound
	}
	if err != nil {
		return nil, err
	}
	b.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
	b.UpdatedAt, _ = time.Parse(time.DateTime, updatedAt)
	return b, nil
}

func (s *mqttBrokerStore) Create(ctx context.Context, b *MQTTBroker) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO mqtt_brokers (
			profile_id, url, client_id, username, password,
			topic_base, id_prefix, divider, command_topic, state_topic, config_topic
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ProfileID, b.URL, b.ClientID, b.Username, b.Password,
		b.TopicBase, b.IDPrefix, b.Divider, b.CommandTopic, b.StateTopic, b.ConfigTopic)
	if err != nil {
		return fmt.Errorf("failed to create MQTT broker config: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = id
	return nil
}

func (s *mqttBrokerStore) Update(ctx context.Context, b *MQTTBroker) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE mqtt_brokers SET
			url = ?, client_id = ?, username = ?, password = ?,
			topic_base = ?, id_prefix = ?, divider = ?,
			command_topic = ?, state_topic = ?, config_topic = ?,
			updated_at = datetime('now')
		WHERE profile_id = ?
	`, b.URL, b.ClientID, b.Username, b.Password,
		b.TopicBase, b.IDPrefix, b.Divider,
		b.CommandTopic, b.StateTopic, b.ConfigTopic,
		b.ProfileID)
	if err != nil {
		return err
	}
	return affected(result, ErrMQTTBrokerNotFound)
}

func (s *mqttBrokerStore) Delete(ctx context.Context, profileID int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM mqtt_brokers WHERE profile_id = ?`, profileID)
	if err != nil {
		return err
	}
	return affected(result, ErrMQTTBrokerNotFound)
}

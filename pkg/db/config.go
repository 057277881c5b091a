package db

import (
	"context"
	"errors"
	"fmt"
)

var ErrNoActiveProfile = errors.New("no active profile found")

// Config represents the complete runtime configuration loaded from the database.
type Config struct {
	Profile    *Profile
	APIServer  *APIServer
	MQTTBroker *MQTTBroker
	Vacuum     *Vacuum
}

// APIAddress returns the API server listen address.
func (c *Config) APIAddress() string {
	if c.APIServer == nil {
		return "0.0.0.0:8080"
	}
	return c.APIServer.Address()
}

// ActiveConfig loads the complete configuration for the active profile.
// Missing per-profile rows are filled with the bootstrap defaults.
func (db *DB) ActiveConfig(ctx context.Context) (*Config, error) {
	profile, err := db.Profiles().GetActive(ctx)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrNoActiveProfile
		}
		return nil, fmt.Errorf("failed to get active profile: %w", err)
	}

	config := &Config{
		Profile: profile,
	}

	apiServer, err := db.APIServers().Get(ctx, profile.ID)
	if err != nil && !errors.Is(err, ErrAPIServerNotFound) {
		return nil, fmt.Errorf("failed to get API server config: %w", err)
	}
	config.APIServer = apiServer

	broker, err := db.MQTTBrokers().Get(ctx, profile.ID)
	switch {
	case errors.Is(err, ErrMQTTBrokerNotFound):
		broker = DefaultMQTTBroker(profile.ID)
	case err != nil:
		return nil, fmt.Errorf("failed to get MQTT broker config: %w", err)
	}
	config.MQTTBroker = broker

	vacuum, err := db.Vacuums().Get(ctx, profile.ID)
	switch {
	case errors.Is(err, ErrVacuumNotFound):
		vacuum = DefaultVacuum(profile.ID)
	case err != nil:
		return nil, fmt.Errorf("failed to get vacuum config: %w", err)
	}
	config.Vacuum = vacuum

	return config, nil
}

// DefaultMQTTBroker mirrors the mqtt_brokers column defaults.
func DefaultMQTTBroker(profileID int64) *MQTTBroker {
	return &MQTTBroker{
		ProfileID:    profileID,
		URL:          "tcp://localhost:1883",
		TopicBase:    "vacuum/",
		IDPrefix:     "roomba",
		Divider:      "/",
		CommandTopic: "command",
		StateTopic:   "state",
		ConfigTopic:  "config",
	}
}

// DefaultVacuum mirrors the vacuums column defaults.
func DefaultVacuum(profileID int64) *Vacuum {
	return &Vacuum{
		ProfileID:          profileID,
		Model:              "650",
		Transport:          TransportSerial,
		Port:               "/dev/ttyUSB0",
		BaudRate:           115200,
		WakeLine:           "rts",
		DockSleepFix:       true,
		LowPowerMillivolts: 10800,
		ADCDivider:         1,
		ADCSamples:         10,
	}
}

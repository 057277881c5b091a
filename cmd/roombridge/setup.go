package main

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/urmzd/roombridge/pkg/bridge"
	"github.com/urmzd/roombridge/pkg/bus"
	"github.com/urmzd/roombridge/pkg/db"
	"github.com/urmzd/roombridge/pkg/device"
	"github.com/urmzd/roombridge/pkg/link"
	"github.com/urmzd/roombridge/pkg/metrics"
	"github.com/urmzd/roombridge/pkg/power"
	"github.com/urmzd/roombridge/pkg/roomba"
	"github.com/urmzd/roombridge/pkg/vacuum"
)

// openDatabase opens, migrates and, on first run, bootstraps the config DB.
func openDatabase(ctx context.Context) (*db.DB, error) {
	database, err := db.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	log.Info().Str("path", database.Path()).Msg("Database opened")

	if err := database.Migrate(ctx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	needsBootstrap, err := database.NeedsBootstrap(ctx)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to check bootstrap status: %w", err)
	}
	if needsBootstrap {
		log.Info().Msg("First run detected, bootstrapping database...")
		if err := database.Bootstrap(ctx); err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("failed to bootstrap database: %w", err)
		}
		log.Info().Msg("Database bootstrapped successfully")
	}

	return database, nil
}

// loadConfig returns the active profile's configuration with any flags
// set on the command line applied on top.
func loadConfig(ctx context.Context, cmd *cobra.Command, database *db.DB) (*db.Config, error) {
	cfg, err := database.ActiveConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	log.Info().
		Str("profile", cfg.Profile.Name).
		Str("api_address", cfg.APIAddress()).
		Str("broker", cfg.MQTTBroker.URL).
		Str("transport", cfg.Vacuum.Transport).
		Msg("Configuration loaded")

	return cfg, nil
}

// applyFlags overrides stored settings with explicitly set flags.
func applyFlags(cmd *cobra.Command, cfg *db.Config) error {
	flags := cmd.Flags()
	v := cfg.Vacuum
	b := cfg.MQTTBroker

	if flags.Changed("port") {
		v.Transport = db.TransportSerial
		v.Port = portName
	}
	if flags.Changed("baud") {
		v.BaudRate = baudRate
	}
	if flags.Changed("wake-line") {
		v.WakeLine = wakeLine
	}
	if flags.Changed("url") {
		v.Transport = db.TransportWebSocket
		v.WSURL = wsURL
	}
	if flags.Changed("username") {
		v.WSUsername = wsUsername
	}
	if flags.Changed("interface") {
		v.NetInterface = netInterface
	}
	if flags.Changed("model") {
		v.Model = model
	}
	if flags.Changed("dock-sleep-fix") {
		v.DockSleepFix = dockSleepFix
	}
	if flags.Changed("low-power-cutoff") {
		v.LowPowerCutoff = lowPowerCutoff
	}
	if flags.Changed("adc-path") {
		v.ADCPath = adcPath
	}
	if flags.Changed("adc-divider") {
		v.ADCDivider = adcDivider
	}

	if flags.Changed("broker") {
		b.URL = brokerURL
	}
	if flags.Changed("mqtt-username") {
		b.Username = mqttUsername
	}
	if flags.Changed("client-id") {
		b.ClientID = clientID
	}
	if flags.Changed("topic-base") {
		b.TopicBase = topicBase
	}
	if flags.Changed("id-prefix") {
		b.IDPrefix = idPrefix
	}

	if flags.Changed("api-address") {
		host, portStr, err := net.SplitHostPort(apiAddress)
		if err != nil {
			return fmt.Errorf("invalid API address %q: %w", apiAddress, err)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid API port %q: %w", portStr, err)
		}
		if cfg.APIServer == nil {
			cfg.APIServer = &db.APIServer{ProfileID: cfg.Profile.ID}
		}
		cfg.APIServer.Host = host
		cfg.APIServer.Port = port
	}

	return nil
}

// resolveMQTTPassword fills the broker password from the environment or
// a prompt when a username is configured without one.
func resolveMQTTPassword(b *db.MQTTBroker, interactive bool) error {
	if b.Username == "" {
		return nil
	}
	password, err := getPassword("MQTT", envMQTTPassword, b.Password, interactive)
	if err != nil {
		return err
	}
	b.Password = password
	return nil
}

// linkOptions turns the stored feature toggles into scheduler options.
func linkOptions(v *db.Vacuum) link.Options {
	opts := link.DefaultOptions()
	opts.DockSleepFix = v.DockSleepFix
	opts.LowPowerCutoff = v.LowPowerCutoff
	if v.LowPowerMillivolts > 0 {
		opts.LowPowerMillivolts = v.LowPowerMillivolts
	}
	return opts
}

// topicsFor lays out the bus topics for an entity from the broker settings.
func topicsFor(b *db.MQTTBroker, entityID string) vacuum.Topics {
	t := vacuum.DefaultTopics(entityID)
	if b.TopicBase != "" {
		t.Base = b.TopicBase
	}
	if b.Divider != "" {
		t.Divider = b.Divider
	}
	if b.CommandTopic != "" {
		t.Command = b.CommandTopic
	}
	if b.StateTopic != "" {
		t.State = b.StateTopic
	}
	if b.ConfigTopic != "" {
		t.Config = b.ConfigTopic
	}
	return t
}

// busConfig builds the MQTT client settings. The client ID defaults to
// the entity ID so each bridge is distinct on a shared broker.
func busConfig(b *db.MQTTBroker, entityID string) bus.Config {
	id := b.ClientID
	if id == "" {
		id = entityID
	}
	return bus.Config{
		Broker:   b.URL,
		ClientID: id,
		Username: b.Username,
		Password: b.Password,
	}
}

// identity derives the entity ID and discovery descriptor for this host.
func identity(cfg *db.Config) (vacuum.Topics, vacuum.Descriptor, error) {
	mac, err := vacuum.LookupMAC(cfg.Vacuum.NetInterface)
	if err != nil {
		return vacuum.Topics{}, vacuum.Descriptor{}, err
	}

	entityID := vacuum.EntityID(cfg.MQTTBroker.IDPrefix, mac)
	topics := topicsFor(cfg.MQTTBroker, entityID)
	descriptor := vacuum.NewDescriptor(topics, vacuum.MACString(mac), cfg.Vacuum.Model)

	log.Info().
		Str("entity_id", entityID).
		Str("state_topic", topics.StateTopic()).
		Str("command_topic", topics.CommandTopic()).
		Msg("Identity resolved")

	return topics, descriptor, nil
}

// openLink opens the configured transport and wraps it in a roomba.Link.
func openLink(ctx context.Context, v *db.Vacuum, interactive bool) (*roomba.Link, error) {
	switch v.Transport {
	case db.TransportWebSocket:
		if v.WSURL == "" {
			return nil, fmt.Errorf("websocket transport needs a URL")
		}
		password := ""
		if v.WSUsername != "" {
			pw, err := getPassword("WebSocket", envWSPassword, "", interactive)
			if err != nil {
				return nil, err
			}
			password = pw
		}
		conn, err := roomba.DialWebSocket(ctx, v.WSURL, v.WSUsername, password, wsNoSSLVerify)
		if err != nil {
			return nil, err
		}
		// A remote serial server has no modem lines to pulse.
		return roomba.NewLink(conn, nil, roomba.DefaultOptions()), nil

	case db.TransportSerial, "":
		if v.Port == "" {
			return nil, fmt.Errorf("serial transport needs a port")
		}
		port, err := roomba.OpenSerial(v.Port, v.BaudRate, v.WakeLine)
		if err != nil {
			return nil, err
		}
		return roomba.NewLink(port, port, roomba.DefaultOptions()), nil

	default:
		return nil, fmt.Errorf("unknown transport %q", v.Transport)
	}
}

// supplyMonitor returns the ADC sampler when the low-power cutoff is on.
func supplyMonitor(v *db.Vacuum) link.SupplyMonitor {
	if !v.LowPowerCutoff {
		return nil
	}
	path := v.ADCPath
	if path == "" {
		path = power.DefaultADCPath
	}
	return power.NewADC(path, v.ADCSamples, v.ADCDivider)
}

// newBridge resolves identity, opens the vacuum link and wires it to the
// MQTT client. The returned bridge is not yet running.
func newBridge(ctx context.Context, cfg *db.Config, rec *metrics.Recorder, interactive bool) (*bridge.Bridge, error) {
	topics, descriptor, err := identity(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve identity: %w", err)
	}

	lnk, err := openLink(ctx, cfg.Vacuum, interactive)
	if err != nil {
		return nil, fmt.Errorf("failed to open vacuum link: %w", err)
	}

	// The bus delivers commands to the bridge, which owns the bus.
	var br *bridge.Bridge
	client := bus.NewClient(busConfig(cfg.MQTTBroker, topics.EntityID), topics.CommandTopic(), func(token string) {
		br.HandleCommand(token)
	})

	transport := device.TransportSerial
	if cfg.Vacuum.Transport == db.TransportWebSocket {
		transport = device.TransportWebSocket
	}

	br = bridge.New(bridge.Config{
		Options:    linkOptions(cfg.Vacuum),
		Topics:     topics,
		Descriptor: descriptor,
		Info: device.Info{
			EntityID:      topics.EntityID,
			Name:          descriptor.Name,
			Manufacturer:  descriptor.Device.Manufacturer,
			Model:         descriptor.Device.Model,
			Transport:     transport,
			Commands:      vacuum.Tokens(),
			CommandSchema: device.CommandSchema(),
		},
	}, lnk, client, bridge.Deps{
		Supply:    supplyMonitor(cfg.Vacuum),
		Suspender: power.Sleeper{},
		Metrics:   rec,
	})

	return br, nil
}

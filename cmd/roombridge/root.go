package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	dbPath   string
	logLevel string

	// Serial connection flags
	portName string
	baudRate int
	wakeLine string

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// MQTT flags
	brokerURL    string
	mqttUsername string
	clientID     string
	topicBase    string
	idPrefix     string

	// Bridge flags
	netInterface   string
	model          string
	apiAddress     string
	dockSleepFix   bool
	lowPowerCutoff bool
	adcPath        string
	adcDivider     float64
)

var rootCmd = &cobra.Command{
	Use:   "roombridge",
	Short: "Roomba Open Interface to MQTT bridge",
	Long: `roombridge - reads battery and activity telemetry from a Roomba over its
Open Interface serial port and publishes it to an MQTT broker, relaying
commands from the broker back to the robot.

Settings are stored per profile in a SQLite database. Flags given on the
command line override the stored values for that invocation; use
"roombridge config" to persist them.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 115200] [--wake-line rts]
  WebSocket: --url ws://host/path [--username user]

Passwords are read from the ROOMBRIDGE_MQTT_PASSWORD and
ROOMBRIDGE_WS_PASSWORD environment variables, or prompted interactively
if not set.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to database file (default: ~/.config/roombridge/roombridge.db)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")

	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 115200, "Baud rate (serial only)")
	rootCmd.PersistentFlags().StringVar(&wakeLine, "wake-line", "rts", "Modem line wired to the BRC pin (rts, dtr, none)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	// MQTT flags
	rootCmd.PersistentFlags().StringVar(&brokerURL, "broker", "", "MQTT broker URL (tcp://host:1883)")
	rootCmd.PersistentFlags().StringVar(&mqttUsername, "mqtt-username", "", "MQTT username")
	rootCmd.PersistentFlags().StringVar(&clientID, "client-id", "", "MQTT client ID (default: entity ID)")
	rootCmd.PersistentFlags().StringVar(&topicBase, "topic-base", "", "Topic prefix (default: vacuum/)")
	rootCmd.PersistentFlags().StringVar(&idPrefix, "id-prefix", "", "Entity ID prefix (default: roomba)")

	// Bridge flags
	rootCmd.PersistentFlags().StringVar(&netInterface, "interface", "", "Network interface whose MAC forms the entity ID")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "Robot model reported in the descriptor")
	rootCmd.PersistentFlags().StringVar(&apiAddress, "api-address", "", "HTTP API listen address (host:port)")
	rootCmd.PersistentFlags().BoolVar(&dockSleepFix, "dock-sleep-fix", true, "Use the dock-aware keep-awake sequence while docked")
	rootCmd.PersistentFlags().BoolVar(&lowPowerCutoff, "low-power-cutoff", false, "Suspend when the bridge supply drops below the cutoff")
	rootCmd.PersistentFlags().StringVar(&adcPath, "adc-path", "", "sysfs ADC file sampled for the supply voltage")
	rootCmd.PersistentFlags().Float64Var(&adcDivider, "adc-divider", 1, "Voltage divider ratio applied to ADC readings")
}

func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

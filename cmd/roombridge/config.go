package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/urmzd/roombridge/pkg/db"
)

var configSave bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or persist the active profile's settings",
	Long: `Prints the settings of the active profile with any flags applied.

With --save the flags given on the command line are written to the
database so later runs pick them up without repeating them. Passwords are
never written from the environment.

Example:
  roombridge config --port /dev/ttyAMA0 --broker tcp://10.0.0.2:1883 --save`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().BoolVar(&configSave, "save", false, "Persist the given flags to the active profile")
}

func runConfig(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	database, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	cfg, err := loadConfig(ctx, cmd, database)
	if err != nil {
		return err
	}

	if configSave {
		if err := saveConfig(ctx, database, cfg); err != nil {
			return err
		}
		log.Info().Str("profile", cfg.Profile.Name).Msg("Configuration saved")
	}

	printConfig(os.Stdout, cfg)
	return nil
}

// saveConfig writes every per-profile row, creating rows the profile lacks.
func saveConfig(ctx context.Context, database *db.DB, cfg *db.Config) error {
	if cfg.APIServer != nil {
		err := database.APIServers().Update(ctx, cfg.APIServer)
		if errors.Is(err, db.ErrAPIServerNotFound) {
			err = database.APIServers().Create(ctx, cfg.APIServer)
		}
		if err != nil {
			return fmt.Errorf("failed to save API server config: %w", err)
		}
	}

	err := database.MQTTBrokers().Update(ctx, cfg.MQTTBroker)
	if errors.Is(err, db.ErrMQTTBrokerNotFound) {
		err = database.MQTTBrokers().Create(ctx, cfg.MQTTBroker)
	}
	if err != nil {
		return fmt.Errorf("failed to save MQTT broker config: %w", err)
	}

	err = database.Vacuums().Update(ctx, cfg.Vacuum)
	if errors.Is(err, db.ErrVacuumNotFound) {
		err = database.Vacuums().Create(ctx, cfg.Vacuum)
	}
	if err != nil {
		return fmt.Errorf("failed to save vacuum config: %w", err)
	}

	return nil
}

func printConfig(w io.Writer, cfg *db.Config) {
	v := cfg.Vacuum
	b := cfg.MQTTBroker

	password := ""
	if b.Password != "" {
		password = "********"
	}

	fmt.Fprintf(w, "Profile:          %s\n", cfg.Profile.Name)
	fmt.Fprintf(w, "API address:      %s\n", cfg.APIAddress())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Broker:           %s\n", b.URL)
	fmt.Fprintf(w, "Client ID:        %s\n", orDefault(b.ClientID, "(entity ID)"))
	fmt.Fprintf(w, "Username:         %s\n", b.Username)
	fmt.Fprintf(w, "Password:         %s\n", password)
	fmt.Fprintf(w, "Topic base:       %s\n", b.TopicBase)
	fmt.Fprintf(w, "ID prefix:        %s\n", b.IDPrefix)
	fmt.Fprintf(w, "Subtopics:        %s %s %s (divider %q)\n", b.CommandTopic, b.StateTopic, b.ConfigTopic, b.Divider)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Model:            %s\n", v.Model)
	fmt.Fprintf(w, "Transport:        %s\n", v.Transport)
	if v.Transport == db.TransportWebSocket {
		fmt.Fprintf(w, "URL:              %s\n", v.WSURL)
		fmt.Fprintf(w, "Username:         %s\n", v.WSUsername)
	} else {
		fmt.Fprintf(w, "Port:             %s @ %d baud\n", v.Port, v.BaudRate)
		fmt.Fprintf(w, "Wake line:        %s\n", v.WakeLine)
	}
	fmt.Fprintf(w, "Interface:        %s\n", orDefault(v.NetInterface, "(first with a MAC)"))
	fmt.Fprintf(w, "Dock sleep fix:   %t\n", v.DockSleepFix)
	fmt.Fprintf(w, "Low-power cutoff: %t (%.0f mV)\n", v.LowPowerCutoff, v.LowPowerMillivolts)
	if v.LowPowerCutoff {
		fmt.Fprintf(w, "ADC:              %s (divider %g, %d samples)\n", orDefault(v.ADCPath, "(default)"), v.ADCDivider, v.ADCSamples)
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

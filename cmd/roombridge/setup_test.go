package main

import (
	"bytes"
	"net"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/urmzd/roombridge/pkg/db"
	"github.com/urmzd/roombridge/pkg/power"
)

func testConfig() *db.Config {
	return &db.Config{
		Profile:    &db.Profile{ID: 1, Name: "default"},
		APIServer:  &db.APIServer{ProfileID: 1, Host: "0.0.0.0", Port: 8080},
		MQTTBroker: db.DefaultMQTTBroker(1),
		Vacuum:     db.DefaultVacuum(1),
	}
}

func TestApplyFlags(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().StringVar(&wsURL, "url", "", "")
	cmd.Flags().StringVar(&brokerURL, "broker", "", "")
	cmd.Flags().StringVar(&apiAddress, "api-address", "", "")
	cmd.Flags().BoolVar(&dockSleepFix, "dock-sleep-fix", true, "")
	cmd.Flags().StringVar(&portName, "port", "", "")

	for name, value := range map[string]string{
		"url":            "ws://slate.local/serial",
		"broker":         "tcp://10.0.0.2:1883",
		"api-address":    "127.0.0.1:9090",
		"dock-sleep-fix": "false",
	} {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatalf("Set(%s) failed: %v", name, err)
		}
	}

	cfg := testConfig()
	if err := applyFlags(cmd, cfg); err != nil {
		t.Fatalf("applyFlags failed: %v", err)
	}

	if cfg.Vacuum.Transport != db.TransportWebSocket || cfg.Vacuum.WSURL != "ws://slate.local/serial" {
		t.Errorf("transport = %s %s, want websocket", cfg.Vacuum.Transport, cfg.Vacuum.WSURL)
	}
	if cfg.Vacuum.Port != "/dev/ttyUSB0" {
		t.Errorf("unset port flag changed Port to %q", cfg.Vacuum.Port)
	}
	if cfg.Vacuum.DockSleepFix {
		t.Error("DockSleepFix should be false")
	}
	if cfg.MQTTBroker.URL != "tcp://10.0.0.2:1883" {
		t.Errorf("broker = %s", cfg.MQTTBroker.URL)
	}
	if got := cfg.APIAddress(); got != "127.0.0.1:9090" {
		t.Errorf("APIAddress() = %s, want 127.0.0.1:9090", got)
	}
}

func TestApplyFlagsInvalidAddress(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().StringVar(&apiAddress, "api-address", "", "")
	if err := cmd.Flags().Set("api-address", "no-port"); err != nil {
		t.Fatal(err)
	}

	if err := applyFlags(cmd, testConfig()); err == nil {
		t.Error("expected error for an address without a port")
	}
}

func TestTopicsFor(t *testing.T) {
	b := db.DefaultMQTTBroker(1)
	b.TopicBase = "home/"
	b.StateTopic = "status"

	topics := topicsFor(b, "roomba0a1b2c3d4e5f")

	if got := topics.StateTopic(); got != "home/roomba0a1b2c3d4e5f/status" {
		t.Errorf("StateTopic() = %s", got)
	}
	if got := topics.CommandTopic(); got != "home/roomba0a1b2c3d4e5f/command" {
		t.Errorf("CommandTopic() = %s", got)
	}
}

func TestBusConfigClientID(t *testing.T) {
	b := db.DefaultMQTTBroker(1)
	b.Username = "bridge"
	b.Password = "secret"

	cfg := busConfig(b, "roomba0a1b2c3d4e5f")
	if cfg.ClientID != "roomba0a1b2c3d4e5f" {
		t.Errorf("ClientID = %s, want entity ID", cfg.ClientID)
	}
	if cfg.Password != "secret" {
		t.Error("password not carried over")
	}

	b.ClientID = "custom"
	if cfg := busConfig(b, "roomba0a1b2c3d4e5f"); cfg.ClientID != "custom" {
		t.Errorf("ClientID = %s, want custom", cfg.ClientID)
	}
}

func TestLinkOptions(t *testing.T) {
	v := db.DefaultVacuum(1)
	v.DockSleepFix = false
	v.LowPowerCutoff = true
	v.LowPowerMillivolts = 11200

	opts := linkOptions(v)
	if opts.DockSleepFix || !opts.LowPowerCutoff || opts.LowPowerMillivolts != 11200 {
		t.Errorf("unexpected options: %+v", opts)
	}

	v.LowPowerMillivolts = 0
	if opts := linkOptions(v); opts.LowPowerMillivolts != 10800 {
		t.Errorf("LowPowerMillivolts = %v, want default 10800", opts.LowPowerMillivolts)
	}
}

func TestSupplyMonitor(t *testing.T) {
	v := db.DefaultVacuum(1)
	if supplyMonitor(v) != nil {
		t.Error("expected no supply monitor with the cutoff disabled")
	}

	v.LowPowerCutoff = true
	if _, ok := supplyMonitor(v).(*power.ADC); !ok {
		t.Error("expected an ADC supply monitor")
	}
}

func TestResolveMQTTPassword(t *testing.T) {
	t.Setenv(envMQTTPassword, "from-env")

	b := db.DefaultMQTTBroker(1)
	if err := resolveMQTTPassword(b, false); err != nil {
		t.Fatal(err)
	}
	if b.Password != "" {
		t.Error("password resolved without a username")
	}

	b.Username = "bridge"
	if err := resolveMQTTPassword(b, false); err != nil {
		t.Fatal(err)
	}
	if b.Password != "from-env" {
		t.Errorf("Password = %q, want from-env", b.Password)
	}
}

func TestOpenLinkValidation(t *testing.T) {
	v := db.DefaultVacuum(1)
	v.Transport = "bluetooth"
	if _, err := openLink(t.Context(), v, false); err == nil {
		t.Error("expected error for an unknown transport")
	}

	v.Transport = db.TransportWebSocket
	if _, err := openLink(t.Context(), v, false); err == nil {
		t.Error("expected error for a websocket transport without a URL")
	}
}

func TestPrintConfigMasksPassword(t *testing.T) {
	cfg := testConfig()
	cfg.MQTTBroker.Password = "secret"

	var buf bytes.Buffer
	printConfig(&buf, cfg)

	out := buf.String()
	if strings.Contains(out, "secret") {
		t.Error("password printed in clear")
	}
	if !strings.Contains(out, net.JoinHostPort("0.0.0.0", "8080")) {
		t.Errorf("API address missing from output:\n%s", out)
	}
}

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/urmzd/roombridge/pkg/api"
	"github.com/urmzd/roombridge/pkg/bus"
	"github.com/urmzd/roombridge/pkg/device"
	"github.com/urmzd/roombridge/pkg/device/schema"
	"github.com/urmzd/roombridge/pkg/metrics"
)

var embeddedBroker string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Bridge the vacuum to MQTT and serve the HTTP API",
	Long: `Opens the vacuum link, publishes telemetry to the MQTT broker and relays
commands back to the robot. The HTTP API, Prometheus metrics and Swagger
docs are served on the configured API address.

If the vacuum link cannot be opened the API still starts and reports the
bridge as disconnected.

With --embedded-broker an MQTT broker is started in-process; point
--broker at it (e.g. --embedded-broker :1883 --broker tcp://localhost:1883).`,
	RunE: runBridge,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&embeddedBroker, "embedded-broker", "", "Start an embedded MQTT broker on this address (e.g. :1883)")
}

func runBridge(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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
	if err := resolveMQTTPassword(cfg.MQTTBroker, true); err != nil {
		return err
	}

	if embeddedBroker != "" {
		broker, err := bus.StartBroker(bus.BrokerConfig{
			Address:  embeddedBroker,
			Username: cfg.MQTTBroker.Username,
			Password: cfg.MQTTBroker.Password,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := broker.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close embedded broker")
			}
		}()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewRecorder(registry)

	// The first task to fail cancels gctx, which stops the others.
	g, gctx := errgroup.WithContext(ctx)

	// Try to open the vacuum link; fall back to NullController
	var controller device.Controller
	var eventSubscriber device.EventSubscriber

	br, err := newBridge(ctx, cfg, recorder, true)
	if err != nil {
		log.Warn().Err(err).Msg("Vacuum bridge unavailable, using null controller")
		controller = device.NewNullController()
		eventSubscriber = device.NewNullEventSubscriber()
	} else {
		controller = br
		eventSubscriber = br
		defer br.Close()

		g.Go(func() error {
			return br.Run(gctx)
		})
	}

	router := api.NewRouter(controller, eventSubscriber, schema.NewValidator(), metrics.Handler(registry))

	addr := cfg.APIAddress()
	log.Info().Str("address", addr).Msg("Starting API server")

	g.Go(func() error {
		return router.Serve(gctx, addr)
	})

	err = g.Wait()
	log.Info().Msg("Shutting down...")
	return err
}

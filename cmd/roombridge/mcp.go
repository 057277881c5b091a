package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/urmzd/roombridge/pkg/device"
	"github.com/urmzd/roombridge/pkg/device/schema"
	"github.com/urmzd/roombridge/pkg/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the vacuum tools over MCP on stdio",
	Long: `Runs the bridge in-process and exposes health, status, descriptor,
command and maintenance tools to an MCP client over stdio.

Stdout carries the MCP transport, so passwords are never prompted for;
set ROOMBRIDGE_MQTT_PASSWORD or ROOMBRIDGE_WS_PASSWORD instead.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

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
	if err := resolveMQTTPassword(cfg.MQTTBroker, false); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	var controller device.Controller

	br, err := newBridge(ctx, cfg, nil, false)
	if err != nil {
		log.Warn().Err(err).Msg("Vacuum bridge unavailable, using null controller")
		controller = device.NewNullController()
	} else {
		controller = br
		defer br.Close()

		g.Go(func() error {
			return br.Run(gctx)
		})
	}

	mcpServer := mcp.NewServer(controller, schema.NewValidator(), version)

	log.Info().Msg("Starting MCP server on stdio")

	// The client closing stdin ends the session and stops the bridge.
	g.Go(func() error {
		defer cancel()
		return mcpServer.Serve(gctx, os.Stdin, os.Stdout)
	})

	return g.Wait()
}

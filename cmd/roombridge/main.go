package main

import (
	"os"

	"github.com/rs/zerolog/log"

	_ "github.com/urmzd/roombridge/docs"
)

// @title           roombridge API
// @version         1.0
// @description     REST API for monitoring and commanding a Roomba bridged to MQTT

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

func main() {
	if err := Execute(); err != nil {
		log.Error().Err(err).Msg("roombridge failed")
		os.Exit(1)
	}
}

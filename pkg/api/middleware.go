package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// quietPaths are polled by monitoring and logged at debug level.
var quietPaths = map[string]bool{
	"/metrics":       true,
	"/health":        true,
	"/api/v1/health": true,
}

// SetupMiddleware installs panic recovery, request logging and CORS for
// the bridge API.
func SetupMiddleware(r *gin.Engine) {
	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	r.Use(cors.New(corsConfig()))
}

// corsConfig lets browser dashboards read telemetry, post commands and
// toggle maintenance. Cache-Control is sent by EventSource clients.
func corsConfig() cors.Config {
	return cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Cache-Control"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
}

// RequestLogger logs each request after it completes. An /events stream
// is logged when the client disconnects.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.Request.URL.Path

		evt := requestEvent(path, status).
			Str("method", c.Request.Method).
			Str("path", path)
		if q := c.Request.URL.RawQuery; q != "" {
			evt = evt.Str("query", q)
		}
		evt.
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("API request")
	}
}

func requestEvent(path string, status int) *zerolog.Event {
	switch {
	case status >= http.StatusInternalServerError:
		return log.Error()
	case status >= http.StatusBadRequest:
		return log.Warn()
	case quietPaths[path]:
		return log.Debug()
	default:
		return log.Info()
	}
}

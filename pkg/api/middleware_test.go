package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestRequestLoggerLevels(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	engine := gin.New()
	engine.Use(RequestLogger())
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/api/v1/status", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.POST("/api/v1/commands", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	engine.PUT("/api/v1/maintenance", func(c *gin.Context) { c.Status(http.StatusServiceUnavailable) })

	tests := []struct {
		method string
		path   string
		level  string
	}{
		{http.MethodGet, "/health", "debug"},
		{http.MethodGet, "/api/v1/status?verbose=1", "info"},
		{http.MethodPost, "/api/v1/commands", "warn"},
		{http.MethodPut, "/api/v1/maintenance", "error"},
	}

	for _, tt := range tests {
		buf.Reset()
		engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tt.method, tt.path, nil))

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("%s %s: bad log line %q: %v", tt.method, tt.path, buf.String(), err)
		}
		if entry["level"] != tt.level {
			t.Errorf("%s %s: level = %v, want %s", tt.method, tt.path, entry["level"], tt.level)
		}
		if entry["method"] != tt.method {
			t.Errorf("%s %s: method = %v", tt.method, tt.path, entry["method"])
		}
	}

	buf.Reset()
	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/status?verbose=1", nil))
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatal(err)
	}
	if entry["path"] != "/api/v1/status" || entry["query"] != "verbose=1" {
		t.Errorf("path = %v, query = %v", entry["path"], entry["query"])
	}
}

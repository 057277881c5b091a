package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/roombridge/pkg/api/types"
	"github.com/urmzd/roombridge/pkg/device"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	controller device.Controller
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(controller device.Controller) *HealthHandler {
	return &HealthHandler{controller: controller}
}

// Health handles GET /health
// @Summary      Health check
// @Description  Returns the bus and telemetry link status of the bridge
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.HealthResponse  "Service is healthy or in maintenance"
// @Failure      503  {object}  types.HealthResponse  "Service is degraded"
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	health := h.controller.Health()

	bus := "disconnected"
	if health.Bus {
		bus = "connected"
	}
	link := "stale"
	if health.Link {
		link = "streaming"
	}

	status := "healthy"
	httpStatus := http.StatusOK

	switch {
	case health.Maintenance:
		status = "maintenance"
	case !health.Bus || !health.Link:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, types.HealthResponse{
		Status:      status,
		Bus:         bus,
		Link:        link,
		Maintenance: health.Maintenance,
		SampleAgeMs: health.SampleAgeMs,
		Timestamp:   time.Now(),
	})
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/roombridge/pkg/api/types"
	"github.com/urmzd/roombridge/pkg/device"
	"github.com/urmzd/roombridge/pkg/vacuum"
)

// StatusHandler serves telemetry and identity endpoints
type StatusHandler struct {
	controller device.Controller
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(controller device.Controller) *StatusHandler {
	return &StatusHandler{controller: controller}
}

// Status handles GET /status
// @Summary      Get vacuum status
// @Description  Returns the latest decoded telemetry in the published status format
// @Tags         vacuum
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Failure      503  {object}  types.ErrorResponse  "No telemetry yet or controller unavailable"
// @Router       /status [get]
func (h *StatusHandler) Status(c *gin.Context) {
	status, err := h.controller.Status(c.Request.Context())
	if err != nil {
		writeControllerError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.StatusResponse{
		Entity:    h.controller.Info().EntityID,
		Status:    status,
		Timestamp: time.Now(),
	})
}

// Descriptor handles GET /descriptor
// @Summary      Get discovery descriptor
// @Description  Returns the descriptor announced on the config topic and the device summary
// @Tags         vacuum
// @Produce      json
// @Success      200  {object}  types.DescriptorResponse
// @Router       /descriptor [get]
func (h *StatusHandler) Descriptor(c *gin.Context) {
	desc := h.controller.Descriptor()

	c.JSON(http.StatusOK, types.DescriptorResponse{
		Device:     h.controller.Info(),
		Descriptor: desc,
		Topics: types.TopicsResponse{
			Command: expandTopic(desc, desc.CommandTopic),
			State:   expandTopic(desc, desc.StateTopic),
		},
	})
}

// expandTopic resolves a "~"-relative descriptor topic.
func expandTopic(desc vacuum.Descriptor, topic string) string {
	if len(topic) > 0 && topic[0] == '~' {
		return desc.Root + topic[1:]
	}
	return topic
}

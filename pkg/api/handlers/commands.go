package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/roombridge/pkg/api/types"
	"github.com/urmzd/roombridge/pkg/device"
	"github.com/urmzd/roombridge/pkg/device/schema"
)

const maxCommandBody = 4 << 10

// CommandsHandler handles command and maintenance endpoints
type CommandsHandler struct {
	controller device.Controller
	validator  *schema.Validator
	schema     json.RawMessage
}

// NewCommandsHandler creates a new commands handler
func NewCommandsHandler(controller device.Controller, validator *schema.Validator) *CommandsHandler {
	return &CommandsHandler{
		controller: controller,
		validator:  validator,
		schema:     device.CommandSchema(),
	}
}

// SendCommand handles POST /commands
// @Summary      Send a command
// @Description  Queues a vacuum command and waits until it has been sent to the device
// @Tags         vacuum
// @Accept       json
// @Produce      json
// @Param        request  body      types.CommandRequest  true  "Command token"
// @Success      200      {object}  types.CommandResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      409      {object}  types.ErrorResponse  "Maintenance mode active"
// @Failure      429      {object}  types.ErrorResponse  "Command queue full"
// @Failure      503      {object}  types.ErrorResponse  "Controller unavailable"
// @Failure      504      {object}  types.ErrorResponse  "Request timed out"
// @Router       /commands [post]
func (h *CommandsHandler) SendCommand(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxCommandBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	if err := h.validator.ValidateJSON(h.schema, raw); err != nil {
		writeControllerError(c, err)
		return
	}

	var req types.CommandRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	if err := h.controller.SendCommand(c.Request.Context(), req.Command); err != nil {
		writeControllerError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.CommandResponse{
		Command:   req.Command,
		Status:    "sent",
		Timestamp: time.Now(),
	})
}

// SetMaintenance handles PUT /maintenance
// @Summary      Toggle maintenance mode
// @Description  Pauses or resumes the sensor stream and the link scheduler
// @Tags         vacuum
// @Accept       json
// @Produce      json
// @Param        request  body      types.MaintenanceRequest  true  "Maintenance state"
// @Success      200      {object}  types.MaintenanceResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      503      {object}  types.ErrorResponse  "Controller unavailable"
// @Router       /maintenance [put]
func (h *CommandsHandler) SetMaintenance(c *gin.Context) {
	var req types.MaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "Body must be {\"enabled\": true|false}",
		})
		return
	}

	if err := h.controller.SetMaintenance(c.Request.Context(), *req.Enabled); err != nil {
		writeControllerError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.MaintenanceResponse{
		Enabled:   *req.Enabled,
		Timestamp: time.Now(),
	})
}

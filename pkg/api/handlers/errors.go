package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/roombridge/pkg/api/types"
	"github.com/urmzd/roombridge/pkg/device"
	"github.com/urmzd/roombridge/pkg/vacuum"
)

// writeControllerError maps controller errors onto HTTP responses.
func writeControllerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, device.ErrValidation):
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	case errors.Is(err, vacuum.ErrUnknownCommand):
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "unknown_command",
			Message: err.Error(),
		})
	case errors.Is(err, vacuum.ErrCapacityUnknown):
		c.JSON(http.StatusServiceUnavailable, types.ErrorResponse{
			Error:   "no_sample",
			Message: "No telemetry sample with battery capacity yet",
		})
	case errors.Is(err, device.ErrNotConnected):
		c.JSON(http.StatusServiceUnavailable, types.ErrorResponse{
			Error:   "controller_disconnected",
			Message: err.Error(),
		})
	case errors.Is(err, device.ErrMaintenance):
		c.JSON(http.StatusConflict, types.ErrorResponse{
			Error:   "maintenance",
			Message: "Link is paused for maintenance",
		})
	case errors.Is(err, device.ErrBusy):
		c.JSON(http.StatusTooManyRequests, types.ErrorResponse{
			Error:   "busy",
			Message: "Command queue is full",
		})
	case errors.Is(err, device.ErrTimeout):
		c.JSON(http.StatusGatewayTimeout, types.ErrorResponse{
			Error:   "timeout",
			Message: "Request timed out waiting for the vacuum",
		})
	default:
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "device_error",
			Message: err.Error(),
		})
	}
}

package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/altamedika/queue-engine/internal/queue/models"
	"github.com/altamedika/queue-engine/internal/queue/services"
	"github.com/altamedika/queue-engine/ws"
)

type CheckinController struct {
	CheckinService *services.CheckinService
}

func NewCheckinController(service *services.CheckinService) *CheckinController {
	return &CheckinController{CheckinService: service}
}

// CheckInHandler admits a confirmed appointment or a walk-in patient into
// the least-loaded station queue of the requested type.
func (cc *CheckinController) CheckInHandler(c echo.Context) error {
	var req services.CheckInRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "invalid request body", nil)
	}

	result, err := cc.CheckinService.CheckIn(req, actorFromContext(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	ws.BroadcastQueueEvent(result.QueueEntryID, result.StationID, models.StatusWaiting, result.QueueCode)

	return respond(c, http.StatusOK, "patient checked in", result)
}

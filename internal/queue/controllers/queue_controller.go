package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/altamedika/queue-engine/internal/queue/models"
	"github.com/altamedika/queue-engine/internal/queue/services"
	"github.com/altamedika/queue-engine/ws"
)

type QueueController struct {
	QueueService    *services.QueueService
	TransferService *services.TransferService
	StatsService    *services.StatsService
}

func NewQueueController(queue *services.QueueService, transfer *services.TransferService, stats *services.StatsService) *QueueController {
	return &QueueController{
		QueueService:    queue,
		TransferService: transfer,
		StatsService:    stats,
	}
}

func (qc *QueueController) CallNextHandler(c echo.Context) error {
	stationID, err := intParam(c, "station_id")
	if err != nil {
		return respond(c, http.StatusBadRequest, err.Error(), nil)
	}

	result, err := qc.QueueService.CallNext(stationID, actorFromContext(c), c.QueryParam("note"))
	if err != nil {
		return respondServiceError(c, err)
	}

	ws.BroadcastQueueEvent(result.QueueEntryID, result.StationID, models.StatusInProgress, result.QueueCode)

	return respond(c, http.StatusOK, "patient called", result)
}

func (qc *QueueController) CompleteHandler(c echo.Context) error {
	entryID, err := int64Param(c, "queue_entry_id")
	if err != nil {
		return respond(c, http.StatusBadRequest, err.Error(), nil)
	}

	result, err := qc.QueueService.Complete(entryID, actorFromContext(c), c.QueryParam("note"))
	if err != nil {
		return respondServiceError(c, err)
	}

	ws.BroadcastQueueEvent(result.QueueEntryID, result.StationID, result.Status, result.QueueCode)

	return respond(c, http.StatusOK, "entry completed", result)
}

func (qc *QueueController) SkipHandler(c echo.Context) error {
	entryID, err := int64Param(c, "queue_entry_id")
	if err != nil {
		return respond(c, http.StatusBadRequest, err.Error(), nil)
	}

	result, err := qc.QueueService.Skip(entryID, actorFromContext(c), c.QueryParam("note"))
	if err != nil {
		return respondServiceError(c, err)
	}

	ws.BroadcastQueueEvent(result.QueueEntryID, result.StationID, result.Status, result.QueueCode)

	return respond(c, http.StatusOK, "entry skipped", result)
}

// RecallHandler accepts either queue_entry_id (recall that entry) or
// station_id (recall the station's oldest skipped entry).
func (qc *QueueController) RecallHandler(c echo.Context) error {
	actor := actorFromContext(c)
	note := c.QueryParam("note")

	var (
		result *services.TransitionResult
		err    error
	)
	switch {
	case c.QueryParam("queue_entry_id") != "":
		var entryID int64
		entryID, err = int64Param(c, "queue_entry_id")
		if err != nil {
			return respond(c, http.StatusBadRequest, err.Error(), nil)
		}
		result, err = qc.QueueService.Recall(entryID, actor, note)
	case c.QueryParam("station_id") != "":
		var stationID int
		stationID, err = intParam(c, "station_id")
		if err != nil {
			return respond(c, http.StatusBadRequest, err.Error(), nil)
		}
		result, err = qc.QueueService.RecallOldestSkipped(stationID, actor, note)
	default:
		return respond(c, http.StatusBadRequest, "queue_entry_id or station_id parameter is required", nil)
	}
	if err != nil {
		return respondServiceError(c, err)
	}

	ws.BroadcastQueueEvent(result.QueueEntryID, result.StationID, result.Status, result.QueueCode)

	return respond(c, http.StatusOK, "entry recalled", result)
}

type transferRequest struct {
	QueueEntryID           int64  `json:"queue_entry_id"`
	DestinationStationType string `json:"destination_station_type"`
	ServiceID              *int   `json:"service_id"`
	Note                   string `json:"note"`
}

func (qc *QueueController) TransferHandler(c echo.Context) error {
	var req transferRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "invalid request body", nil)
	}
	if req.QueueEntryID == 0 {
		return respond(c, http.StatusBadRequest, "queue_entry_id is required", nil)
	}

	result, err := qc.TransferService.Transfer(req.QueueEntryID, req.DestinationStationType, req.ServiceID, actorFromContext(c), req.Note)
	if err != nil {
		return respondServiceError(c, err)
	}

	ws.BroadcastQueueEvent(result.SourceEntryID, result.SourceStationID, models.StatusTransferred, "")
	ws.BroadcastQueueEvent(result.NewQueueEntryID, result.NewStationID, models.StatusWaiting, result.NewQueueCode)

	return respond(c, http.StatusOK, "patient transferred", result)
}

// SnapshotHandler returns the station's day queue bucketed by status, plus
// served count and average wait.
func (qc *QueueController) SnapshotHandler(c echo.Context) error {
	stationID, err := intParam(c, "station_id")
	if err != nil {
		return respond(c, http.StatusBadRequest, err.Error(), nil)
	}

	day := time.Now()
	if raw := c.QueryParam("date"); raw != "" {
		day, err = time.ParseInLocation("2006-01-02", raw, time.Now().Location())
		if err != nil {
			return respond(c, http.StatusBadRequest, "date must be YYYY-MM-DD", nil)
		}
	}

	snapshot, err := qc.StatsService.GetStationSnapshot(stationID, day)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respond(c, http.StatusOK, "station snapshot", snapshot)
}

func intParam(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, paramError{name + " parameter is required"}
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, paramError{name + " must be a number"}
	}
	return v, nil
}

func int64Param(c echo.Context, name string) (int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, paramError{name + " parameter is required"}
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, paramError{name + " must be a number"}
	}
	return v, nil
}

type paramError struct{ msg string }

func (e paramError) Error() string { return e.msg }

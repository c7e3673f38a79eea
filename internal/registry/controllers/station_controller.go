package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/altamedika/queue-engine/internal/registry/services"
)

type StationController struct {
	StationService *services.StationService
}

func NewStationController(service *services.StationService) *StationController {
	return &StationController{StationService: service}
}

// ListStationsHandler returns the active station catalog, optionally
// filtered by type.
func (sc *StationController) ListStationsHandler(c echo.Context) error {
	stations, err := sc.StationService.ListStations(c.QueryParam("type"))
	if err != nil {
		log.Error().Err(err).Msg("failed to list stations")
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "failed to list stations",
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "stations retrieved",
		"data":    stations,
	})
}

package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/altamedika/queue-engine/internal/common/middlewares"
	"github.com/altamedika/queue-engine/internal/queue/services"
)

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

// respondServiceError maps the engine's error taxonomy onto HTTP statuses.
// Unrecognized errors are logged and surfaced as a generic failure; the
// transactional boundaries guarantee no partial state leaked.
func respondServiceError(c echo.Context, err error) error {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		return respond(c, http.StatusBadRequest, ve.Message, nil)
	case errors.Is(err, services.ErrEmptyQueue):
		return respond(c, http.StatusNotFound, "no eligible entry in queue", nil)
	case errors.Is(err, services.ErrNotFound):
		return respond(c, http.StatusNotFound, "queue entry not found", nil)
	case errors.Is(err, services.ErrConflict):
		return respond(c, http.StatusConflict, "entry was claimed by another operator, please retry", nil)
	case errors.Is(err, services.ErrForbidden):
		return respond(c, http.StatusForbidden, "operator role not permitted at this station", nil)
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("queue operation failed")
		return respond(c, http.StatusInternalServerError, "operation failed", nil)
	}
}

// actorFromContext builds the audit actor from the validated JWT claims.
func actorFromContext(c echo.Context) services.Actor {
	claims := middlewares.OperatorClaims(c)
	if claims == nil {
		return services.Actor{}
	}
	return services.Actor{
		OperatorID: claims.OperatorID,
		Name:       claims.Name,
		Role:       claims.Role,
	}
}

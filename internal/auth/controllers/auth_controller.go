package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/altamedika/queue-engine/internal/auth/services"
	"github.com/altamedika/queue-engine/pkg/utils"
)

type AuthController struct {
	AuthService *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{AuthService: service}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (ac *AuthController) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil || req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "username and password are required",
			"data":    nil,
		})
	}

	op, err := ac.AuthService.Authenticate(req.Username, req.Password)
	if err != nil {
		if err == services.ErrInvalidCredentials {
			return c.JSON(http.StatusUnauthorized, map[string]interface{}{
				"status":  http.StatusUnauthorized,
				"message": "invalid username or password",
				"data":    nil,
			})
		}
		log.Error().Err(err).Str("username", req.Username).Msg("login failed")
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "failed to authenticate",
			"data":    nil,
		})
	}

	stationID := 0
	if op.StationID.Valid {
		stationID = int(op.StationID.Int64)
	}
	token, err := utils.GenerateJWTToken(op.ID, op.Name, op.Role, stationID, op.Username, time.Now().Add(12*time.Hour))
	if err != nil {
		log.Error().Err(err).Msg("failed to sign token")
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "failed to create session token",
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "login successful",
		"data": map[string]interface{}{
			"token":       token,
			"id_operator": op.ID,
			"name":        op.Name,
			"role":        op.Role,
			"id_station":  stationID,
		},
	})
}

package routes

import (
	"database/sql"

	"github.com/labstack/echo/v4"

	apptServices "github.com/altamedika/queue-engine/internal/appointment/services"
	authControllers "github.com/altamedika/queue-engine/internal/auth/controllers"
	authServices "github.com/altamedika/queue-engine/internal/auth/services"
	"github.com/altamedika/queue-engine/internal/common/middlewares"
	queueControllers "github.com/altamedika/queue-engine/internal/queue/controllers"
	queueServices "github.com/altamedika/queue-engine/internal/queue/services"
	registryControllers "github.com/altamedika/queue-engine/internal/registry/controllers"
	registryServices "github.com/altamedika/queue-engine/internal/registry/services"
	"github.com/altamedika/queue-engine/ws"
)

// Init wires services, controllers and routes onto the Echo instance.
func Init(e *echo.Echo, db *sql.DB) {
	stationService := registryServices.NewStationService(db)
	appointmentService := apptServices.NewAppointmentService()
	checkinService := queueServices.NewCheckinService(db, appointmentService)
	queueService := queueServices.NewQueueService(db, stationService)
	transferService := queueServices.NewTransferService(db)
	statsService := queueServices.NewStatsService(db)
	authService := authServices.NewAuthService(db)

	stationController := registryControllers.NewStationController(stationService)
	checkinController := queueControllers.NewCheckinController(checkinService)
	queueController := queueControllers.NewQueueController(queueService, transferService, statsService)
	authController := authControllers.NewAuthController(authService)

	api := e.Group("/api")

	// session
	api.POST("/auth/login", authController.Login) // no JWT

	// station registry (read-only)
	api.GET("/stations", stationController.ListStationsHandler, middlewares.JWTMiddleware())

	// queue engine
	queue := api.Group("/queue", middlewares.JWTMiddleware())
	queue.POST("/check-in", checkinController.CheckInHandler,
		middlewares.RequireRoles("registration", "admin"))
	queue.POST("/call-next", queueController.CallNextHandler)
	queue.PUT("/complete", queueController.CompleteHandler)
	queue.PUT("/skip", queueController.SkipHandler)
	queue.PUT("/recall", queueController.RecallHandler)
	queue.POST("/transfer", queueController.TransferHandler)
	queue.GET("/snapshot", queueController.SnapshotHandler)

	// queue displays subscribe here for transition events
	e.GET("/ws", ws.ServeWS(ws.HubInstance))
}

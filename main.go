package main

import (
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/altamedika/queue-engine/config"
	queueservices "github.com/altamedika/queue-engine/internal/queue/services"
	"github.com/altamedika/queue-engine/internal/routes"
	"github.com/altamedika/queue-engine/pkg/storage/mariadb"
)

func main() {
	cfg := config.LoadConfig()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.AppEnv != "production" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	log.Logger = logger

	if loc, err := time.LoadLocation(cfg.Timezone); err != nil {
		log.Warn().Err(err).Str("timezone", cfg.Timezone).Msg("invalid timezone, queue days follow the server clock")
	} else {
		queueservices.SetDayLocation(loc)
	}

	db := mariadb.Connect()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	routes.Init(e, db)

	log.Info().Str("port", cfg.Port).Msg("queue engine listening")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

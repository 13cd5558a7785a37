package main

import (
	"carrental/config"
	"carrental/di"
	"carrental/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	app := di.InitializeApp()

	if err := app.Sweep.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start overdue sweep")
	}
	defer app.Sweep.Stop()

	app.HTTP.Serve()
}

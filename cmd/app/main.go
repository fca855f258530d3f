package main

import (
	"github.com/rs/zerolog/log"

	"tempo/config"
	"tempo/di"
	"tempo/shared/logger"
	"tempo/shared/timezone"
)

func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)
	logger.SetLogLevel(cfg)

	timezone.Init(cfg.App.Timezone)

	http, cleanup, err := di.InitializeService()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize service")
	}
	defer cleanup()

	http.Serve()
}

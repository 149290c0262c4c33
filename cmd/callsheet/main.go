package main

import (
	"context"
	"os/signal"
	"syscall"

	"callsheet/internal/app"
	"callsheet/internal/config"
	"callsheet/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logging.New("info")
		fallback.Fatal().Err(err).Msg("config")
	}
	log := logging.New(cfg.LogLevel)

	application, err := app.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()
	if err := application.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("run")
	}
}

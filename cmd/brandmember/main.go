package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"BrandMember/internal/app"
	"BrandMember/internal/config"
	"BrandMember/internal/logging"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.File)

	application := app.New(cfg, logger)

	if err := application.Run(ctx); err != nil {
		logger.Error("run aborted", "error", err)
		os.Exit(1)
	}
	logger.Info("run finished")
}

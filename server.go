package api

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"Wildography/config"
	"Wildography/controllers"
	"Wildography/logger"

	"go.uber.org/zap"
)

// Run loads configuration, starts the API and blocks until SIGINT or SIGTERM.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Env); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Get()

	server, err := controllers.Initialize(cfg, log)
	if err != nil {
		log.Error("failed to initialize server", zap.Error(err))
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, ":"+cfg.Port); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		return err
	}
	log.Info("Server exited")
	return nil
}

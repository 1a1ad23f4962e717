package main

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/cachemir/cachemir/internal/server"
	"github.com/cachemir/cachemir/pkg/config"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	cfg := config.LoadServerConfig()

	if err := cfg.Validate(); err != nil {
		log.Fatalw("invalid configuration", "error", err)
	}

	log.Infow("starting server", "config", cfg)

	srv := server.New(cfg.Port, log)

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalw("server failed to start", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	log.Info("shutting down server")

	if err := srv.Stop(); err != nil {
		log.Warnw("error stopping server", "error", err)
	}

	log.Info("server stopped")
}

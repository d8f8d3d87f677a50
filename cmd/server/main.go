package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/akeren/tablebook/config"
	"github.com/akeren/tablebook/domain"
	"github.com/akeren/tablebook/internal/log"
	"github.com/akeren/tablebook/pkg/utils"
)

const defaultShutdownTimeout = 30 * time.Second

func main() {
	logger := log.NewLoggerWithJSONOutput()
	logger.Info("tablebook server initialized")

	os.Exit(run(logger, os.Args[1:]))
}

func run(logger *log.Logger, args []string) int {
	appConfig, err := config.LoadApplicationConfiguration(logger, wantsAutoMigrate(args))
	if err != nil {
		logger.Error("Failed to load application configuration", "error", err.Error())
		return 1
	}
	defer appConfig.Cleanup()

	domain.SetupCoreDomain(appConfig)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server...")
		if err := appConfig.RouterService.RunHTTPServer(); err != nil {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		logger.Error("Server error", "error", err)
		return 1
	case sig := <-quit:
		logger.Info("Shutdown signal received, shutting down gracefully...", "signal", sig.String())
	}

	timeout := utils.GetEnvPositiveDuration("SHUTDOWN_TIMEOUT", defaultShutdownTimeout)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := appConfig.RouterService.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
		return 1
	}

	logger.Info("Graceful shutdown completed")
	return 0
}

func wantsAutoMigrate(args []string) bool {
	for _, arg := range args {
		switch strings.ToLower(arg) {
		case "--auto-migrate", "-m":
			return true
		}
	}
	return false
}

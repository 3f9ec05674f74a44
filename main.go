package main

import (
	"os"
	"os/signal"
	"syscall"

	"foodorder/internal/app"
	"foodorder/internal/config"

	"github.com/sirupsen/logrus"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}
	setupLogging(cfg)

	// --- Application ---
	application, err := app.New(cfg)
	if err != nil {
		logrus.Fatalf("failed to initialize application: %v", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			logrus.WithError(err).Warn("error while releasing resources")
		}
	}()

	// --- Order event audit consumer ---
	if cfg.OrderEventsAudit {
		if err := application.StartEventAudit(); err != nil {
			logrus.WithError(err).Warn("order event audit not started")
		}
	}

	// --- Start HTTP Server ---
	logrus.WithFields(logrus.Fields{"port": cfg.AppPort, "db_driver": cfg.DBDriver}).Info("starting server")

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := application.Fiber.Listen(cfg.AppPort); err != nil {
			logrus.Fatalf("server failed to start: %v", err)
		}
	}()

	<-quit
	logrus.Info("shutting down server")

	if err := application.Fiber.Shutdown(); err != nil {
		logrus.WithError(err).Error("error during Fiber shutdown")
	}
	logrus.Info("server gracefully stopped")
}

// setupLogging applies LOG_LEVEL and LOG_FORMAT to the standard logrus logger.
func setupLogging(cfg *config.Config) {
	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithField("log_level", cfg.LogLevel).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

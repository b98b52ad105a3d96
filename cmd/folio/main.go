// Package main is the entry point for the folio3d viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/nahome/folio3d/internal/config"
	"github.com/nahome/folio3d/internal/logger"
	"github.com/nahome/folio3d/internal/viewer"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, path, err := config.LoadWithPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== folio3d ===", zap.String("config", path))
	logger.Sugar.Debugf("Config: %+v", cfg)

	v, err := viewer.New(cfg, path)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

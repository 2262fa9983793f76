// Package main is the entry point for the GL sandbox.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/glsandbox/internal/config"
	"github.com/Faultbox/glsandbox/internal/game"
	"github.com/Faultbox/glsandbox/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== GL Sandbox ===")
	source := cfg.Source
	if source == "" {
		source = "defaults"
	}
	logger.Debug("config loaded",
		zap.String("source", source),
		zap.String("scene", cfg.Scene.Path),
		zap.String("shading", cfg.Scene.Shading))
	logger.Sugar.Debugf("Config: %+v", cfg)

	g, err := game.New(cfg)
	if err != nil {
		logger.Error("failed to create sandbox", zap.Error(err))
		os.Exit(1)
	}
	defer g.Close()

	if err := g.Run(); err != nil {
		logger.Error("sandbox error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("sandbox closed normally")
}

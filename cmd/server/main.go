// Package main is the entry point for the identity service.
//
// main stays minimal: load configuration, build the logger, create the
// server, run it. Everything else lives in internal/.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/identity-service/internal/config"
	"github.com/sakif/identity-service/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Ensure the database directory exists before sqlite tries to open it.
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// Package main is the entry point for the discord lookup server.
//
// main stays minimal: it reads configuration, builds the logger, makes sure
// the database directory exists and hands everything to internal/server.
package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sakif/discord-lookup/internal/config"
	"github.com/sakif/discord-lookup/internal/server"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")
	flag.Parse()

	// === 1. LOGGING ===
	// Text by default; LOG_FORMAT=json for log shippers.
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	var logger *slog.Logger
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, opts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	slog.SetDefault(logger)

	// === 2. CONFIGURATION ===
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", slog.String("path", *configPath), slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.Path == "" {
		logger.Warn("config file not found, using defaults and environment",
			slog.String("path", *configPath),
		)
	}
	if cfg.Discord.Token == "" {
		// The server still starts; every lookup answers "missing bot token".
		logger.Warn("missing bot token: set discord.token or DISCORD_TOKEN")
	}

	// === 3. DATABASE DIRECTORY ===
	// os.MkdirAll is `mkdir -p`; 0755 = owner rwx, others r-x.
	if cfg.Database.Path != ":memory:" {
		dbDir := filepath.Dir(cfg.Database.Path)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dbDir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	// === 4. SERVER ===
	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

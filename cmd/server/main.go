// Package main implements the entry point for the taskboard API server,
// which manages users' task records and publishes status-change events.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"taskboard/internal/config"
	"taskboard/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status) and exit")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// run loads configuration, wires the application and either executes a
// migration command or starts the HTTP server.
func run(migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"queue_enabled", cfg.Queue.Enabled)

	if migrateCmd != "" {
		if err := runMigrations(cfg, migrateCmd); err != nil {
			return fmt.Errorf("migration %q failed: %w", migrateCmd, err)
		}
		slog.Info("migration completed", "command", migrateCmd)
		return nil
	}

	app, err := newApplication(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := context.Background()
	if err := app.start(ctx); err != nil {
		app.cleanup()
		return err
	}
	return nil
}

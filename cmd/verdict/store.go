package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"mercator-hq/verdict/pkg/config"
	"mercator-hq/verdict/pkg/store"
	"mercator-hq/verdict/pkg/store/retention"
)

// openStore opens the configured rule store.
func openStore(cfg *config.StorageConfig, logger *slog.Logger) (store.Store, error) {
	switch cfg.Backend {
	case "memory":
		return store.NewMemoryStore(), nil
	case "sqlite":
		if cfg.SQLite.Path != ":memory:" {
			if dir := filepath.Dir(cfg.SQLite.Path); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return nil, fmt.Errorf("failed to create database directory: %w", err)
				}
			}
		}
		return store.NewSQLiteStore(&store.SQLiteConfig{
			Path:        cfg.SQLite.Path,
			Driver:      cfg.SQLite.Driver,
			WALMode:     cfg.SQLite.WALMode,
			BusyTimeout: cfg.SQLite.BusyTimeout,
		}, logger)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}

func retentionConfig(cfg *config.RetentionConfig) *retention.Config {
	return &retention.Config{
		Days:          cfg.Days,
		MaxRecords:    cfg.MaxRecords,
		PruneSchedule: cfg.PruneSchedule,
	}
}

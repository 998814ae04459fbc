package tokenstore

import (
	"fmt"

	"buget/internal/config"
	"buget/internal/log"
	"buget/internal/session"
	"buget/internal/storage"
)

// CleanupFunc releases whatever the store holds open.
type CleanupFunc func() error

// Result is the store selected by configuration plus its cleanup.
type Result struct {
	Store   session.TokenStore
	Kind    string
	Cleanup CleanupFunc
}

// Open builds the token store named by cfg.TokenStore.
func Open(cfg *config.Config, logger *log.Logger) (*Result, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentStorage)

	switch cfg.TokenStore {
	case config.TokenStoreFile:
		logger.Debug("Using file token store", "path", cfg.TokenFile)
		return &Result{Store: NewFile(cfg.TokenFile), Kind: cfg.TokenStore, Cleanup: noop}, nil

	case config.TokenStoreSQLite:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite token store: %w", err)
		}
		logger.Debug("Using SQLite token store", "db_path", cfg.SQLiteDBPath)
		return &Result{Store: repo, Kind: cfg.TokenStore, Cleanup: repo.Close}, nil

	case config.TokenStoreMemory:
		logger.Debug("Using in-memory token store; sessions will not survive restarts")
		return &Result{Store: NewMemory(), Kind: cfg.TokenStore, Cleanup: noop}, nil

	default:
		return nil, fmt.Errorf("unsupported token store: %q", cfg.TokenStore)
	}
}

func noop() error { return nil }

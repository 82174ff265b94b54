package backend

import (
	"context"
	"fmt"
	"log/slog"

	"tracker/internal/config"
	"tracker/internal/storage"
	"tracker/internal/store"
	"tracker/internal/store/csvfile"
	"tracker/internal/store/memory"
)

// Result contains the store instance and optional cleanup function
type Result struct {
	Store   store.Store
	Cleanup CleanupFunc
}

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new store factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateStore implements Factory.CreateStore
func (f *DefaultFactory) CreateStore(ctx context.Context, cfg Config) (*Result, error) {
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}

	switch cfg.Type {
	case CSVBackend:
		return f.createCSVStore(cfg)
	case SQLiteBackend:
		return f.createSQLiteStore(cfg)
	case MemoryBackend:
		return f.createMemoryStore()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}

func (f *DefaultFactory) createCSVStore(cfg Config) (*Result, error) {
	if cfg.CSVPath == "" {
		return nil, fmt.Errorf("CSV path is required for csv backend")
	}

	var s *csvfile.Store
	if cfg.LenientLoad {
		s = csvfile.NewLenient(cfg.CSVPath)
	} else {
		s = csvfile.New(cfg.CSVPath)
	}

	f.logger.Info("Initialized CSV backend",
		"path", cfg.CSVPath,
		"lenient", cfg.LenientLoad)

	return &Result{Store: s, Cleanup: nil}, nil
}

func (f *DefaultFactory) createSQLiteStore(cfg Config) (*Result, error) {
	if cfg.SQLiteDBPath == "" {
		return nil, fmt.Errorf("SQLite database path is required for sqlite backend")
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)

	return &Result{Store: repo, Cleanup: repo.Close}, nil
}

func (f *DefaultFactory) createMemoryStore() (*Result, error) {
	f.logger.Info("Initialized memory backend")
	return &Result{Store: memory.New(), Cleanup: nil}, nil
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := Type(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:         backendType,
		CSVPath:      appConfig.CSVPath,
		LenientLoad:  appConfig.LenientLoad,
		SQLiteDBPath: appConfig.SQLiteDBPath,
	}, nil
}

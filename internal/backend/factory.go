package backend

import (
	"fmt"

	"partypay/internal/config"
	"partypay/internal/ledger/memory"
	"partypay/internal/ledger/remote"
	"partypay/internal/log"
	"partypay/internal/storage"
)

// Factory constructs ledger backends from configuration.
type Factory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) *Factory {
	return &Factory{logger: logger.WithComponent(log.ComponentLedger)}
}

// FromAppConfig maps the application configuration onto a backend config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	cfg := Config{
		Kind:          Kind(appConfig.LedgerBackend),
		RemoteBaseURL: appConfig.RemoteBaseURL,
		RemoteToken:   appConfig.RemoteToken,
		RemoteTimeout: appConfig.RemoteTimeout,
		SQLiteDBPath:  appConfig.SQLiteDBPath,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Open constructs the backend named by cfg.Kind.
func (f *Factory) Open(cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Kind {
	case KindRemote:
		return f.openRemote(cfg)
	case KindSQLite:
		return f.openSQLite(cfg)
	case KindMemory:
		return f.openMemory()
	default:
		return nil, fmt.Errorf("unsupported backend kind %q", cfg.Kind)
	}
}

func (f *Factory) openRemote(cfg Config) (*Result, error) {
	client := remote.New(remote.Config{
		BaseURL: cfg.RemoteBaseURL,
		Token:   cfg.RemoteToken,
		Timeout: cfg.RemoteTimeout,
	}, f.logger)

	f.logger.Info("Using remote ledger backend",
		log.FieldBackend, KindRemote.String(),
		"base_url", cfg.RemoteBaseURL)

	return &Result{Store: client, Sessions: client}, nil
}

func (f *Factory) openSQLite(cfg Config) (*Result, error) {
	repo, err := storage.NewRepository(cfg.SQLiteDBPath, f.logger)
	if err != nil {
		return nil, fmt.Errorf("open sqlite ledger: %w", err)
	}

	f.logger.Info("Using sqlite ledger backend",
		log.FieldBackend, KindSQLite.String(),
		"db_path", cfg.SQLiteDBPath)

	return &Result{Store: repo, Cleanup: repo.Close}, nil
}

func (f *Factory) openMemory() (*Result, error) {
	f.logger.Info("Using in-memory ledger backend",
		log.FieldBackend, KindMemory.String())
	return &Result{Store: memory.New()}, nil
}

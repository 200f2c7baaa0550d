package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ziadkadry99/jisho/internal/backend"
	"github.com/ziadkadry99/jisho/internal/config"
	"github.com/ziadkadry99/jisho/internal/logging"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `jisho init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger according to --verbose.
func newLogger() (*zap.Logger, error) {
	logger, err := logging.New(verbose)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return logger, nil
}

// newBackendClient creates the dictionary backend client for cfg.
func newBackendClient(cfg *config.Config, logger *zap.Logger) *backend.Client {
	return backend.New(cfg.BackendOrigin(), backend.Options{
		Timeout: cfg.RequestTimeout,
		Logger:  logger,
	})
}

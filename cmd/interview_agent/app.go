package main

import (
	"context"
	"fmt"

	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/config"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/history"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/observability"
)

// loadConfig reads the --config file and environment.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newLogger honours --verbose over the configured mode.
func newLogger(cfg *config.Config) (*observability.Logger, error) {
	mode := cfg.Log.Mode
	if verbose {
		mode = "development"
	}
	return observability.NewLogger(mode)
}

func openHistory(ctx context.Context, cfg *config.Config, disabled bool) (history.Store, error) {
	if disabled {
		return history.NopStore{}, nil
	}
	store, err := history.Open(ctx, cfg.History.Driver, cfg.History.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return store, nil
}

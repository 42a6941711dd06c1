package cmd

import (
	"errors"
	"os"

	"github.com/gravitrone/teamselect/internal/api"
	"github.com/gravitrone/teamselect/internal/config"
)

// LoadConfig reads the config file, falling back to defaults when none exists.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewClient builds an API client from cfg.
func NewClient(cfg *config.Config) *api.Client {
	return api.NewClient(cfg.BaseURL, cfg.APIKey, cfg.Timeout())
}

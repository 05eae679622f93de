package repository

import (
	"github.com/accrualworks/wd-accruals/internal/shared/types"
)

// ConfigRepository defines the interface for loading and checking configuration.
type ConfigRepository interface {
	// LoadConfigFile reads a TOML, YAML or JSON file on top of the default configuration.
	LoadConfigFile(filePath string) (*types.Config, error)
	Validate(cfg *types.Config) error
}

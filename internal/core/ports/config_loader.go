package ports

import "go.trai.ch/ship/internal/core/domain"

// ConfigLoader defines the interface for loading the ship configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration for the repository at path. path may be the
	// repository root or an explicit configuration file. A missing file yields defaults.
	Load(path string) (*domain.Config, error)
}

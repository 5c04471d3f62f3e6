package ports

import (
	"context"

	"go.trai.ch/ship/internal/core/domain"
)

// RegistryClient reads package metadata from npm-compatible registries.
//
//go:generate go run go.uber.org/mock/mockgen -source=registry.go -destination=mocks/mock_registry.go -package=mocks
type RegistryClient interface {
	// Version fetches the dist metadata of name@version from registry.
	// Returns nil, nil when the package or the version does not exist.
	Version(ctx context.Context, registry, name, version, token string) (*domain.PublishedVersion, error)

	// Ping checks that registry can be contacted.
	Ping(ctx context.Context, registry, token string) error
}

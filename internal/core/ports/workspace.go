package ports

import (
	"context"

	"go.trai.ch/ship/internal/core/domain"
)

// Workspace discovers the packages of a monorepo.
//
//go:generate go run go.uber.org/mock/mockgen -source=workspace.go -destination=mocks/mock_workspace.go -package=mocks
type Workspace interface {
	// Discover reads the workspace rooted at root.
	Discover(root string) (*domain.Workspace, error)
}

// ReleaseSource computes the release set of a run.
type ReleaseSource interface {
	// Releases returns the packages and versions to publish. Releases of type "none" are dropped.
	Releases(ctx context.Context, root string, pm domain.PackageManager) ([]domain.Release, error)
}

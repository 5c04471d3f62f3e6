package ports

import (
	"context"

	"go.trai.ch/ship/internal/core/domain"
)

// Packer produces the publishable tarball of a package directory.
//
//go:generate go run go.uber.org/mock/mockgen -source=packer.go -destination=mocks/mock_packer.go -package=mocks
type Packer interface {
	// Pack packs dir with the package manager pm into a fresh directory under dest
	// and returns the hashed artifact.
	Pack(ctx context.Context, dir string, pm domain.PackageManager, dest string) (*domain.Artifact, error)
}

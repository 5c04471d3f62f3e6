// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/ship/internal/core/domain"
)

// CommandRunner defines the interface for running external commands.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type CommandRunner interface {
	// Run executes the command and captures its output.
	//
	// A command that starts and exits non-zero is not an error: the exit code and
	// output are returned in the result. The error is reserved for invocation
	// failures (binary not found, permission denied) and context cancellation.
	Run(ctx context.Context, cmd domain.Command) (domain.CommandResult, error)
}

// BuildRunner runs the shared workspace build once per release run.
type BuildRunner interface {
	// Build runs command in root. An empty command runs the package manager's build script.
	Build(ctx context.Context, root string, pm domain.PackageManager, command []string) (domain.CommandResult, error)
}

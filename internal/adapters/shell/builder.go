package shell

import (
	"context"

	"go.trai.ch/ship/internal/core/domain"
	"go.trai.ch/ship/internal/core/ports"
)

// Builder implements ports.BuildRunner on top of a CommandRunner.
type Builder struct {
	runner ports.CommandRunner
}

// NewBuilder creates a new Builder.
func NewBuilder(runner ports.CommandRunner) *Builder {
	return &Builder{runner: runner}
}

// Build runs command in root, or "<pm> run build" when command is empty.
func (b *Builder) Build(
	ctx context.Context, root string, pm domain.PackageManager, command []string,
) (domain.CommandResult, error) {
	cmd := domain.Command{Dir: root}
	if len(command) == 0 {
		if pm == "" {
			pm = domain.PackageManagerNPM
		}
		cmd.Name, cmd.Args = string(pm), []string{"run", "build"}
	} else {
		cmd.Name, cmd.Args = command[0], command[1:]
	}
	return b.runner.Run(ctx, cmd)
}

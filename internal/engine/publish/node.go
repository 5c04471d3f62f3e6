package publish

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ship/internal/adapters/attest" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ship/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ship/internal/adapters/shell"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ship/internal/core/ports"
	"go.trai.ch/ship/internal/engine/conflict"
)

// NodeID is the unique identifier for the publish executor Graft node.
const NodeID graft.ID = "engine.publish"

func init() {
	graft.Register(graft.Node[*Executor]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, conflict.NodeID, attest.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Executor, error) {
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}
			checker, err := graft.Dep[*conflict.Checker](ctx)
			if err != nil {
				return nil, err
			}
			attestor, err := graft.Dep[ports.Attestor](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewExecutor(runner, checker, attestor, log), nil
		},
	})
}

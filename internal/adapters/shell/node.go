package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ship/internal/adapters/logger"
	"go.trai.ch/ship/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the command runner Graft node.
	NodeID graft.ID = "adapter.runner"
	// BuilderNodeID is the unique identifier for the build runner Graft node.
	BuilderNodeID graft.ID = "adapter.builder"
)

func init() {
	graft.Register(graft.Node[ports.CommandRunner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.CommandRunner, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewRunner(log), nil
		},
	})

	graft.Register(graft.Node[ports.BuildRunner]{
		ID:        BuilderNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID},
		Run: func(ctx context.Context) (ports.BuildRunner, error) {
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}
			return NewBuilder(runner), nil
		},
	})
}

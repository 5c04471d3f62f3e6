package scheduler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ship/internal/adapters/auth"               //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ship/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ship/internal/adapters/packer"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ship/internal/adapters/shell"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ship/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ship/internal/core/ports"
	"go.trai.ch/ship/internal/engine/conflict"
	"go.trai.ch/ship/internal/engine/publish"
)

// NodeID is the unique identifier for the scheduler Graft node.
const NodeID graft.ID = "engine.scheduler"

func init() {
	graft.Register(graft.Node[*Scheduler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			auth.NodeID,
			shell.BuilderNodeID,
			packer.NodeID,
			conflict.NodeID,
			publish.NodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Scheduler, error) {
			authSetup, err := graft.Dep[ports.AuthSetup](ctx)
			if err != nil {
				return nil, err
			}

			builder, err := graft.Dep[ports.BuildRunner](ctx)
			if err != nil {
				return nil, err
			}

			pk, err := graft.Dep[ports.Packer](ctx)
			if err != nil {
				return nil, err
			}

			checker, err := graft.Dep[*conflict.Checker](ctx)
			if err != nil {
				return nil, err
			}

			executor, err := graft.Dep[*publish.Executor](ctx)
			if err != nil {
				return nil, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(authSetup, builder, pk, checker, executor, tel, log), nil
		},
	})
}

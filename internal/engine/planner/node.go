package planner

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ship/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ship/internal/adapters/workspace" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ship/internal/core/ports"
	"go.trai.ch/ship/internal/engine/targets"
)

// NodeID is the unique identifier for the planner Graft node.
const NodeID graft.ID = "engine.planner"

func init() {
	graft.Register(graft.Node[*Planner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{workspace.NodeID, targets.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Planner, error) {
			ws, err := graft.Dep[ports.Workspace](ctx)
			if err != nil {
				return nil, err
			}
			resolver, err := graft.Dep[*targets.Resolver](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(ws, resolver, log), nil
		},
	})
}

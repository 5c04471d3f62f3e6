package conflict

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ship/internal/adapters/registry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ship/internal/core/ports"
)

// NodeID is the unique identifier for the conflict checker Graft node.
const NodeID graft.ID = "engine.conflict"

func init() {
	graft.Register(graft.Node[*Checker]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{registry.NodeID},
		Run: func(ctx context.Context) (*Checker, error) {
			client, err := graft.Dep[ports.RegistryClient](ctx)
			if err != nil {
				return nil, err
			}
			return NewChecker(client), nil
		},
	})
}

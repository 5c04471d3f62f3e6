package auth

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ship/internal/adapters/logger"
	"go.trai.ch/ship/internal/adapters/registry"
	"go.trai.ch/ship/internal/core/ports"
)

// NodeID is the unique identifier for the auth setup Graft node.
const NodeID graft.ID = "adapter.auth"

func init() {
	graft.Register(graft.Node[ports.AuthSetup]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{registry.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.AuthSetup, error) {
			client, err := graft.Dep[ports.RegistryClient](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(client, log), nil
		},
	})
}

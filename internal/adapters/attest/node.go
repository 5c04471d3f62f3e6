package attest

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ship/internal/adapters/logger"
	"go.trai.ch/ship/internal/core/ports"
)

// NodeID is the unique identifier for the attestor Graft node.
const NodeID graft.ID = "adapter.attestor"

func init() {
	graft.Register(graft.Node[ports.Attestor]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Attestor, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewNoOp(log), nil
		},
	})
}

package targets

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the target resolver Graft node.
const NodeID graft.ID = "engine.targets"

func init() {
	graft.Register(graft.Node[*Resolver]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Resolver, error) {
			return NewResolver(), nil
		},
	})
}

package releases

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ship/internal/adapters/shell" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ship/internal/core/ports"
)

// NodeID is the unique identifier for the default release source Graft node.
const NodeID graft.ID = "adapter.release_source"

func init() {
	graft.Register(graft.Node[ports.ReleaseSource]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.ReleaseSource, error) {
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}
			return NewChangesets(runner, ""), nil
		},
	})
}

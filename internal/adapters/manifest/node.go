package manifest

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/buckle/internal/core/ports"
)

// NodeID is the unique identifier for the manifest engine Graft node.
const NodeID graft.ID = "adapter.manifest_engine"

func init() {
	graft.Register(graft.Node[ports.ManifestMergeEngine]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ManifestMergeEngine, error) {
			return NewEngine(), nil
		},
	})
}

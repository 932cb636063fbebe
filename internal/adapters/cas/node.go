package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/buckle/internal/core/ports"
)

// NodeID is the unique identifier for the generation state store Graft node.
const NodeID graft.ID = "adapter.state_store"

func init() {
	graft.Register(graft.Node[ports.StateStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.StateStore, error) {
			store, err := NewStore()
			if err != nil {
				return nil, err
			}
			return store, nil
		},
	})
}

package buckfile

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/buckle/internal/core/ports"
)

const (
	// ReaderNodeID is the unique identifier for the rule file reader Graft node.
	ReaderNodeID graft.ID = "adapter.buckfile.reader"
	// WriterNodeID is the unique identifier for the rule file writer Graft node.
	WriterNodeID graft.ID = "adapter.buckfile.writer"
)

func init() {
	graft.Register(graft.Node[*Reader]{
		ID:        ReaderNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Reader, error) {
			return NewReader(), nil
		},
	})

	graft.Register(graft.Node[ports.RuleWriter]{
		ID:        WriterNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{ReaderNodeID},
		Run: func(ctx context.Context) (ports.RuleWriter, error) {
			reader, err := graft.Dep[*Reader](ctx)
			if err != nil {
				return nil, err
			}
			return NewWriter(reader), nil
		},
	})
}

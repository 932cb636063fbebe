package generator

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/buckle/internal/adapters/buckfile"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/buckle/internal/adapters/cas"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/buckle/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/buckle/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/buckle/internal/adapters/manifest"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/buckle/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/buckle/internal/core/ports"
)

// NodeID is the unique identifier for the generator Graft node.
const NodeID graft.ID = "engine.generator"

func init() {
	graft.Register(graft.Node[*Generator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.LinkerNodeID,
			buckfile.WriterNodeID,
			fs.HasherNodeID,
			cas.NodeID,
			manifest.NodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Generator, error) {
			linker, err := graft.Dep[ports.Linker](ctx)
			if err != nil {
				return nil, err
			}

			writer, err := graft.Dep[ports.RuleWriter](ctx)
			if err != nil {
				return nil, err
			}

			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.StateStore](ctx)
			if err != nil {
				return nil, err
			}

			engine, err := graft.Dep[ports.ManifestMergeEngine](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(linker, writer, hasher, store, engine, tracer, log), nil
		},
	})
}

package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/buckle/internal/adapters/cas"     //nolint:depguard // Wired in app layer
	"go.trai.ch/buckle/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/buckle/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/buckle/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/buckle/internal/core/ports"
	"go.trai.ch/buckle/internal/engine/generator"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			generator.NodeID,
			cas.NodeID,
			logger.NodeID,
			watcher.WatcherNodeID,
			watcher.ChangeFilterNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewComponents(app, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ProjectLoader](ctx)
	if err != nil {
		return nil, err
	}

	gen, err := graft.Dep[*generator.Generator](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.StateStore](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	fileWatcher, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	changes, err := graft.Dep[*watcher.ChangeFilter](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, gen, store, log, fileWatcher, changes), nil
}

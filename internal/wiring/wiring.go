// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/buckle/internal/adapters/buckfile"
	_ "go.trai.ch/buckle/internal/adapters/cas"
	_ "go.trai.ch/buckle/internal/adapters/config"
	_ "go.trai.ch/buckle/internal/adapters/fs"
	_ "go.trai.ch/buckle/internal/adapters/logger"
	_ "go.trai.ch/buckle/internal/adapters/manifest"
	_ "go.trai.ch/buckle/internal/adapters/telemetry"
	_ "go.trai.ch/buckle/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/buckle/internal/app"
	_ "go.trai.ch/buckle/internal/engine/generator"
)

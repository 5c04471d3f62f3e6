// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/ship/internal/adapters/attest"
	_ "go.trai.ch/ship/internal/adapters/auth"
	_ "go.trai.ch/ship/internal/adapters/config"
	_ "go.trai.ch/ship/internal/adapters/logger"
	_ "go.trai.ch/ship/internal/adapters/packer"
	_ "go.trai.ch/ship/internal/adapters/registry"
	_ "go.trai.ch/ship/internal/adapters/releases"
	_ "go.trai.ch/ship/internal/adapters/shell"
	_ "go.trai.ch/ship/internal/adapters/telemetry/progrock"
	_ "go.trai.ch/ship/internal/adapters/workspace"
	// Register app and engine nodes.
	_ "go.trai.ch/ship/internal/app"
	_ "go.trai.ch/ship/internal/engine/conflict"
	_ "go.trai.ch/ship/internal/engine/planner"
	_ "go.trai.ch/ship/internal/engine/publish"
	_ "go.trai.ch/ship/internal/engine/scheduler"
	_ "go.trai.ch/ship/internal/engine/targets"
)

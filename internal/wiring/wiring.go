// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/alias"
	_ "github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/archive"
	_ "github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/cas"
	_ "github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/config"
	_ "github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/download"
	_ "github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/fs"
	_ "github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/git"
	_ "github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/logger"
	_ "github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/shell"
	_ "github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/app"
	_ "github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/engine/fetcher"
)

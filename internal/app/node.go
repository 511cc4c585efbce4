package app

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/cas"                //nolint:depguard // Wired in app layer
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/shell"              //nolint:depguard // Wired in app layer
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/ports"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/engine/fetcher"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			config.EnvironmentNodeID,
			fetcher.NodeID,
			shell.NodeID,
			fs.HasherNodeID,
			cas.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	env, err := graft.Dep[ports.Environment](ctx)
	if err != nil {
		return nil, err
	}

	f, err := graft.Dep[*fetcher.Fetcher](ctx)
	if err != nil {
		return nil, err
	}

	executor, err := graft.Dep[ports.Executor](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.FetchStore](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, env, f, executor, hasher, store, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	return NewComponents(app, log, telemetry), nil
}

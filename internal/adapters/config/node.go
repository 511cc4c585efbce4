package config

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/logger"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the configuration loader Graft node.
	NodeID graft.ID = "adapter.config_loader"
	// EnvironmentNodeID is the unique identifier for the environment Graft node.
	EnvironmentNodeID graft.ID = "adapter.environment"
)

func init() {
	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ConfigLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})

	graft.Register(graft.Node[ports.Environment]{
		ID:        EnvironmentNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Environment, error) {
			return NewEnvironment(), nil
		},
	})
}

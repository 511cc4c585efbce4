package alias

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/logger"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/ports"
)

// NodeID is the unique identifier for the alias publisher Graft node.
const NodeID graft.ID = "adapter.alias_publisher"

func init() {
	graft.Register(graft.Node[ports.AliasPublisher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.AliasPublisher, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewPublisher(log), nil
		},
	})
}

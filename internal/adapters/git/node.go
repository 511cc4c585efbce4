package git

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/logger"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/ports"
)

// NodeID is the unique identifier for the git cloner Graft node.
const NodeID graft.ID = "adapter.git_cloner"

func init() {
	graft.Register(graft.Node[ports.Cloner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Cloner, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewCloner(log), nil
		},
	})
}

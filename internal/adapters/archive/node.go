package archive

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/logger"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/ports"
)

// NodeID is the unique identifier for the archive extractor Graft node.
const NodeID graft.ID = "adapter.extractor"

func init() {
	graft.Register(graft.Node[ports.Extractor]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Extractor, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewExtractor(log), nil
		},
	})
}

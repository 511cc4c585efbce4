package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/ports"
)

// NodeID is the unique identifier for the fetch store Graft node.
const NodeID graft.ID = "adapter.fetch_store"

func init() {
	graft.Register(graft.Node[ports.FetchStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.FetchStore, error) {
			return NewStore(), nil
		},
	})
}

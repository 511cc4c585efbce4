package fetcher

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/alias"              //nolint:depguard // Wired in engine wiring
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/archive"            //nolint:depguard // Wired in engine wiring
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/cas"                //nolint:depguard // Wired in engine wiring
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/download"           //nolint:depguard // Wired in engine wiring
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/fs"                 //nolint:depguard // Wired in engine wiring
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/git"                //nolint:depguard // Wired in engine wiring
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/ports"
)

// NodeID is the unique identifier for the fetcher Graft node.
const NodeID graft.ID = "engine.fetcher"

func init() {
	graft.Register(graft.Node[*Fetcher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			download.NodeID,
			git.NodeID,
			archive.NodeID,
			alias.NodeID,
			fs.HasherNodeID,
			cas.NodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Fetcher, error) {
			downloader, err := graft.Dep[ports.Downloader](ctx)
			if err != nil {
				return nil, err
			}

			cloner, err := graft.Dep[ports.Cloner](ctx)
			if err != nil {
				return nil, err
			}

			extractor, err := graft.Dep[ports.Extractor](ctx)
			if err != nil {
				return nil, err
			}

			publisher, err := graft.Dep[ports.AliasPublisher](ctx)
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

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(downloader, cloner, extractor, publisher, hasher, store, telemetry, log), nil
		},
	})
}

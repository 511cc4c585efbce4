package ports

import "github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/domain"

// ConfigLoader defines the interface for loading the project manifest.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the manifest from the given project root.
	// A missing manifest yields an empty manifest and no error.
	Load(root string) (*domain.Manifest, error)
}

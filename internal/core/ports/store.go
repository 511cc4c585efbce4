package ports

import "github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/domain"

// FetchStore persists one fetch-state record per dependency.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type FetchStore interface {
	// Get retrieves the record of a dependency.
	// Returns nil, nil if not found.
	Get(root, name string) (*domain.FetchedPackage, error)

	// Put stores the record of a dependency.
	Put(root string, pkg domain.FetchedPackage) error

	// List returns every stored record sorted by name.
	List(root string) ([]domain.FetchedPackage, error)
}

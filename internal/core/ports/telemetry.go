package ports

import (
	"context"
	"io"
)

//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry records progress of long running operations.
type Telemetry interface {
	// Record starts a new vertex for the named operation.
	Record(ctx context.Context, name string) (context.Context, Vertex)
	// Close flushes and releases the underlying recorder.
	Close() error
}

// Vertex is a single unit of work.
type Vertex interface {
	// Stdout returns a writer for the standard output of the vertex.
	Stdout() io.Writer
	// Stderr returns a writer for the standard error of the vertex.
	Stderr() io.Writer
	// Cached marks the vertex as served from cache.
	Cached()
	// Complete marks the vertex as finished with an optional error.
	Complete(err error)
}

package ports

import (
	"context"
	"io"

	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/domain"
)

// Downloader fetches a remote file.
//
//go:generate go run go.uber.org/mock/mockgen -source=fetch.go -destination=mocks/mock_fetch.go -package=mocks
type Downloader interface {
	// Download writes the content at url to dst. dst is replaced only once
	// the transfer completed.
	Download(ctx context.Context, url, dst string) error
}

// Cloner clones a git repository.
type Cloner interface {
	// Clone checks out branch of url into dst. dst must not exist.
	Clone(ctx context.Context, url, branch, dst string, progress io.Writer) error
}

// Extractor unpacks archives.
type Extractor interface {
	// BaseDir returns the single top-level directory of the archive.
	BaseDir(archive string) (string, error)
	// Extract unpacks every member of the archive below dstDir.
	Extract(ctx context.Context, archive, dstDir string) error
}

// AliasPublisher publishes the stable alias of a fetched dependency.
type AliasPublisher interface {
	// Publish makes alias resolve to target. Both are absolute paths in the
	// same directory.
	Publish(alias, target string) error
	// Mode returns how aliases are published.
	Mode() domain.AliasMode
}

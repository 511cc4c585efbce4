package alias

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/domain"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/ports"
	"go.trai.ch/zerr"
)

// Probe reports whether relative symbolic links can be created in dir.
// It returns an error wrapping domain.ErrAliasPermission when they cannot.
func Probe(dir string) error {
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrAliasPublishFailed.Error()), "dir", dir)
	}

	probeDir, err := os.MkdirTemp(dir, ".alias-probe-*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrAliasPublishFailed.Error()), "dir", dir)
	}
	defer func() {
		_ = os.RemoveAll(probeDir)
	}()

	if err := os.Symlink(".", filepath.Join(probeDir, "link")); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrAliasPermission.Error()), "dir", dir)
	}
	return nil
}

var _ ports.AliasPublisher = (*Publisher)(nil)

// Publisher selects the symlink or the copy backend with a single Probe of
// the directory holding the first published alias.
type Publisher struct {
	logger  ports.Logger
	probe   func(dir string) error
	once    sync.Once
	backend ports.AliasPublisher
}

// NewPublisher creates a new Publisher.
func NewPublisher(logger ports.Logger) *Publisher {
	return newPublisherWithProbe(logger, Probe)
}

func newPublisherWithProbe(logger ports.Logger, probe func(dir string) error) *Publisher {
	return &Publisher{logger: logger, probe: probe}
}

// Publish publishes alias with the selected backend.
func (p *Publisher) Publish(alias, target string) error {
	p.once.Do(func() {
		p.backend = p.selectBackend(filepath.Dir(alias))
	})
	return p.backend.Publish(alias, target)
}

// Mode returns the mode of the selected backend, symlink until the first Publish.
func (p *Publisher) Mode() domain.AliasMode {
	if p.backend == nil {
		return domain.AliasSymlink
	}
	return p.backend.Mode()
}

func (p *Publisher) selectBackend(dir string) ports.AliasPublisher {
	if err := p.probe(dir); err != nil {
		p.logger.Warn(fmt.Sprintf("%v, dependencies are copied instead", err))
		return NewCopyPublisher(p.logger)
	}
	return NewSymlinkPublisher(p.logger)
}

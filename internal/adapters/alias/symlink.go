// Package alias publishes the stable name of a fetched dependency, as a
// relative symlink where the platform allows it and as a full copy otherwise.
package alias

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/domain"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.AliasPublisher = (*SymlinkPublisher)(nil)

// SymlinkPublisher publishes aliases as relative symbolic links.
type SymlinkPublisher struct {
	logger ports.Logger
}

// NewSymlinkPublisher creates a new SymlinkPublisher.
func NewSymlinkPublisher(logger ports.Logger) *SymlinkPublisher {
	return &SymlinkPublisher{logger: logger}
}

// Mode returns domain.AliasSymlink.
func (p *SymlinkPublisher) Mode() domain.AliasMode {
	return domain.AliasSymlink
}

// Publish points alias at target. An alias already pointing at target is left
// untouched, anything else found at alias is removed first.
func (p *SymlinkPublisher) Publish(alias, target string) error {
	rel, err := filepath.Rel(filepath.Dir(alias), target)
	if err != nil {
		return publishErr(err, alias, target)
	}

	info, err := os.Lstat(alias)
	switch {
	case err == nil && info.Mode()&fs.ModeSymlink != 0:
		if current, readErr := os.Readlink(alias); readErr == nil && current == rel {
			return nil
		}
		if err := os.Remove(alias); err != nil {
			return publishErr(err, alias, target)
		}
	case err == nil:
		// A copy left by a previous run without symlink support.
		if err := os.RemoveAll(alias); err != nil {
			return publishErr(err, alias, target)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return publishErr(err, alias, target)
	}

	p.logger.Info(fmt.Sprintf("symlink %s -> %s", alias, rel))
	if err := os.Symlink(rel, alias); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return zerr.With(zerr.Wrap(err, domain.ErrAliasPermission.Error()), "alias", alias)
		}
		return publishErr(err, alias, target)
	}
	return nil
}

func publishErr(err error, alias, target string) error {
	wrapped := zerr.With(zerr.Wrap(err, domain.ErrAliasPublishFailed.Error()), "alias", alias)
	return zerr.With(wrapped, "target", target)
}

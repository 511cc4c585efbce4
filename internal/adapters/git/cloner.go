// Package git implements the Cloner port with go-git.
package git

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/domain"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Cloner = (*Cloner)(nil)

// Cloner clones a single branch of a repository without shelling out to git.
type Cloner struct {
	logger ports.Logger
}

// NewCloner creates a new Cloner.
func NewCloner(logger ports.Logger) *Cloner {
	return &Cloner{logger: logger}
}

// Clone checks out branch of url into dst. The repository is cloned into a
// sibling temp directory which is renamed onto dst once the checkout is complete.
func (c *Cloner) Clone(ctx context.Context, url, branch, dst string, progress io.Writer) error {
	c.logger.Info(fmt.Sprintf("cloning %s (%s) to %s", url, branch, dst))

	parent := filepath.Dir(dst)
	if err := os.MkdirAll(parent, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCloneFailed.Error()), "path", parent)
	}

	tmpDir, err := os.MkdirTemp(parent, "."+filepath.Base(dst)+"-clone-*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCloneFailed.Error()), "path", parent)
	}

	opts := &gogit.CloneOptions{
		URL:           url,
		ReferenceName: plumbing.NewBranchReferenceName(branch),
		SingleBranch:  true,
	}
	if progress != nil {
		opts.Progress = progress
	}

	if _, err := gogit.PlainCloneContext(ctx, tmpDir, false, opts); err != nil {
		_ = os.RemoveAll(tmpDir)
		cloneErr := zerr.With(zerr.Wrap(err, domain.ErrCloneFailed.Error()), "url", url)
		return zerr.With(cloneErr, "branch", branch)
	}

	if err := os.Rename(tmpDir, dst); err != nil {
		_ = os.RemoveAll(tmpDir)
		return zerr.With(zerr.Wrap(err, domain.ErrCloneFailed.Error()), "path", dst)
	}
	return nil
}

package alias

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/domain"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/ports"
)

// StampFileName records, inside a copied alias, the versioned directory it was copied from.
const StampFileName = ".ngl-alias"

var _ ports.AliasPublisher = (*CopyPublisher)(nil)

// CopyPublisher publishes aliases as full recursive copies, for platforms
// where symbolic links cannot be created.
type CopyPublisher struct {
	logger ports.Logger
}

// NewCopyPublisher creates a new CopyPublisher.
func NewCopyPublisher(logger ports.Logger) *CopyPublisher {
	return &CopyPublisher{logger: logger}
}

// Mode returns domain.AliasCopy.
func (p *CopyPublisher) Mode() domain.AliasMode {
	return domain.AliasCopy
}

// Publish copies target to alias. The copy is assembled in a sibling temp
// directory and renamed into place, so alias never holds a partial copy.
// A copy whose stamp already names target is kept.
func (p *CopyPublisher) Publish(alias, target string) error {
	stamp := filepath.Base(target)
	if current, err := os.ReadFile(filepath.Join(alias, StampFileName)); err == nil { //nolint:gosec // alias is built from the external directory
		if strings.TrimSpace(string(current)) == stamp {
			return nil
		}
	}

	p.logger.Info(fmt.Sprintf("copy %s -> %s", target, alias))

	tmpDir, err := os.MkdirTemp(filepath.Dir(alias), "."+filepath.Base(alias)+"-copy-*")
	if err != nil {
		return publishErr(err, alias, target)
	}
	cleanup := func() {
		_ = os.RemoveAll(tmpDir)
	}

	if err := copyTree(target, tmpDir); err != nil {
		cleanup()
		return publishErr(err, alias, target)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, StampFileName), []byte(stamp+"\n"), domain.FilePerm); err != nil {
		cleanup()
		return publishErr(err, alias, target)
	}

	if err := os.RemoveAll(alias); err != nil && !errors.Is(err, fs.ErrNotExist) {
		cleanup()
		return publishErr(err, alias, target)
	}
	if err := os.Rename(tmpDir, alias); err != nil {
		cleanup()
		return publishErr(err, alias, target)
	}
	return nil
}

// copyTree copies the content of src into the existing directory dst.
// Symbolic links are replaced by the file they point to.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		out := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			return os.MkdirAll(out, domain.DirPerm)
		case d.Type()&fs.ModeSymlink != 0:
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				// Dangling links and links to directories are not reproduced.
				return nil //nolint:nilerr // skipped on purpose
			}
			return copyFile(path, out, info.Mode())
		default:
			info, err := d.Info()
			if err != nil {
				return err
			}
			return copyFile(path, out, info.Mode())
		}
	})
}

func copyFile(src, dst string, mode fs.FileMode) error {
	in, err := os.Open(src) //nolint:gosec // src is walked from the extraction directory
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm()|0o600) //nolint:gosec // dst is below the temp copy directory
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

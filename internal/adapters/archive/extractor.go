// Package archive implements the Extractor port for tar, tar.gz, tar.xz, tar.bz2 and zip archives.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/domain"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Extractor = (*Extractor)(nil)

// Extractor implements ports.Extractor.
type Extractor struct {
	logger ports.Logger
}

// NewExtractor creates a new Extractor.
func NewExtractor(logger ports.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// BaseDir returns the single top-level directory of the archive.
func (x *Extractor) BaseDir(archive string) (string, error) {
	var (
		members []string
		dirs    []bool
	)
	err := walk(archive, func(e entry, _ io.Reader) error {
		members = append(members, e.name)
		dirs = append(dirs, e.typ == entryDir)
		return nil
	})
	if err != nil {
		return "", err
	}

	base, err := domain.GuessBaseDir(domain.MemberDirs(members, func(i int) bool { return dirs[i] }))
	if err != nil {
		return "", zerr.With(err, "archive", archive)
	}
	return base, nil
}

// Extract unpacks every member of the archive below dstDir.
// Members resolving outside dstDir are rejected, as are members reached
// through a symlink extracted earlier from the same archive.
func (x *Extractor) Extract(ctx context.Context, archive, dstDir string) error {
	x.logger.Info(fmt.Sprintf("extracting %s to %s", archive, dstDir))

	if err := os.MkdirAll(dstDir, domain.DirPerm); err != nil {
		return wrapExtractErr(err, archive)
	}
	root, err := os.OpenRoot(dstDir)
	if err != nil {
		return wrapExtractErr(err, archive)
	}
	defer func() {
		_ = root.Close()
	}()

	ex := &extraction{root: root, links: make(map[string]struct{})}
	return walk(archive, func(e entry, r io.Reader) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return ex.extract(e, r)
	})
}

// extraction writes members through an os.Root, so no write can leave the
// destination even when links on disk point elsewhere.
type extraction struct {
	root  *os.Root
	links map[string]struct{}
}

func (ex *extraction) extract(e entry, r io.Reader) error {
	name, err := ex.memberPath(e.name)
	if err != nil {
		return err
	}
	if name == "." {
		return nil
	}

	switch e.typ {
	case entryDir:
		if _, ok := ex.links[name]; ok {
			return zerr.With(domain.ErrUnsafeArchivePath, "member", e.name)
		}
		return ex.wrap(ex.root.MkdirAll(name, domain.DirPerm), e.name)
	case entryFile:
		return ex.wrap(ex.writeFile(name, e.mode, r), e.name)
	case entrySymlink:
		target := filepath.FromSlash(e.linkname)
		// The link target is resolved relative to the directory holding the link.
		if filepath.IsAbs(target) || !filepath.IsLocal(filepath.Join(filepath.Dir(name), target)) {
			return zerr.With(domain.ErrUnsafeArchivePath, "member", e.name)
		}
		if err := ex.replace(name); err != nil {
			return ex.wrap(err, e.name)
		}
		if err := ex.root.Symlink(e.linkname, name); err != nil {
			return ex.wrap(err, e.name)
		}
		ex.links[name] = struct{}{}
		return nil
	case entryHardlink:
		source, err := ex.memberPath(e.linkname)
		if err != nil {
			return err
		}
		if err := ex.replace(name); err != nil {
			return ex.wrap(err, e.name)
		}
		return ex.wrap(ex.root.Link(source, name), e.name)
	}
	return nil
}

// memberPath cleans an archive member name into a path local to the root.
// Names whose parent directory is an extracted symlink are refused.
func (ex *extraction) memberPath(member string) (string, error) {
	name := filepath.Clean(filepath.FromSlash(strings.ReplaceAll(member, `\`, "/")))
	if filepath.IsAbs(name) || filepath.VolumeName(name) != "" || !filepath.IsLocal(name) {
		return "", zerr.With(domain.ErrUnsafeArchivePath, "member", member)
	}
	for dir := filepath.Dir(name); dir != "."; dir = filepath.Dir(dir) {
		if _, ok := ex.links[dir]; ok {
			return "", zerr.With(zerr.With(domain.ErrUnsafeArchivePath, "member", member), "symlink", filepath.ToSlash(dir))
		}
	}
	return name, nil
}

// replace creates the parent of name and removes whatever name holds, so a
// later member never writes through an earlier link.
func (ex *extraction) replace(name string) error {
	if dir := filepath.Dir(name); dir != "." {
		if err := ex.root.MkdirAll(dir, domain.DirPerm); err != nil {
			return err
		}
	}
	if err := ex.root.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	delete(ex.links, name)
	return nil
}

func (ex *extraction) writeFile(name string, mode os.FileMode, r io.Reader) error {
	if err := ex.replace(name); err != nil {
		return err
	}

	perm := mode.Perm() | 0o600
	f, err := ex.root.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil { //nolint:gosec // archives come from checksum verified downloads
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (ex *extraction) wrap(err error, member string) error {
	if err == nil {
		return nil
	}
	return zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "member", member)
}

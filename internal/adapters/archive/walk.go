package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/domain"
	"github.com/ulikunitz/xz"
	"go.trai.ch/zerr"
)

type entryType int

const (
	entryFile entryType = iota
	entryDir
	entrySymlink
	entryHardlink
)

// entry is a container independent archive member.
type entry struct {
	name     string
	typ      entryType
	mode     fs.FileMode
	linkname string
}

// visitFunc is called for every member. r yields the content of files and,
// for zip symlinks, the link target.
type visitFunc func(e entry, r io.Reader) error

// walk calls visit for every member of the archive in storage order.
func walk(path string, visit visitFunc) error {
	format, err := detectFileFormat(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "archive", path)
	}

	switch format {
	case FormatZip:
		return walkZip(path, visit)
	case FormatTar, FormatTarGzip, FormatTarXz, FormatTarBzip2:
		return walkTar(path, format, visit)
	default:
		return zerr.With(domain.ErrUnsupportedArchive, "archive", path)
	}
}

func walkTar(path string, format Format, visit visitFunc) error {
	f, err := os.Open(path) //nolint:gosec // archive path is built from the external directory
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "archive", path)
	}
	defer func() {
		_ = f.Close()
	}()

	var r io.Reader
	switch format {
	case FormatTarGzip:
		gz, err := gzip.NewReader(f)
		if err != nil {
			return wrapExtractErr(err, path)
		}
		defer func() {
			_ = gz.Close()
		}()
		r = gz
	case FormatTarXz:
		xzr, err := xz.NewReader(f)
		if err != nil {
			return wrapExtractErr(err, path)
		}
		r = xzr
	case FormatTarBzip2:
		r = bzip2.NewReader(f)
	default:
		r = f
	}

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if errors.Is(err, tar.ErrInsecurePath) {
			return zerr.With(domain.ErrUnsafeArchivePath, "member", hdr.Name)
		}
		if err != nil {
			return wrapExtractErr(err, path)
		}

		e := entry{
			name:     hdr.Name,
			mode:     hdr.FileInfo().Mode().Perm(),
			linkname: hdr.Linkname,
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			e.typ = entryDir
		case tar.TypeReg, tar.TypeRegA: //nolint:staticcheck // old archives still use TypeRegA
			e.typ = entryFile
		case tar.TypeSymlink:
			e.typ = entrySymlink
		case tar.TypeLink:
			e.typ = entryHardlink
		default:
			// pax headers, devices and fifos carry nothing to extract.
			continue
		}

		if err := visit(e, tr); err != nil {
			return err
		}
	}
}

func walkZip(path string, visit visitFunc) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return wrapExtractErr(err, path)
	}
	defer func() {
		_ = zr.Close()
	}()

	for _, zf := range zr.File {
		mode := zf.Mode()
		e := entry{name: zf.Name, mode: mode.Perm()}
		switch {
		case mode.IsDir():
			e.typ = entryDir
		case mode&fs.ModeSymlink != 0:
			e.typ = entrySymlink
		default:
			e.typ = entryFile
		}

		if err := visitZipFile(zf, e, visit); err != nil {
			return err
		}
	}
	return nil
}

func visitZipFile(zf *zip.File, e entry, visit visitFunc) error {
	if e.typ == entryDir {
		return visit(e, nil)
	}

	rc, err := zf.Open()
	if err != nil {
		return wrapExtractErr(err, zf.Name)
	}
	defer func() {
		_ = rc.Close()
	}()

	if e.typ == entrySymlink {
		target, err := io.ReadAll(rc)
		if err != nil {
			return wrapExtractErr(err, zf.Name)
		}
		e.linkname = string(target)
		return visit(e, nil)
	}
	return visit(e, rc)
}

func wrapExtractErr(err error, path string) error {
	return zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "archive", path)
}

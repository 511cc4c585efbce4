package archive

import (
	"bytes"
	"io"
	"os"
)

// Format is an archive container format.
type Format int

const (
	// FormatUnknown is returned for unrecognized content.
	FormatUnknown Format = iota
	// FormatTar is an uncompressed tarball.
	FormatTar
	// FormatTarGzip is a gzip compressed tarball.
	FormatTarGzip
	// FormatTarXz is an xz compressed tarball.
	FormatTarXz
	// FormatTarBzip2 is a bzip2 compressed tarball.
	FormatTarBzip2
	// FormatZip is a zip archive.
	FormatZip
)

func (f Format) String() string {
	switch f {
	case FormatTar:
		return "tar"
	case FormatTarGzip:
		return "tar.gz"
	case FormatTarXz:
		return "tar.xz"
	case FormatTarBzip2:
		return "tar.bz2"
	case FormatZip:
		return "zip"
	default:
		return "unknown"
	}
}

const sniffLen = 512

var (
	magicGzip  = []byte{0x1f, 0x8b}
	magicXz    = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
	magicBzip2 = []byte("BZh")
	magicZip   = []byte("PK\x03\x04")
	magicEmpty = []byte("PK\x05\x06")
	magicUstar = []byte("ustar")
)

// DetectFormat identifies the container from its leading bytes.
// File extensions are not trusted since download names are user supplied.
func DetectFormat(header []byte) Format {
	switch {
	case bytes.HasPrefix(header, magicGzip):
		return FormatTarGzip
	case bytes.HasPrefix(header, magicXz):
		return FormatTarXz
	case bytes.HasPrefix(header, magicBzip2):
		return FormatTarBzip2
	case bytes.HasPrefix(header, magicZip), bytes.HasPrefix(header, magicEmpty):
		return FormatZip
	case len(header) >= 262 && bytes.Equal(header[257:262], magicUstar):
		return FormatTar
	default:
		return FormatUnknown
	}
}

func detectFileFormat(path string) (Format, error) {
	f, err := os.Open(path) //nolint:gosec // archive path is built from the external directory
	if err != nil {
		return FormatUnknown, err
	}
	defer func() {
		_ = f.Close()
	}()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return FormatUnknown, err
	}
	return DetectFormat(buf[:n]), nil
}

package fetcher_test

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/alias"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/archive"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/cas"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/fs"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/logger"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/telemetry/progrock"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/domain"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/ports"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/ports/mocks"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/engine/fetcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// tarGz builds a tar.gz archive holding files below base.
func tarGz(t *testing.T, base string, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: base + "/", Typeflag: tar.TypeDir, Mode: 0o755}))
	for name, body := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     base + "/" + name,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(body)),
		}))
		_, err := tw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

type harness struct {
	ctrl       *gomock.Controller
	logger     *mocks.MockLogger
	downloader *mocks.MockDownloader
	cloner     *mocks.MockCloner
	layout     fetcher.Layout
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().For(gomock.Any()).Return(log).AnyTimes()

	root := t.TempDir()
	return &harness{
		ctrl:       ctrl,
		logger:     log,
		downloader: mocks.NewMockDownloader(ctrl),
		cloner:     mocks.NewMockCloner(ctrl),
		layout: fetcher.Layout{
			Root:        root,
			ExternalDir: domain.DefaultExternalPath(root),
		},
	}
}

// fetcher builds a Fetcher over real filesystem adapters. A nil extractor
// selects the archive adapter.
func (h *harness) fetcher(extractor ports.Extractor) *fetcher.Fetcher {
	if extractor == nil {
		extractor = archive.NewExtractor(h.logger)
	}
	f := fetcher.New(h.downloader, h.cloner, extractor, alias.NewSymlinkPublisher(h.logger),
		fs.NewHasher(), cas.NewStore(), progrock.New(), h.logger)
	f.SetClock(func() time.Time { return fixedNow })
	return f
}

// serve makes the downloader write data for url, times times.
func (h *harness) serve(url string, data []byte, times int) {
	h.downloader.EXPECT().
		Download(gomock.Any(), url, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, dst string) error {
			return os.WriteFile(dst, data, domain.FilePerm)
		}).
		Times(times)
}

func fooSpec(version string, digest string) domain.DependencySpec {
	return domain.DependencySpec{
		Name:    "foo",
		Version: version,
		URL:     "https://example.com/foo-@VERSION@.tar.gz",
		SHA256:  digest,
	}
}

func TestFetcher_FetchAll_Archive(t *testing.T) {
	h := newHarness(t)
	data := tarGz(t, "foo-1.0", map[string]string{"meson.build": "project('foo')\n"})
	h.serve("https://example.com/foo-1.0.tar.gz", data, 1)

	ext, err := h.fetcher(nil).FetchAll(t.Context(), h.layout, map[string]domain.DependencySpec{
		"foo": fooSpec("1.0", sum(data)),
	})
	require.NoError(t, err)

	aliasPath := filepath.Join(h.layout.ExternalDir, "foo")
	assert.Equal(t, domain.Externals{"foo": aliasPath}, ext)

	_, err = os.Stat(filepath.Join(h.layout.ExternalDir, "foo-1.0.tar.gz"))
	require.NoError(t, err)

	link, err := os.Readlink(aliasPath)
	require.NoError(t, err)
	assert.Equal(t, "foo-1.0", link)

	content, err := os.ReadFile(filepath.Join(aliasPath, "meson.build"))
	require.NoError(t, err)
	assert.Equal(t, "project('foo')\n", string(content))

	rec, err := cas.NewStore().Get(h.layout.Root, "foo")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, sum(data), rec.SHA256)
	assert.Equal(t, filepath.Join(h.layout.ExternalDir, "foo-1.0"), rec.ExtractDir)
	assert.Equal(t, domain.AliasSymlink, rec.AliasMode)
	assert.True(t, fixedNow.Equal(rec.FetchedAt))

	entries, err := os.ReadDir(h.layout.ExternalDir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"foo", "foo-1.0", "foo-1.0.tar.gz"}, names, "no temp directory left behind")
}

func TestFetcher_FetchAll_NoOpWhenUpToDate(t *testing.T) {
	h := newHarness(t)
	data := tarGz(t, "foo-1.0", map[string]string{"meson.build": "project('foo')\n"})
	specs := map[string]domain.DependencySpec{"foo": fooSpec("1.0", sum(data))}

	h.serve("https://example.com/foo-1.0.tar.gz", data, 1)
	_, err := h.fetcher(nil).FetchAll(t.Context(), h.layout, specs)
	require.NoError(t, err)

	// The second run must not touch the network nor the extractor.
	extractor := mocks.NewMockExtractor(h.ctrl)
	ext, err := h.fetcher(extractor).FetchAll(t.Context(), h.layout, specs)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(h.layout.ExternalDir, "foo"), ext["foo"])
}

func TestFetcher_Fetch_CorruptedArchiveIsDownloadedOnce(t *testing.T) {
	h := newHarness(t)
	data := tarGz(t, "foo-1.0", map[string]string{"meson.build": "project('foo')\n"})

	require.NoError(t, os.MkdirAll(h.layout.ExternalDir, domain.DirPerm))
	archivePath := filepath.Join(h.layout.ExternalDir, "foo-1.0.tar.gz")
	require.NoError(t, os.WriteFile(archivePath, []byte("truncated"), domain.FilePerm))

	h.serve("https://example.com/foo-1.0.tar.gz", data, 1)

	pkg, err := h.fetcher(nil).Fetch(t.Context(), h.layout, fooSpec("1.0", sum(data)))
	require.NoError(t, err)
	assert.Equal(t, sum(data), pkg.SHA256)
}

func TestFetcher_Fetch_LogsAttributedToDependency(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	h := newHarness(t)
	data := tarGz(t, "foo-1.0", map[string]string{"meson.build": "project('foo')\n"})

	require.NoError(t, os.MkdirAll(h.layout.ExternalDir, domain.DirPerm))
	archivePath := filepath.Join(h.layout.ExternalDir, "foo-1.0.tar.gz")
	require.NoError(t, os.WriteFile(archivePath, []byte("truncated"), domain.FilePerm))
	h.serve("https://example.com/foo-1.0.tar.gz", data, 1)

	var out bytes.Buffer
	lg := logger.New()
	lg.SetOutput(&out)
	f := fetcher.New(h.downloader, h.cloner, archive.NewExtractor(lg), alias.NewSymlinkPublisher(lg),
		fs.NewHasher(), cas.NewStore(), progrock.New(), lg)

	_, err := f.Fetch(t.Context(), h.layout, fooSpec("1.0", sum(data)))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "! [foo] checksum mismatch for foo-1.0.tar.gz, downloading again\n")
}

func TestFetcher_FetchAll_ChecksumMismatch(t *testing.T) {
	h := newHarness(t)
	data := tarGz(t, "foo-1.0", map[string]string{"meson.build": "project('foo')\n"})
	expected := sum([]byte("something else"))

	require.NoError(t, os.MkdirAll(h.layout.ExternalDir, domain.DirPerm))
	archivePath := filepath.Join(h.layout.ExternalDir, "foo-1.0.tar.gz")
	require.NoError(t, os.WriteFile(archivePath, []byte("corrupted"), domain.FilePerm))

	// Exactly one re-download, then the batch is aborted.
	h.serve("https://example.com/foo-1.0.tar.gz", data, 1)

	ext, err := h.fetcher(nil).FetchAll(t.Context(), h.layout, map[string]domain.DependencySpec{
		"foo": fooSpec("1.0", expected),
	})
	require.Error(t, err)
	assert.Nil(t, ext)
	assert.ErrorContains(t, err, domain.ErrChecksumMismatch.Error())

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	meta := zErr.Metadata()
	assert.Equal(t, expected, meta["expected"])
	assert.Equal(t, sum(data), meta["actual"])
	assert.Equal(t, archivePath, meta["file"])
	assert.Equal(t, "foo", meta["dependency"])

	_, statErr := os.Stat(filepath.Join(h.layout.ExternalDir, "foo"))
	assert.True(t, os.IsNotExist(statErr), "no alias is published for a mismatching archive")
}

func TestFetcher_FetchAll_VersionBump(t *testing.T) {
	h := newHarness(t)
	v1 := tarGz(t, "foo-1.0", map[string]string{"VERSION": "1.0"})
	v2 := tarGz(t, "foo-2.0", map[string]string{"VERSION": "2.0"})
	h.serve("https://example.com/foo-1.0.tar.gz", v1, 1)
	h.serve("https://example.com/foo-2.0.tar.gz", v2, 1)

	f := h.fetcher(nil)
	_, err := f.FetchAll(t.Context(), h.layout, map[string]domain.DependencySpec{"foo": fooSpec("1.0", sum(v1))})
	require.NoError(t, err)
	_, err = f.FetchAll(t.Context(), h.layout, map[string]domain.DependencySpec{"foo": fooSpec("2.0", sum(v2))})
	require.NoError(t, err)

	aliasPath := filepath.Join(h.layout.ExternalDir, "foo")
	link, err := os.Readlink(aliasPath)
	require.NoError(t, err)
	assert.Equal(t, "foo-2.0", link)

	old, err := os.ReadFile(filepath.Join(h.layout.ExternalDir, "foo-1.0", "VERSION"))
	require.NoError(t, err)
	assert.Equal(t, "1.0", string(old))

	current, err := os.ReadFile(filepath.Join(aliasPath, "VERSION"))
	require.NoError(t, err)
	assert.Equal(t, "2.0", string(current))
}

func TestFetcher_Fetch_WithoutChecksum(t *testing.T) {
	h := newHarness(t)
	data := tarGz(t, "bar-0.1", map[string]string{"README": "bar"})
	spec := domain.DependencySpec{Name: "bar", Version: "0.1", URL: "https://example.com/bar-@VERSION@.tar.gz"}

	h.serve("https://example.com/bar-0.1.tar.gz", data, 1)

	f := h.fetcher(nil)
	_, err := f.Fetch(t.Context(), h.layout, spec)
	require.NoError(t, err)

	// Present archives without checksum are trusted.
	pkg, err := f.Fetch(t.Context(), h.layout, spec)
	require.NoError(t, err)
	assert.Equal(t, sum(data), pkg.SHA256)
}

func TestFetcher_Fetch_Git(t *testing.T) {
	h := newHarness(t)
	spec := domain.DependencySpec{Name: "ngfx", URL: "https://github.com/gopro/ngfx.git"}
	dst := filepath.Join(h.layout.ExternalDir, "ngfx")

	h.cloner.EXPECT().
		Clone(gomock.Any(), "https://github.com/gopro/ngfx.git", "main", dst, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, dst string, _ io.Writer) error {
			return os.MkdirAll(dst, domain.DirPerm)
		}).
		Times(1)

	f := h.fetcher(nil)
	pkg, err := f.Fetch(t.Context(), h.layout, spec)
	require.NoError(t, err)
	assert.Equal(t, dst, pkg.Path)
	assert.Equal(t, domain.AliasNone, pkg.AliasMode)

	// An existing checkout is never cloned nor pulled again.
	pkg, err = f.Fetch(t.Context(), h.layout, spec)
	require.NoError(t, err)
	assert.Equal(t, dst, pkg.Path)
}

func TestFetcher_FetchAll_FailFast(t *testing.T) {
	h := newHarness(t)
	good := tarGz(t, "foo-1.0", map[string]string{"README": "foo"})

	h.downloader.EXPECT().
		Download(gomock.Any(), "https://example.com/broken.tar.gz", gomock.Any()).
		Return(zerr.With(domain.ErrNetwork, "status_code", 503))
	h.downloader.EXPECT().
		Download(gomock.Any(), "https://example.com/foo-1.0.tar.gz", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, dst string) error {
			return os.WriteFile(dst, good, domain.FilePerm)
		}).
		MaxTimes(1)

	f := h.fetcher(nil)
	f.SetParallelism(1)

	ext, err := f.FetchAll(t.Context(), h.layout, map[string]domain.DependencySpec{
		"broken": {Name: "broken", URL: "https://example.com/broken.tar.gz"},
		"foo":    fooSpec("1.0", sum(good)),
	})
	require.Error(t, err)
	assert.Nil(t, ext)
	assert.ErrorContains(t, err, domain.ErrNetwork.Error())

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "broken", zErr.Metadata()["dependency"])
}

func TestFetcher_Fetch_InvalidSpec(t *testing.T) {
	h := newHarness(t)
	_, err := h.fetcher(nil).Fetch(t.Context(), h.layout, domain.DependencySpec{Name: "foo"})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInvalidDependency.Error())
}

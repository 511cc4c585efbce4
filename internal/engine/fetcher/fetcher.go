// Package fetcher resolves dependency specs into verified local directories.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/domain"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Layout locates the directories a fetch writes to.
type Layout struct {
	// Root is the project root holding the fetch state store.
	Root string
	// ExternalDir receives archives, extraction directories, clones and aliases.
	ExternalDir string
}

// Fetcher downloads, verifies, extracts and publishes external dependencies.
type Fetcher struct {
	downloader ports.Downloader
	cloner     ports.Cloner
	extractor  ports.Extractor
	publisher  ports.AliasPublisher
	hasher     ports.Hasher
	store      ports.FetchStore
	telemetry  ports.Telemetry
	logger     ports.Logger

	parallelism int
	now         func() time.Time
}

// New creates a new Fetcher running up to runtime.NumCPU fetches at once.
func New(
	downloader ports.Downloader,
	cloner ports.Cloner,
	extractor ports.Extractor,
	publisher ports.AliasPublisher,
	hasher ports.Hasher,
	store ports.FetchStore,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Fetcher {
	return &Fetcher{
		downloader:  downloader,
		cloner:      cloner,
		extractor:   extractor,
		publisher:   publisher,
		hasher:      hasher,
		store:       store,
		telemetry:   telemetry,
		logger:      logger,
		parallelism: runtime.NumCPU(),
		now:         time.Now,
	}
}

// FetchAll fetches every spec concurrently and returns the directory of each
// dependency. The first failure cancels the remaining fetches and no partial
// result is returned.
func (f *Fetcher) FetchAll(ctx context.Context, layout Layout, specs map[string]domain.DependencySpec) (domain.Externals, error) {
	if err := os.MkdirAll(layout.ExternalDir, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFetchFailed.Error()), "path", layout.ExternalDir)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(f.parallelism, 1))

	var mu sync.Mutex
	result := make(domain.Externals, len(specs))

	for _, name := range slices.Sorted(maps.Keys(specs)) {
		spec := specs[name]
		if spec.Name == "" {
			spec.Name = name
		}
		g.Go(func() error {
			pkg, err := f.Fetch(gctx, layout, spec)
			if err != nil {
				return zerr.With(err, "dependency", name)
			}
			mu.Lock()
			result[name] = pkg.Path
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// Fetch materializes a single dependency and records it in the fetch state store.
func (f *Fetcher) Fetch(ctx context.Context, layout Layout, spec domain.DependencySpec) (pkg domain.FetchedPackage, err error) {
	if err := spec.Validate(); err != nil {
		return domain.FetchedPackage{}, err
	}

	ctx, vertex := f.telemetry.Record(ctx, "fetch "+spec.Name)
	defer func() {
		vertex.Complete(err)
	}()

	var cached bool
	switch spec.EffectiveKind() {
	case domain.KindGit:
		pkg, cached, err = f.fetchGit(ctx, layout, spec, vertex)
	default:
		pkg, cached, err = f.fetchArchive(ctx, layout, spec, vertex)
	}
	if err != nil {
		return domain.FetchedPackage{}, err
	}
	if cached {
		vertex.Cached()
	}

	pkg.FetchedAt = f.now().UTC()
	if err := f.store.Put(layout.Root, pkg); err != nil {
		return domain.FetchedPackage{}, err
	}
	return pkg, nil
}

// fetchGit clones the pinned branch once. An existing checkout is never updated.
func (f *Fetcher) fetchGit(ctx context.Context, layout Layout, spec domain.DependencySpec, vertex ports.Vertex) (domain.FetchedPackage, bool, error) {
	dst := filepath.Join(layout.ExternalDir, spec.ResolvedDstFile())
	pkg := domain.FetchedPackage{
		Name:      spec.Name,
		Version:   spec.Version,
		Kind:      domain.KindGit,
		URL:       spec.ResolvedURL(),
		Path:      dst,
		AliasMode: domain.AliasNone,
	}

	exists, err := pathExists(dst)
	if err != nil {
		return pkg, false, zerr.With(zerr.Wrap(err, domain.ErrCloneFailed.Error()), "path", dst)
	}
	if exists {
		f.logger.For(spec.Name).Info("already cloned in " + dst)
		return pkg, true, nil
	}

	if err := f.cloner.Clone(ctx, pkg.URL, spec.GitBranch(), dst, vertex.Stderr()); err != nil {
		return pkg, false, err
	}
	return pkg, false, nil
}

// fetchArchive downloads, verifies, extracts and publishes an archive.
func (f *Fetcher) fetchArchive(ctx context.Context, layout Layout, spec domain.DependencySpec, vertex ports.Vertex) (domain.FetchedPackage, bool, error) {
	archive := filepath.Join(layout.ExternalDir, spec.ResolvedDstFile())
	pkg := domain.FetchedPackage{
		Name:    spec.Name,
		Version: spec.Version,
		Kind:    domain.KindArchive,
		URL:     spec.ResolvedURL(),
		Archive: archive,
	}

	digest, downloaded, err := f.ensureArchive(ctx, spec, archive, vertex)
	if err != nil {
		return pkg, false, err
	}
	pkg.SHA256 = digest

	extractDir, extracted, err := f.ensureExtracted(ctx, layout, spec.Name, archive, digest, vertex)
	if err != nil {
		return pkg, false, err
	}
	pkg.ExtractDir = extractDir

	aliasPath := filepath.Join(layout.ExternalDir, spec.Name)
	if aliasPath == extractDir {
		pkg.Path = extractDir
		pkg.AliasMode = domain.AliasNone
	} else {
		if err := f.publisher.Publish(aliasPath, extractDir); err != nil {
			return pkg, false, err
		}
		pkg.Path = aliasPath
		pkg.AliasMode = f.publisher.Mode()
	}

	return pkg, !downloaded && !extracted, nil
}

// ensureArchive makes sure the archive is present and matches its checksum.
// A missing or mismatching archive is downloaded once. It returns the digest
// of the archive and whether it was downloaded.
func (f *Fetcher) ensureArchive(ctx context.Context, spec domain.DependencySpec, archive string, vertex ports.Vertex) (string, bool, error) {
	exists, err := pathExists(archive)
	if err != nil {
		return "", false, zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "file", archive)
	}

	if exists {
		digest, err := f.hasher.SHA256File(archive)
		if err != nil {
			return "", false, err
		}
		if spec.SHA256 == "" || strings.EqualFold(digest, spec.SHA256) {
			return digest, false, nil
		}
		f.logger.For(spec.Name).Warn(fmt.Sprintf("checksum mismatch for %s, downloading again", filepath.Base(archive)))
	}

	_, _ = fmt.Fprintf(vertex.Stdout(), "downloading %s\n", spec.ResolvedURL())
	if err := f.downloader.Download(ctx, spec.ResolvedURL(), archive); err != nil {
		return "", false, err
	}

	digest, err := f.hasher.SHA256File(archive)
	if err != nil {
		return "", false, err
	}
	if spec.SHA256 != "" && !strings.EqualFold(digest, spec.SHA256) {
		mismatch := zerr.With(domain.ErrChecksumMismatch, "expected", strings.ToLower(spec.SHA256))
		mismatch = zerr.With(mismatch, "actual", digest)
		return "", false, zerr.With(mismatch, "file", archive)
	}
	return digest, true, nil
}

// ensureExtracted makes sure the archive is extracted in its versioned
// directory. The directory only appears once extraction finished, it is
// extracted in a temp directory and renamed into place.
func (f *Fetcher) ensureExtracted(
	ctx context.Context,
	layout Layout,
	name, archive, digest string,
	vertex ports.Vertex,
) (string, bool, error) {
	extractDir, err := f.resolveExtractDir(layout, name, archive, digest)
	if err != nil {
		return "", false, err
	}

	exists, err := pathExists(extractDir)
	if err != nil {
		return "", false, zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "path", extractDir)
	}
	if exists {
		return extractDir, false, nil
	}

	_, _ = fmt.Fprintf(vertex.Stdout(), "extracting %s\n", filepath.Base(archive))
	tmpDir, err := os.MkdirTemp(layout.ExternalDir, "."+name+"-extract-*")
	if err != nil {
		return "", false, zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "path", layout.ExternalDir)
	}
	defer func() {
		_ = os.RemoveAll(tmpDir)
	}()

	if err := f.extractor.Extract(ctx, archive, tmpDir); err != nil {
		return "", false, err
	}
	if err := os.Rename(filepath.Join(tmpDir, filepath.Base(extractDir)), extractDir); err != nil {
		return "", false, zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "path", extractDir)
	}
	return extractDir, true, nil
}

// resolveExtractDir returns the versioned extraction directory of an archive.
// The previous fetch record is reused when it describes the same archive,
// which avoids scanning the archive again.
func (f *Fetcher) resolveExtractDir(layout Layout, name, archive, digest string) (string, error) {
	rec, err := f.store.Get(layout.Root, name)
	if err != nil {
		return "", err
	}
	if rec != nil && rec.Archive == archive && rec.SHA256 == digest && rec.ExtractDir != "" {
		return rec.ExtractDir, nil
	}

	base, err := f.extractor.BaseDir(archive)
	if err != nil {
		return "", err
	}
	return filepath.Join(layout.ExternalDir, base), nil
}

func pathExists(p string) (bool, error) {
	_, err := os.Stat(p)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/fs"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/app"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/domain"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/ports/mocks"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/engine/catalog"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/engine/fetcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeFetcher struct {
	layout fetcher.Layout
	specs  map[string]domain.DependencySpec
	err    error
	calls  int
}

func (f *fakeFetcher) FetchAll(_ context.Context, layout fetcher.Layout, specs map[string]domain.DependencySpec) (domain.Externals, error) {
	f.calls++
	f.layout = layout
	f.specs = specs
	if f.err != nil {
		return nil, f.err
	}
	ext := make(domain.Externals, len(specs))
	for name := range specs {
		ext[name] = filepath.Join(layout.ExternalDir, name)
	}
	return ext, nil
}

type harness struct {
	root     string
	loader   *mocks.MockConfigLoader
	env      *mocks.MockEnvironment
	executor *mocks.MockExecutor
	store    *mocks.MockFetchStore
	logger   *mocks.MockLogger
	fetcher  *fakeFetcher
	app      *app.App
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	h := &harness{
		root:     t.TempDir(),
		loader:   mocks.NewMockConfigLoader(ctrl),
		env:      mocks.NewMockEnvironment(ctrl),
		executor: mocks.NewMockExecutor(ctrl),
		store:    mocks.NewMockFetchStore(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		fetcher:  &fakeFetcher{},
	}
	h.app = app.New(h.loader, h.env, h.fetcher, h.executor, fs.NewHasher(), h.store, h.logger)
	return h
}

func (h *harness) noOverrides() {
	h.env.EXPECT().Lookup(gomock.Any()).Return("", false).AnyTimes()
}

func (h *harness) options() app.Options {
	return app.Options{Root: h.root, System: "Linux"}
}

func TestApp_Configure_WritesMakefile(t *testing.T) {
	h := newHarness(t)
	h.noOverrides()
	h.loader.EXPECT().Load(h.root).Return(&domain.Manifest{}, nil)
	makefile := filepath.Join(h.root, "Makefile")
	h.logger.EXPECT().Info("writing " + makefile)

	err := h.app.Configure(t.Context(), app.ConfigureOptions{Options: h.options(), SkipVenv: true})
	require.NoError(t, err)

	assert.Equal(t, fetcher.Layout{Root: h.root, ExternalDir: filepath.Join(h.root, "external")}, h.fetcher.layout)
	assert.Equal(t, []string{"sxplayer"}, keys(h.fetcher.specs))

	data, err := os.ReadFile(makefile)
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.HasPrefix(out, "BUILDDIR = builddir\n"))
	assert.Contains(t, out, "sxplayer-setup:\n\t$(MESON_SETUP) "+filepath.Join(h.root, "external", "sxplayer"))
	assert.Contains(t, out, "export EXTERNAL_DIR := "+filepath.Join(h.root, "external")+"\n")
	assert.True(t, strings.HasSuffix(out, " ngl-debug-tools-install\n"))
}

func TestApp_Configure_UnchangedMakefileIsKept(t *testing.T) {
	h := newHarness(t)
	h.noOverrides()
	h.loader.EXPECT().Load(h.root).Return(&domain.Manifest{}, nil).Times(2)
	makefile := filepath.Join(h.root, "Makefile")

	gomock.InOrder(
		h.logger.EXPECT().Info("writing "+makefile),
		h.logger.EXPECT().Info(makefile+" is up to date"),
	)

	opts := app.ConfigureOptions{Options: h.options(), SkipVenv: true}
	require.NoError(t, h.app.Configure(t.Context(), opts))
	first, err := os.Stat(makefile)
	require.NoError(t, err)

	require.NoError(t, h.app.Configure(t.Context(), opts))
	second, err := os.Stat(makefile)
	require.NoError(t, err)
	assert.Equal(t, first.ModTime(), second.ModTime())
}

func TestApp_Configure_FetchFailureWritesNothing(t *testing.T) {
	h := newHarness(t)
	h.noOverrides()
	h.loader.EXPECT().Load(h.root).Return(&domain.Manifest{}, nil)
	h.fetcher.err = errors.New("connection reset")

	err := h.app.Configure(t.Context(), app.ConfigureOptions{Options: h.options(), SkipVenv: true})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrFetchFailed.Error())

	_, statErr := os.Stat(filepath.Join(h.root, "Makefile"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestApp_Configure_EnvironmentOverrides(t *testing.T) {
	h := newHarness(t)
	h.env.EXPECT().Lookup("BUILDDIR").Return("out", true)
	h.env.EXPECT().Lookup("CMAKE_GENERATOR").Return("Unix Makefiles", true)
	h.env.EXPECT().Lookup(gomock.Any()).Return("", false).AnyTimes()
	h.loader.EXPECT().Load(h.root).Return(&domain.Manifest{ExternalDir: filepath.Join(h.root, "deps")}, nil)
	h.logger.EXPECT().Info(gomock.Any())

	output := filepath.Join(h.root, "build", "Makefile")
	err := h.app.Configure(t.Context(), app.ConfigureOptions{Options: h.options(), SkipVenv: true, Output: output})
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "BUILDDIR = out\n")
	assert.Contains(t, string(data), "CMAKE_GENERATOR = Unix Makefiles\n")
	assert.Equal(t, filepath.Join(h.root, "deps"), h.fetcher.layout.ExternalDir)
}

func TestApp_Configure_BootstrapsVenv(t *testing.T) {
	h := newHarness(t)
	h.noOverrides()
	h.loader.EXPECT().Load(h.root).Return(&domain.Manifest{}, nil)
	venv := filepath.Join(h.root, "venv")

	gomock.InOrder(
		h.executor.EXPECT().Execute(gomock.Any(), []string{"python3", "-m", "venv", "--prompt", "nodegl", venv}, nil).Return(nil),
		h.executor.EXPECT().Execute(gomock.Any(), []string{filepath.Join(venv, "bin", "python"), "-m", "pip", "install", "meson", "ninja"}, nil).Return(nil),
	)
	h.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	err := h.app.Configure(t.Context(), app.ConfigureOptions{Options: h.options()})
	require.NoError(t, err)
}

func TestApp_Configure_ExistingVenv(t *testing.T) {
	h := newHarness(t)
	h.noOverrides()
	h.loader.EXPECT().Load(h.root).Return(&domain.Manifest{}, nil)
	venv := filepath.Join(h.root, "venv")
	require.NoError(t, os.Mkdir(venv, 0o750))

	h.logger.EXPECT().Warn("Python virtual env already exists at " + venv)
	h.logger.EXPECT().Info(gomock.Any())

	err := h.app.Configure(t.Context(), app.ConfigureOptions{Options: h.options()})
	require.NoError(t, err)
}

func TestApp_Configure_VenvFailure(t *testing.T) {
	h := newHarness(t)
	h.noOverrides()
	h.loader.EXPECT().Load(h.root).Return(&domain.Manifest{}, nil)
	h.logger.EXPECT().Info(gomock.Any())
	h.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), nil).Return(domain.ErrCommandFailed)

	err := h.app.Configure(t.Context(), app.ConfigureOptions{Options: h.options()})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrVenvCreateFailed.Error())
	assert.Zero(t, h.fetcher.calls)
}

func TestApp_Resolve_InvalidOptions(t *testing.T) {
	h := newHarness(t)
	h.noOverrides()

	_, err := h.app.Blocks(t.Context(), app.Options{Root: h.root, System: "Plan9"})
	assert.ErrorContains(t, err, domain.ErrUnknownSystem.Error())

	h.loader.EXPECT().Load(h.root).Return(&domain.Manifest{}, nil)
	opts := h.options()
	opts.DebugOpts = []string{"trace"}
	_, err = h.app.Blocks(t.Context(), opts)
	assert.ErrorContains(t, err, domain.ErrInvalidDebugOption.Error())
}

func TestApp_Blocks(t *testing.T) {
	h := newHarness(t)
	h.noOverrides()
	h.loader.EXPECT().Load(h.root).Return(&domain.Manifest{}, nil).Times(2)

	opts := h.options()
	opts.Targets = []string{"nodegl-install"}
	names, err := h.app.Blocks(t.Context(), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"sxplayer-setup", "sxplayer-install", "nodegl-setup", "nodegl-install"}, names)
	assert.Zero(t, h.fetcher.calls)

	opts.Targets = []string{"nodegl-instal"}
	_, err = h.app.Blocks(t.Context(), opts)
	assert.ErrorContains(t, err, domain.ErrBlockNotFound.Error())
}

func TestApp_Fetch(t *testing.T) {
	h := newHarness(t)
	h.noOverrides()
	h.loader.EXPECT().Load(h.root).Return(&domain.Manifest{}, nil)

	opts := h.options()
	opts.System = "Darwin"
	ext, err := h.app.Fetch(t.Context(), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"moltenvk", "shaderc", "sxplayer"}, keys(ext))
}

func TestApp_Status(t *testing.T) {
	h := newHarness(t)
	h.noOverrides()

	extra := domain.DependencySpec{Name: "extra", URL: "https://example.com/extra.git"}
	h.loader.EXPECT().Load(h.root).Return(&domain.Manifest{Dependencies: map[string]domain.DependencySpec{
		"extra": extra,
	}}, nil).Times(2)

	sxplayer := catalog.DefaultDependencies()["sxplayer"]
	alias := filepath.Join(h.root, "external", "sxplayer")
	require.NoError(t, os.MkdirAll(alias, 0o750))

	rec := domain.FetchedPackage{
		Name:    "sxplayer",
		Version: sxplayer.Version,
		URL:     sxplayer.ResolvedURL(),
		Path:    alias,
		SHA256:  strings.ToUpper(sxplayer.SHA256),
	}
	leftover := domain.FetchedPackage{
		Name:    "moltenvk",
		Version: "1.1.3",
		Path:    filepath.Join(h.root, "external", "moltenvk"),
	}
	h.store.EXPECT().List(h.root).Return([]domain.FetchedPackage{leftover, rec}, nil)

	statuses, err := h.app.Status(t.Context(), h.options())
	require.NoError(t, err)
	require.Len(t, statuses, 3)
	assert.Equal(t, app.DependencyStatus{Name: "extra", State: app.StateMissing}, statuses[0])
	assert.Equal(t, app.StateOK, statuses[1].State)
	assert.Equal(t, "9.9.0", statuses[1].FetchedVersion)
	assert.Equal(t, app.DependencyStatus{
		Name:           "moltenvk",
		FetchedVersion: "1.1.3",
		Path:           leftover.Path,
		State:          app.StateUnused,
	}, statuses[2])

	stale := rec
	stale.Version = "9.8.0"
	h.store.EXPECT().List(h.root).Return([]domain.FetchedPackage{stale}, nil)
	statuses, err = h.app.Status(t.Context(), h.options())
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, app.StateStale, statuses[1].State)
}

func TestApp_Clean(t *testing.T) {
	h := newHarness(t)
	h.loader.EXPECT().Load(h.root).Return(&domain.Manifest{}, nil)
	h.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	external := filepath.Join(h.root, "external", "sxplayer-9.9.0")
	state := filepath.Join(h.root, ".ngl-env", "store")
	require.NoError(t, os.MkdirAll(external, 0o750))
	require.NoError(t, os.MkdirAll(state, 0o750))

	require.NoError(t, h.app.Clean(t.Context(), app.CleanOptions{Root: h.root, State: true}))
	assert.NoDirExists(t, filepath.Join(h.root, ".ngl-env"))
	assert.DirExists(t, external)

	require.NoError(t, h.app.Clean(t.Context(), app.CleanOptions{Root: h.root, Externals: true}))
	assert.NoDirExists(t, filepath.Join(h.root, "external"))
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Package app implements the application layer for ngl-env.
package app

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mitchellh/go-homedir"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/domain"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/ports"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/engine/fetcher"
	"go.trai.ch/zerr"
)

// PackageFetcher materializes external dependencies.
type PackageFetcher interface {
	FetchAll(ctx context.Context, layout fetcher.Layout, specs map[string]domain.DependencySpec) (domain.Externals, error)
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	env          ports.Environment
	fetcher      PackageFetcher
	executor     ports.Executor
	hasher       ports.Hasher
	store        ports.FetchStore
	logger       ports.Logger
	isDebian     func() bool
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	env ports.Environment,
	f PackageFetcher,
	executor ports.Executor,
	hasher ports.Hasher,
	store ports.FetchStore,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		env:          env,
		fetcher:      f,
		executor:     executor,
		hasher:       hasher,
		store:        store,
		logger:       log,
		isDebian:     hostIsDebian,
	}
}

// Options are the build options shared by every command.
type Options struct {
	Root         string
	VenvPath     string
	System       string
	BuildType    string
	Coverage     bool
	DebugOpts    []string
	BuildBackend string
	Verbose      bool
	VcpkgDir     string
	EnableNGFX   bool
	Targets      []string
}

// session is a resolved configuration and its manifest.
type session struct {
	cfg      *domain.BuildConfig
	manifest *domain.Manifest
}

func (s session) layout() fetcher.Layout {
	return fetcher.Layout{Root: s.cfg.RootDir, ExternalDir: s.cfg.ExternalDir}
}

// resolve turns the options, the manifest and the environment overrides
// into a validated BuildConfig.
func (a *App) resolve(opts Options) (session, error) {
	root, err := absPath(opts.Root, ".")
	if err != nil {
		return session{}, err
	}

	system := domain.CurrentSystem()
	if opts.System != "" {
		if system, err = domain.ParseSystem(opts.System); err != nil {
			return session{}, err
		}
	}

	manifest, err := a.configLoader.Load(root)
	if err != nil {
		return session{}, zerr.Wrap(err, "failed to load manifest")
	}

	venv, err := absPath(opts.VenvPath, domain.DefaultVenvPath(root))
	if err != nil {
		return session{}, err
	}

	cfg := &domain.BuildConfig{
		System:       system,
		RootDir:      root,
		ExternalDir:  domain.DefaultExternalPath(root),
		VenvPath:     venv,
		Prefix:       venv,
		BuildType:    opts.BuildType,
		Coverage:     opts.Coverage,
		DebugOpts:    opts.DebugOpts,
		BuildBackend: opts.BuildBackend,
		Verbose:      opts.Verbose,
		EnableNGFX:   opts.EnableNGFX,
		Jobs:         runtime.NumCPU() + 1,
	}
	if manifest.ExternalDir != "" {
		cfg.ExternalDir = manifest.ExternalDir
	}
	if cfg.BuildType == "" {
		cfg.BuildType = domain.BuildTypeRelease
	}
	if cfg.BuildBackend == "" {
		cfg.BuildBackend = domain.DefaultBuildBackend(system)
	}

	// The ':' of a drive letter breaks ':' separated PATH lists on MinGW.
	if system == domain.SystemMinGW {
		cfg.Prefix = domain.MinGWPath(venv)
	}

	if system.IsWindows() {
		cfg.VcpkgDir = domain.DefaultVcpkgDir
		if opts.VcpkgDir != "" {
			if cfg.VcpkgDir, err = homedir.Expand(opts.VcpkgDir); err != nil {
				return session{}, err
			}
		}
	} else {
		cfg.Debian = a.isDebian()
	}

	cfg.BuildDir = a.lookupEnv("BUILDDIR", domain.DefaultBuildDir)
	cfg.CMakeGenerator = a.lookupEnv("CMAKE_GENERATOR", domain.DefaultCMakeGenerator(system))
	cfg.CMakeSystemVersion = a.lookupEnv("CMAKE_SYSTEM_VERSION", domain.DefaultCMakeSystemVersion)
	if cfg.EnableNGFX {
		cfg.NGFXGraphicsBackend = a.lookupEnv("NGFX_GRAPHICS_BACKEND", domain.DefaultNGFXGraphicsBackend(system))
	}

	if err := cfg.Validate(); err != nil {
		return session{}, err
	}
	return session{cfg: cfg, manifest: manifest}, nil
}

func (a *App) lookupEnv(key, fallback string) string {
	if v, ok := a.env.Lookup(key); ok {
		return v
	}
	return fallback
}

// absPath expands ~ and makes p absolute. An empty p selects fallback.
func absPath(p, fallback string) (string, error) {
	if p == "" {
		p = fallback
	}
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to expand path"), "path", p)
	}
	return filepath.Abs(expanded)
}

// hostIsDebian detects Debian based distributions, whose meson default
// libdir breaks the rpath of installed libraries.
func hostIsDebian() bool {
	info, err := os.Stat("/etc/debian_version")
	return err == nil && info.Mode().IsRegular()
}

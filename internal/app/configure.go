package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/fs" //nolint:depguard // Atomic writes are shared infrastructure
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/domain"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/engine/catalog"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/engine/emitter"
	"go.trai.ch/zerr"
)

// ConfigureOptions configuration for the Configure method.
type ConfigureOptions struct {
	Options
	// SkipVenv disables the Python virtual environment bootstrap.
	SkipVenv bool
	// Output is the build script path, <root>/Makefile by default.
	Output string
}

// Configure bootstraps the virtual environment, fetches the external
// dependencies and writes the build script. Nothing is written when a
// fetch fails.
func (a *App) Configure(ctx context.Context, opts ConfigureOptions) error {
	s, err := a.resolve(opts.Options)
	if err != nil {
		return err
	}

	output, err := absPath(opts.Output, domain.DefaultMakefilePath(s.cfg.RootDir))
	if err != nil {
		return err
	}

	if !opts.SkipVenv {
		if err := a.bootstrapVenv(ctx, s.cfg); err != nil {
			return err
		}
		if s.cfg.System.IsWindows() {
			a.copyVcpkgRuntime(s.cfg)
		}
	}

	ext, err := a.fetchAll(ctx, s)
	if err != nil {
		return err
	}

	script, err := a.render(s.cfg, opts.Targets, ext)
	if err != nil {
		return err
	}

	return a.writeScript(output, []byte(script))
}

func (a *App) fetchAll(ctx context.Context, s session) (domain.Externals, error) {
	specs, err := catalog.Dependencies(s.cfg, s.manifest)
	if err != nil {
		return nil, err
	}
	ext, err := a.fetcher.FetchAll(ctx, s.layout(), specs)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrFetchFailed.Error())
	}
	return ext, nil
}

func (a *App) render(cfg *domain.BuildConfig, targets []string, ext domain.Externals) (string, error) {
	cat, err := catalog.New(cfg)
	if err != nil {
		return "", err
	}
	roots, err := cat.Select(targets)
	if err != nil {
		return "", err
	}
	flat, err := cat.Flatten(roots, ext)
	if err != nil {
		return "", err
	}
	vars, err := cat.Variables()
	if err != nil {
		return "", err
	}
	return emitter.New(cfg.System).Emit(flat, vars, cat.Environment())
}

// writeScript replaces the build script unless its content is unchanged,
// so make does not see a new timestamp on every configure.
func (a *App) writeScript(path string, data []byte) error {
	current, err := a.hasher.FingerprintFile(path)
	if err != nil {
		return zerr.Wrap(err, domain.ErrScriptWriteFailed.Error())
	}
	if current != "" && current == a.hasher.Fingerprint(data) {
		a.logger.Info(fmt.Sprintf("%s is up to date", path))
		return nil
	}

	a.logger.Info(fmt.Sprintf("writing %s", path))
	if err := fs.WriteFileAtomic(path, data); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrScriptWriteFailed.Error()), "path", path)
	}
	return nil
}

// bootstrapVenv creates the Python virtual environment and installs the
// build tools in it. An existing environment is left untouched.
func (a *App) bootstrapVenv(ctx context.Context, cfg *domain.BuildConfig) error {
	if _, err := os.Stat(cfg.VenvPath); err == nil {
		a.logger.Warn(fmt.Sprintf("Python virtual env already exists at %s", cfg.VenvPath))
		return nil
	}

	python := "python3"
	if cfg.System.IsWindows() {
		python = "python"
	}
	args := []string{python, "-m", "venv", "--prompt", "nodegl"}
	// MinGW relies on system packages that cannot be installed with pip.
	if cfg.System == domain.SystemMinGW {
		args = append(args, "--system-site-packages")
	}
	args = append(args, cfg.VenvPath)

	a.logger.Info(fmt.Sprintf("creating Python virtualenv: %s", cfg.VenvPath))
	if err := a.executor.Execute(ctx, args, nil); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrVenvCreateFailed.Error()), "path", cfg.VenvPath)
	}

	if cfg.System == domain.SystemMinGW {
		return nil
	}

	pip := []string{
		filepath.Join(cfg.VenvPath, cfg.System.BinDirName(), "python"),
		"-m", "pip", "install", "meson", "ninja",
	}
	a.logger.Info(fmt.Sprintf("install build dependencies: %v", pip))
	if err := a.executor.Execute(ctx, pip, nil); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrVenvCreateFailed.Error()), "path", cfg.VenvPath)
	}
	return nil
}

// copyVcpkgRuntime copies the vcpkg DLLs next to the venv executables.
// Failures are logged since the build can still find them through PATH.
func (a *App) copyVcpkgRuntime(cfg *domain.BuildConfig) {
	installed := filepath.Join(cfg.VcpkgDir, "installed", "x64-windows")
	dlls, err := filepath.Glob(filepath.Join(installed, "bin", "*.dll"))
	if err != nil {
		a.logger.Error(err)
		return
	}
	dlls = append(dlls, filepath.Join(installed, "tools", "shaderc_shared.dll"))

	scripts := filepath.Join(cfg.VenvPath, cfg.System.BinDirName())
	for _, src := range dlls {
		data, err := os.ReadFile(src) //nolint:gosec // Path is built from the vcpkg directory
		if err != nil {
			if !os.IsNotExist(err) {
				a.logger.Error(err)
			}
			continue
		}
		a.logger.Info(fmt.Sprintf("copy %s to %s", src, scripts))
		if err := fs.WriteFileAtomic(filepath.Join(scripts, filepath.Base(src)), data); err != nil {
			a.logger.Error(err)
		}
	}
}

package catalog

import (
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/domain"
)

// Variables returns the make variables of the build script, in emission order.
func (c *Catalog) Variables() ([]domain.Binding, error) {
	cfg := c.cfg

	// The venv python is explicit so no other interpreter from PATH is picked.
	pip, err := c.shell.Join(c.shell.PathJoin(cfg.BinPath(), "python"), "-m", "pip")
	if err != nil {
		return nil, err
	}

	// MAKEFLAGS= keeps make jobserver flags away from ninja. nmake has no
	// equivalent syntax.
	meson := "MAKEFLAGS= meson"
	if cfg.System.IsWindows() {
		meson = "meson"
	}

	setup := c.mesonSetupArgs()
	mesonSetup, err := c.shell.Join(append(setup, "--backend="+cfg.BuildBackend)...)
	if err != nil {
		return nil, err
	}
	// The tests project is only supported with the ninja backend.
	mesonSetupTests, err := c.shell.Join(append(c.mesonSetupArgs(), "--backend=ninja")...)
	if err != nil {
		return nil, err
	}

	cmakeBuildType := "Release"
	if cfg.IsDebug() {
		cmakeBuildType = "Debug"
	}
	cmakeSetup, err := c.shell.Join(
		"-DCMAKE_INSTALL_PREFIX="+cfg.Prefix,
		"-DCMAKE_BUILD_TYPE="+cmakeBuildType,
		"-GNinja",
	)
	if err != nil {
		return nil, err
	}

	vars := []domain.Binding{
		{Key: "BUILDDIR", Value: cfg.BuildDir},
		{Key: "PREFIX", Value: cfg.Prefix},
		{Key: "PIP", Value: pip},
		{Key: "MESON", Value: meson},
		{Key: "MESON_BACKEND", Value: domain.DefaultBuildBackend(cfg.System)},
		{Key: "MESON_SETUP", Value: "$(MESON) " + mesonSetup},
		{Key: "MESON_SETUP_TESTS", Value: "$(MESON) " + mesonSetupTests},
		{Key: "CMAKE", Value: "cmake"},
		{Key: "CMAKE_GENERATOR", Value: cfg.CMakeGenerator},
		{Key: "CMAKE_BUILD_TYPE", Value: cfg.CMakeBuildType()},
		{Key: "CMAKE_SETUP", Value: "cmake " + cmakeSetup},
	}
	if cfg.System.IsWindows() {
		vars = append(vars,
			domain.Binding{Key: "CMAKE_SYSTEM_VERSION", Value: cfg.CMakeSystemVersion},
			domain.Binding{Key: "VCPKG_DIR", Value: cfg.VcpkgDir},
		)
	}
	if cfg.EnableNGFX {
		vars = append(vars, domain.Binding{Key: "NGFX_GRAPHICS_BACKEND", Value: cfg.NGFXGraphicsBackend})
	}
	return vars, nil
}

func (c *Catalog) mesonSetupArgs() []string {
	cfg := c.cfg
	args := []string{
		"setup",
		"--prefix", "$(PREFIX)",
		"-Drpath=true",
		"--pkg-config-path", "$(PKG_CONFIG_PATH)",
		"--buildtype", cfg.MesonBuildType(),
	}
	if cfg.Coverage {
		args = append(args, "-Db_coverage=true")
	}
	if cfg.System != domain.SystemMinGW {
		args = append(args, "-Db_lto=true")
	}
	switch {
	case cfg.System.IsWindows():
		// Every library shares the release DLL runtime, third parties only ship it.
		args = append(args, "--bindir=Scripts", "--libdir=Lib", "--includedir=Include", "-Db_vscrt=md")
	case cfg.Debian:
		// https://github.com/mesonbuild/meson/issues/5925
		args = append(args, "--libdir=lib")
	}
	return args
}

// Environment returns the variables exported to every recipe.
func (c *Catalog) Environment() []domain.Binding {
	cfg := c.cfg
	env := []domain.Binding{
		{Key: "PATH", Value: cfg.BinPath() + cfg.System.PathListSeparator() + "$(PATH)"},
		{Key: "EXTERNAL_DIR", Value: cfg.ExternalDir},
		{Key: "PKG_CONFIG_PATH", Value: cfg.PkgConfigPath()},
	}
	if cfg.System.IsWindows() {
		env = append(env,
			domain.Binding{Key: "PKG_CONFIG", Value: c.shell.PathJoin(cfg.VenvPath, "Scripts", "pkgconf.exe")},
			domain.Binding{Key: "PKG_CONFIG_ALLOW_SYSTEM_LIBS", Value: "1"},
			domain.Binding{Key: "PKG_CONFIG_ALLOW_SYSTEM_CFLAGS", Value: "1"},
		)
	}
	return env
}

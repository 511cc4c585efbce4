package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

const (
	// BuildTypeRelease is the default build type.
	BuildTypeRelease = "release"
	// BuildTypeDebug enables debug builds.
	BuildTypeDebug = "debug"

	// BackendNinja selects the ninja meson backend.
	BackendNinja = "ninja"
	// BackendVS selects the Visual Studio meson backend.
	BackendVS = "vs"

	// DebugOptGPUCapture enables RenderDoc captures.
	DebugOptGPUCapture = "gpu_capture"

	// DefaultBuildDir is the build directory used when BUILDDIR is unset.
	DefaultBuildDir = "builddir"
	// DefaultCMakeSystemVersion is the Windows SDK version used when CMAKE_SYSTEM_VERSION is unset.
	DefaultCMakeSystemVersion = "10.0.18362.0"
	// DefaultVcpkgDir is the vcpkg installation directory on Windows.
	DefaultVcpkgDir = `C:\vcpkg`
)

// DebugOptions lists the accepted debug options.
var DebugOptions = []string{"gl", "vk", "mem", "scene", DebugOptGPUCapture}

// BuildConfig is the resolved configuration every block command generator closes over.
type BuildConfig struct {
	System System

	// RootDir is the absolute project root.
	RootDir string
	// ExternalDir is the absolute directory holding fetched dependencies.
	ExternalDir string
	// VenvPath is the absolute virtual environment directory.
	VenvPath string
	// Prefix is the install prefix. It equals VenvPath except on MinGW,
	// where it is translated to the /c/ form.
	Prefix string

	BuildType    string
	Coverage     bool
	DebugOpts    []string
	BuildBackend string
	Verbose      bool
	VcpkgDir     string
	EnableNGFX   bool

	BuildDir            string
	CMakeGenerator      string
	CMakeSystemVersion  string
	NGFXGraphicsBackend string

	// Debian forces --libdir=lib on Debian based distributions.
	Debian bool
	// Jobs is the parallelism passed to cmake --build.
	Jobs int
}

// Validate checks the user supplied options.
func (c *BuildConfig) Validate() error {
	switch c.BuildType {
	case BuildTypeRelease, BuildTypeDebug:
	default:
		return zerr.With(ErrInvalidBuildType, "buildtype", c.BuildType)
	}
	switch c.BuildBackend {
	case BackendNinja, BackendVS:
	default:
		return zerr.With(ErrInvalidBuildBackend, "build_backend", c.BuildBackend)
	}
	for _, opt := range c.DebugOpts {
		if !slices.Contains(DebugOptions, opt) {
			return zerr.With(ErrInvalidDebugOption, "debug_opt", opt)
		}
	}
	return nil
}

// HasDebugOpt reports whether a debug option is enabled.
func (c *BuildConfig) HasDebugOpt(opt string) bool {
	return slices.Contains(c.DebugOpts, opt)
}

// IsDebug reports whether meson builds in debug mode. Coverage implies debug.
func (c *BuildConfig) IsDebug() bool {
	return c.Coverage || c.BuildType == BuildTypeDebug
}

// MesonBuildType returns the meson --buildtype value.
func (c *BuildConfig) MesonBuildType() string {
	if c.IsDebug() {
		return BuildTypeDebug
	}
	return BuildTypeRelease
}

// CMakeBuildType returns the CMAKE_BUILD_TYPE value.
func (c *BuildConfig) CMakeBuildType() string {
	if c.BuildType == BuildTypeDebug {
		return "Debug"
	}
	return "Release"
}

// BinPath returns the executables directory of the install prefix.
func (c *BuildConfig) BinPath() string {
	return c.System.PathJoin(c.Prefix, c.System.BinDirName())
}

// PkgConfigPath returns the PKG_CONFIG_PATH value.
func (c *BuildConfig) PkgConfigPath() string {
	if c.System.IsWindows() {
		vcpkg := c.System.PathJoin(c.VcpkgDir, "installed", "x64-windows", "lib", "pkgconfig")
		return vcpkg + c.System.PathListSeparator() + c.System.PathJoin(c.Prefix, "Lib", "pkgconfig")
	}
	return c.System.PathJoin(c.Prefix, "lib", "pkgconfig")
}

// RenderDocDependency returns the name of the RenderDoc dependency for the system.
func (c *BuildConfig) RenderDocDependency() string {
	return "renderdoc_" + c.System.String()
}

// DefaultBuildBackend returns the meson backend used when none is given.
func DefaultBuildBackend(s System) string {
	if s.IsWindows() {
		return BackendVS
	}
	return BackendNinja
}

// DefaultCMakeGenerator returns the cmake generator used when CMAKE_GENERATOR is unset.
func DefaultCMakeGenerator(s System) string {
	switch s {
	case SystemWindows:
		return "Visual Studio 16 2019"
	case SystemDarwin:
		return "Xcode"
	default:
		return "Ninja"
	}
}

// DefaultNGFXGraphicsBackend returns the ngfx backend used when NGFX_GRAPHICS_BACKEND is unset.
func DefaultNGFXGraphicsBackend(s System) string {
	switch s {
	case SystemWindows:
		return "NGFX_GRAPHICS_BACKEND_DIRECT3D12"
	case SystemDarwin:
		return "NGFX_GRAPHICS_BACKEND_METAL"
	default:
		return "NGFX_GRAPHICS_BACKEND_VULKAN"
	}
}

// MinGWPath translates a Windows drive path such as C:\foo to /c/foo so it
// survives ':' separated PATH lists.
func MinGWPath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	if len(p) >= 2 && p[1] == ':' {
		drive := strings.ToLower(p[:1])
		rest := strings.TrimPrefix(p[2:], "/")
		if rest == "" {
			return "/" + drive
		}
		return "/" + drive + "/" + rest
	}
	return p
}

package catalog

import (
	"fmt"
	"runtime"
	"slices"
	"strings"

	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/domain"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/engine/emitter"
)

// blocks builds the command generators of the catalog.
type blocks struct {
	cfg *domain.BuildConfig
	sh  emitter.Shell
}

func (b blocks) builddir(component string) string {
	return b.sh.PathJoin("$(BUILDDIR)", component)
}

// local returns a path explicitly relative to the working directory.
func (b blocks) local(elem ...string) string {
	sep := "/"
	if b.cfg.System.IsWindows() {
		sep = `\`
	}
	return "." + sep + b.sh.PathJoin(elem...)
}

// prefixed runs Join and prefixes the result, typically with a make variable.
func (b blocks) prefixed(prefix string, args ...string) (string, error) {
	joined, err := b.sh.Join(args...)
	if err != nil {
		return "", err
	}
	return prefix + joined, nil
}

func (b blocks) mesonCompileInstall(component string) domain.CommandFunc {
	return func(*domain.BuildConfig, domain.Externals) ([]string, error) {
		var cmds []string
		for _, action := range []string{"compile", "install"} {
			cmd, err := b.prefixed("$(MESON) ", action, "-C", b.builddir(component))
			if err != nil {
				return nil, err
			}
			cmds = append(cmds, cmd)
		}
		return cmds, nil
	}
}

func (b blocks) mesonSetup(component string, opts ...string) domain.CommandFunc {
	return func(*domain.BuildConfig, domain.Externals) ([]string, error) {
		args := slices.Concat(opts, []string{component, b.builddir(component)})
		cmd, err := b.prefixed("$(MESON_SETUP) ", args...)
		if err != nil {
			return nil, err
		}
		return []string{cmd}, nil
	}
}

func (b blocks) cmakeSetupOptions() string {
	opts := `-DCMAKE_BUILD_TYPE=$(CMAKE_BUILD_TYPE) -G"$(CMAKE_GENERATOR)" -DCMAKE_INSTALL_PREFIX="$(PREFIX)" -DEXTERNAL_DIR="$(EXTERNAL_DIR)"`
	if b.cfg.System.IsWindows() {
		opts += " -DCMAKE_INSTALL_INCLUDEDIR=Include -DCMAKE_INSTALL_LIBDIR=Lib -DCMAKE_INSTALL_BINDIR=Scripts"
		// Third party libraries are only shipped with the release runtime.
		opts += " -DCMAKE_MSVC_RUNTIME_LIBRARY:STRING=MultiThreadedDLL"
		opts += " -DCMAKE_SYSTEM_VERSION=$(CMAKE_SYSTEM_VERSION) -DVCPKG_DIR=$(VCPKG_DIR)"
	}
	return opts
}

func (b blocks) cmakeCompileOptions() string {
	jobs := b.cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU() + 1
	}
	opts := fmt.Sprintf("--config $(CMAKE_BUILD_TYPE) -j%d", jobs)
	if b.cfg.Verbose {
		opts += " -v"
	}
	return opts
}

// cmakeProject configures, builds and installs a CMake project.
func (b blocks) cmakeProject(src, component string, extraSetup string) []string {
	builddir := b.builddir(component)
	setup := "$(CMAKE) -S " + src + " -B " + builddir + " " + b.cmakeSetupOptions()
	if extraSetup != "" {
		setup += " " + extraSetup
	}
	return []string{
		setup,
		"$(CMAKE) --build " + builddir + " --verbose " + b.cmakeCompileOptions(),
		"$(CMAKE) --install " + builddir + " --config $(CMAKE_BUILD_TYPE)",
	}
}

func (b blocks) pkgconfSetup(_ *domain.BuildConfig, ext domain.Externals) ([]string, error) {
	src, err := ext.Lookup("pkgconf")
	if err != nil {
		return nil, err
	}
	return b.mesonSetup("pkgconf", "-Dtests=false", src)(nil, ext)
}

func (b blocks) pkgconfInstall(cfg *domain.BuildConfig, ext domain.Externals) ([]string, error) {
	if !cfg.System.IsWindows() {
		return nil, nil
	}
	cmds, err := b.mesonCompileInstall("pkgconf")(cfg, ext)
	if err != nil {
		return nil, err
	}
	bin := cfg.BinPath()
	return append(cmds, "copy "+b.sh.PathJoin(bin, "pkgconf.exe")+" "+b.sh.PathJoin(bin, "pkg-config.exe")), nil
}

func (b blocks) sxplayerSetup(_ *domain.BuildConfig, ext domain.Externals) ([]string, error) {
	src, err := ext.Lookup("sxplayer")
	if err != nil {
		return nil, err
	}
	return b.mesonSetup("sxplayer", src)(nil, ext)
}

func (b blocks) renderdocInstall(cfg *domain.BuildConfig, ext domain.Externals) ([]string, error) {
	src, err := ext.Lookup(cfg.RenderDocDependency())
	if err != nil {
		return nil, err
	}
	return []string{"copy " + b.sh.PathJoin(src, "renderdoc.dll") + " " + cfg.BinPath()}, nil
}

func (b blocks) shadercSetup(cfg *domain.BuildConfig, ext domain.Externals) ([]string, error) {
	src, err := ext.Lookup("shaderc")
	if err != nil {
		return nil, err
	}
	syncDeps := "./utils/git-sync-deps"
	if cfg.System.IsWindows() {
		syncDeps = "python ./utils/git-sync-deps"
	}
	return []string{
		"cd " + src + " && " + syncDeps,
		"$(CMAKE_SETUP) -S " + src + " -B " + b.builddir("shaderc") + " -DSHADERC_SKIP_TESTS=ON",
	}, nil
}

func (b blocks) shadercInstall(cfg *domain.BuildConfig, _ domain.Externals) ([]string, error) {
	cmds := []string{"$(CMAKE) --build " + b.builddir("shaderc") + " --target install"}
	if cfg.System == domain.SystemDarwin {
		const lib = "libshaderc_shared.1.dylib"
		cmds = append(cmds, "install_name_tool -id @rpath/"+lib+" $(PREFIX)/lib/"+lib)
	}
	return cmds, nil
}

func (b blocks) moltenvkSetup(_ *domain.BuildConfig, ext domain.Externals) ([]string, error) {
	src, err := ext.Lookup("moltenvk")
	if err != nil {
		return nil, err
	}
	return []string{"cd " + src + " && ./fetchDependencies -v --macos"}, nil
}

func (b blocks) moltenvkInstall(_ *domain.BuildConfig, ext domain.Externals) ([]string, error) {
	src, err := ext.Lookup("moltenvk")
	if err != nil {
		return nil, err
	}
	pkg := src + "/Package/Latest/MoltenVK"
	return []string{
		"make -C " + src + " macos",
		"cp -v " + pkg + "/dylib/macOS/libMoltenVK.dylib $(PREFIX)/lib",
		"cp -vr " + pkg + "/include/. $(PREFIX)/include",
	}, nil
}

func (b blocks) ngfxInstall(cfg *domain.BuildConfig, ext domain.Externals) ([]string, error) {
	src, err := ext.Lookup("ngfx")
	if err != nil {
		return nil, err
	}

	pkgs := []string{"nlohmann-json", "stb"}
	if cfg.System.IsWindows() {
		pkgs = append(pkgs, "glm", "d3dx12", "glfw")
	}
	script := b.sh.PathJoin(src, "build_scripts", "install_deps.py")

	var installDeps string
	if cfg.System.IsWindows() {
		installDeps = fmt.Sprintf("echo& set OS=%s& set PKGS=%s& python %s&", cfg.System, strings.Join(pkgs, " "), script)
	} else {
		installDeps = fmt.Sprintf(`export OS=%s && export PKGS="%s" && python %s`, cfg.System, strings.Join(pkgs, " "), script)
	}

	cmds := append([]string{installDeps}, b.cmakeProject(src, "ngfx", "-D$(NGFX_GRAPHICS_BACKEND)=ON")...)
	if cfg.NGFXGraphicsBackend == "NGFX_GRAPHICS_BACKEND_DIRECT3D12" {
		cmds = append(cmds, `$(PREFIX)\Scripts\ngfx_compile_shaders_dx12.exe d3dBlitOp`)
	}
	return cmds, nil
}

func (b blocks) nglDebugToolsInstall(*domain.BuildConfig, domain.Externals) ([]string, error) {
	return b.cmakeProject("ngl-debug-tools", "ngl-debug-tools", ""), nil
}

func (b blocks) nodeglSetup(cfg *domain.BuildConfig, ext domain.Externals) ([]string, error) {
	opts := []string{"--default-library", "shared"}
	if len(cfg.DebugOpts) > 0 {
		opts = append(opts, "-Ddebug_opts="+strings.Join(cfg.DebugOpts, ","))
		if cfg.HasDebugOpt(domain.DebugOptGPUCapture) {
			dir, err := ext.Lookup(cfg.RenderDocDependency())
			if err != nil {
				return nil, err
			}
			opts = append(opts, "-Drenderdoc_dir="+dir)
		}
	}
	if cfg.EnableNGFX {
		opts = append(opts, "-Dngfx_graphics_backend=$(NGFX_GRAPHICS_BACKEND)")
	}
	return b.mesonSetup("libnodegl", opts...)(cfg, ext)
}

func (b blocks) pipRequirements(project string) domain.CommandFunc {
	return func(*domain.BuildConfig, domain.Externals) ([]string, error) {
		cmd, err := b.prefixed("$(PIP) ", "install", "-r", b.local(project, "requirements.txt"))
		if err != nil {
			return nil, err
		}
		return []string{cmd}, nil
	}
}

func (b blocks) pipEditable(project string) (string, error) {
	return b.prefixed("$(PIP) ", "-v", "install", "-e", b.local(project))
}

func (b blocks) pynodeglInstall(cfg *domain.BuildConfig, _ domain.Externals) ([]string, error) {
	cmd, err := b.pipEditable("pynodegl")
	if err != nil {
		return nil, err
	}
	if cfg.System.IsWindows() {
		dlls := b.sh.PathJoin(cfg.Prefix, "Scripts", "*.dll")
		return []string{cmd, "xcopy /Y " + dlls + ` pynodegl\.`}, nil
	}
	rpath := b.sh.PathJoin(cfg.Prefix, "lib")
	return []string{"LDFLAGS=-Wl,-rpath," + rpath + " " + cmd}, nil
}

func (b blocks) pynodeglUtilsDepsInstall(cfg *domain.BuildConfig, ext domain.Externals) ([]string, error) {
	// PySide2 and Pillow have to be installed outside of the venv on MinGW.
	if cfg.System == domain.SystemMinGW {
		return []string{"@"}, nil
	}
	return b.pipRequirements("pynodegl-utils")(cfg, ext)
}

func (b blocks) pynodeglUtilsInstall(*domain.BuildConfig, domain.Externals) ([]string, error) {
	cmd, err := b.pipEditable("pynodegl-utils")
	if err != nil {
		return nil, err
	}
	return []string{cmd}, nil
}

func (b blocks) nodeglRunTarget(target string) domain.CommandFunc {
	return func(*domain.BuildConfig, domain.Externals) ([]string, error) {
		cmd, err := b.prefixed("$(MESON) ", "compile", "-C", b.builddir("libnodegl"), target)
		if err != nil {
			return nil, err
		}
		return []string{cmd}, nil
	}
}

func (b blocks) all(cfg *domain.BuildConfig, _ domain.Externals) ([]string, error) {
	lines := []string{"", "Build completed.", "", "You can now enter the venv with:"}
	cmds := make([]string, 0, len(lines)+1)
	if cfg.System.IsWindows() {
		lines = append(lines, b.sh.PathJoin(cfg.BinPath(), "Activate.ps1"))
		for _, l := range lines {
			cmds = append(cmds, "@echo."+l)
		}
		return cmds, nil
	}
	lines = append(lines, "    . "+b.sh.PathJoin(cfg.BinPath(), "activate"))
	for _, l := range lines {
		cmds = append(cmds, `@echo "    `+l+`"`)
	}
	return cmds, nil
}

func (b blocks) testsSetup(*domain.BuildConfig, domain.Externals) ([]string, error) {
	cmd, err := b.prefixed("$(MESON_SETUP_TESTS) ", "tests", b.builddir("tests"))
	if err != nil {
		return nil, err
	}
	return []string{cmd}, nil
}

func (b blocks) mesonTest(component string) domain.CommandFunc {
	return func(*domain.BuildConfig, domain.Externals) ([]string, error) {
		cmd, err := b.sh.Join("meson", "test", "-C", b.builddir(component))
		if err != nil {
			return nil, err
		}
		return []string{cmd}, nil
	}
}

func (b blocks) cleanPy(*domain.BuildConfig, domain.Externals) ([]string, error) {
	p := b.sh.PathJoin
	return []string{
		b.sh.Rm(p("pynodegl", "nodes_def.pyx")),
		b.sh.Rm(p("pynodegl", "pynodegl.c")),
		b.sh.Rm(p("pynodegl", "pynodegl.*.so")),
		b.sh.Rm(p("pynodegl", "pynodegl.*.pyd")),
		b.sh.Rd(p("pynodegl", "build")),
		b.sh.Rd(p("pynodegl", "pynodegl.egg-info")),
		b.sh.Rd(p("pynodegl", ".eggs")),
		b.sh.Rd(p("pynodegl-utils", "pynodegl_utils.egg-info")),
		b.sh.Rd(p("pynodegl-utils", ".eggs")),
	}, nil
}

func (b blocks) clean(*domain.BuildConfig, domain.Externals) ([]string, error) {
	var cmds []string
	for _, component := range []string{"libnodegl", "moltenvk", "ngl-tools", "pkgconf", "shaderc", "sxplayer", "tests"} {
		cmds = append(cmds, b.sh.Rd(b.builddir(component)))
	}
	return cmds, nil
}

// coverage does not go through meson coverage, which mishandles the
// libnodegl subproject layout.
func (b blocks) coverage(output string) domain.CommandFunc {
	return func(*domain.BuildConfig, domain.Externals) ([]string, error) {
		cmd, err := b.sh.Join("ninja", "-C", b.builddir("libnodegl"), "coverage-"+output)
		if err != nil {
			return nil, err
		}
		return []string{cmd}, nil
	}
}

package commands

import (
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/app"
	"github.com/spf13/cobra"
)

// addBuildFlags registers the build options shared by configure, fetch,
// blocks and status.
func addBuildFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("root", ".", "Project root directory")
	f.StringP("venv-path", "p", "", "Virtual environment directory (default <root>/venv)")
	f.String("buildtype", "release", "Build type: release or debug")
	f.Bool("coverage", false, "Code coverage")
	f.StringSliceP("debug-opts", "d", nil, "Debug options: gl, vk, mem, scene, gpu_capture")
	f.String("build-backend", "", "Build backend: ninja or vs (default depends on the system)")
	f.BoolP("verbose", "v", false, "Enable verbose output")
	f.String("vcpkg-dir", "", `Vcpkg directory on Windows (default C:\vcpkg)`)
	f.Bool("enable-ngfx-backend", false, "Enable the NGFX backend")
	f.String("system", "", "Target system: Windows, Linux, Darwin or MinGW (default detected)")
	f.StringArray("target", nil, "Block to emit, repeatable (default all roots)")
}

func buildOptions(cmd *cobra.Command) app.Options {
	f := cmd.Flags()
	root, _ := f.GetString("root")
	venv, _ := f.GetString("venv-path")
	buildType, _ := f.GetString("buildtype")
	coverage, _ := f.GetBool("coverage")
	debugOpts, _ := f.GetStringSlice("debug-opts")
	backend, _ := f.GetString("build-backend")
	verbose, _ := f.GetBool("verbose")
	vcpkg, _ := f.GetString("vcpkg-dir")
	ngfx, _ := f.GetBool("enable-ngfx-backend")
	system, _ := f.GetString("system")
	targets, _ := f.GetStringArray("target")

	return app.Options{
		Root:         root,
		VenvPath:     venv,
		System:       system,
		BuildType:    buildType,
		Coverage:     coverage,
		DebugOpts:    debugOpts,
		BuildBackend: backend,
		Verbose:      verbose,
		VcpkgDir:     vcpkg,
		EnableNGFX:   ngfx,
		Targets:      targets,
	}
}

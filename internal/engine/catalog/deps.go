package catalog

import (
	"maps"
	"slices"

	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/domain"
	"go.trai.ch/zerr"
)

// DefaultDependencies returns the built-in dependency table.
func DefaultDependencies() map[string]domain.DependencySpec {
	specs := []domain.DependencySpec{
		{
			Name:    "sxplayer",
			Version: "9.9.0",
			URL:     "https://github.com/Stupeflix/sxplayer/archive/v@VERSION@.tar.gz",
			DstFile: "sxplayer-@VERSION@.tar.gz",
			SHA256:  "a4baff3b70cc0b519128474d078ee7ec1099e880f869968b3d32693bdb5260de",
		},
		{
			Name:    "pkgconf",
			Version: "1.7.4",
			URL:     "https://distfiles.dereferenced.org/pkgconf/pkgconf-@VERSION@.tar.xz",
			SHA256:  "d73f32c248a4591139a6b17777c80d4deab6b414ec2b3d21d0a24be348c476ab",
		},
		{
			Name:    "renderdoc_Windows",
			Version: "1.14",
			URL:     "https://renderdoc.org/stable/@VERSION@/RenderDoc_@VERSION@_64.zip",
			SHA256:  "d91bac6702e832543f4bc7a8ee260e8e2176d450170fb2fc0b111c6a889ce3d5",
		},
		{
			Name:    "renderdoc_Linux",
			Version: "1.14",
			URL:     "https://renderdoc.org/stable/@VERSION@/renderdoc_@VERSION@.tar.gz",
			SHA256:  "8ae12b5c0ab28dc6fd60e0a1a8e52dbb49b8745b48c08ff27c70139f05a6e545",
		},
		{
			Name:    "shaderc",
			Version: "2020.5",
			URL:     "https://github.com/google/shaderc/archive/v@VERSION@.tar.gz",
			DstFile: "shaderc-@VERSION@.tar.gz",
			SHA256:  "e96d8cb208b796cecb9e6cce437c7d1116343158ef3ea26277eb13b62cf56834",
		},
		{
			Name:    "moltenvk",
			Version: "1.1.3",
			URL:     "https://github.com/KhronosGroup/MoltenVK/archive/v@VERSION@.tar.gz",
			DstFile: "moltenvk-@VERSION@.tar.gz",
			SHA256:  "c20758bc19a46060aaf6e0949b47d29824b70b9ec0e22fb73a3feeef4c73a0ef",
		},
		{
			Name:   "ngfx",
			URL:    "https://github.com/gopro/ngfx.git",
			Branch: "develop",
		},
	}

	table := make(map[string]domain.DependencySpec, len(specs))
	for _, s := range specs {
		table[s.Name] = s
	}
	return table
}

// RequiredDependencies returns the names of the dependencies the build needs
// for the configured system and features.
func RequiredDependencies(cfg *domain.BuildConfig) []string {
	deps := []string{"sxplayer"}
	if cfg.System == domain.SystemWindows {
		deps = append(deps, "pkgconf")
	}
	if cfg.HasDebugOpt(domain.DebugOptGPUCapture) &&
		(cfg.System == domain.SystemWindows || cfg.System == domain.SystemLinux) {
		deps = append(deps, cfg.RenderDocDependency())
	}
	if cfg.System == domain.SystemDarwin {
		deps = append(deps, "shaderc", "moltenvk")
	}
	if cfg.EnableNGFX {
		deps = append(deps, "shaderc", "ngfx")
	}

	var out []string
	for _, d := range deps {
		if !slices.Contains(out, d) {
			out = append(out, d)
		}
	}
	return out
}

// Dependencies resolves the specs to fetch: the required dependencies, taken
// from the manifest when it overrides them and from the built-in table
// otherwise, plus every dependency the manifest adds.
func Dependencies(cfg *domain.BuildConfig, manifest *domain.Manifest) (map[string]domain.DependencySpec, error) {
	table := DefaultDependencies()
	specs := make(map[string]domain.DependencySpec)

	var overrides map[string]domain.DependencySpec
	if manifest != nil {
		overrides = manifest.Dependencies
	}

	for _, name := range RequiredDependencies(cfg) {
		if spec, ok := overrides[name]; ok {
			specs[name] = spec
			continue
		}
		spec, ok := table[name]
		if !ok {
			return nil, zerr.With(domain.ErrUnknownDependency, "dependency", name)
		}
		specs[name] = spec
	}

	for _, name := range slices.Sorted(maps.Keys(overrides)) {
		if _, ok := specs[name]; !ok {
			specs[name] = overrides[name]
		}
	}
	return specs, nil
}

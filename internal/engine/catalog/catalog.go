// Package catalog declares the node.gl build blocks for a resolved configuration.
package catalog

import (
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/domain"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/engine/emitter"
	"github.com/sahilm/fuzzy"
	"go.trai.ch/zerr"
)

// Catalog is the closed block graph of a configuration.
type Catalog struct {
	cfg   *domain.BuildConfig
	shell emitter.Shell
	graph *domain.BlockGraph
}

// New declares every block for cfg. Platform conditional edges are part of
// the block declarations, so the graph is complete before registration.
func New(cfg *domain.BuildConfig) (*Catalog, error) {
	c := &Catalog{
		cfg:   cfg,
		shell: emitter.NewShell(cfg.System),
		graph: domain.NewBlockGraph(),
	}
	b := blocks{cfg: cfg, sh: c.shell}

	pkgconfSetup := domain.NewBlock("pkgconf-setup", b.pkgconfSetup)
	pkgconfInstall := domain.NewBlock("pkgconf-install", b.pkgconfInstall, pkgconfSetup)

	// sxplayer is configured with the pkgconf built in the venv on Windows.
	var sxplayerPrereqs []*domain.Block
	if cfg.System.IsWindows() {
		sxplayerPrereqs = append(sxplayerPrereqs, pkgconfInstall)
	}
	sxplayerSetup := domain.NewBlock("sxplayer-setup", b.sxplayerSetup, sxplayerPrereqs...)
	sxplayerInstall := domain.NewBlock("sxplayer-install", b.mesonCompileInstall("sxplayer"), sxplayerSetup)
	renderdocInstall := domain.NewBlock("renderdoc-install", b.renderdocInstall)
	shadercSetup := domain.NewBlock("shaderc-setup", b.shadercSetup)
	shadercInstall := domain.NewBlock("shaderc-install", b.shadercInstall, shadercSetup)
	moltenvkSetup := domain.NewBlock("moltenvk-setup", b.moltenvkSetup)
	moltenvkInstall := domain.NewBlock("moltenvk-install", b.moltenvkInstall, moltenvkSetup)

	// pkgconf must be installed before the ngfx dependencies on Windows.
	ngfxPrereqs := []*domain.Block{shadercInstall}
	if cfg.System.IsWindows() {
		ngfxPrereqs = append([]*domain.Block{pkgconfInstall}, ngfxPrereqs...)
	}
	ngfxInstall := domain.NewBlock("ngfx-install", b.ngfxInstall, ngfxPrereqs...)

	nodeglPrereqs := []*domain.Block{sxplayerInstall}
	if cfg.System.IsWindows() && cfg.HasDebugOpt(domain.DebugOptGPUCapture) {
		nodeglPrereqs = append(nodeglPrereqs, renderdocInstall)
	}
	if cfg.EnableNGFX {
		nodeglPrereqs = append(nodeglPrereqs, ngfxInstall)
	}
	nodeglSetup := domain.NewBlock("nodegl-setup", b.nodeglSetup, nodeglPrereqs...)
	nodeglInstall := domain.NewBlock("nodegl-install", b.mesonCompileInstall("libnodegl"), nodeglSetup)
	debugTools := domain.NewBlock("ngl-debug-tools-install", b.nglDebugToolsInstall)
	updateDoc := domain.NewBlock("nodegl-updatedoc", b.nodeglRunTarget("updatedoc"), nodeglInstall)
	updateSpecs := domain.NewBlock("nodegl-updatespecs", b.nodeglRunTarget("updatespecs"), nodeglInstall)
	updateGLWrappers := domain.NewBlock("nodegl-updateglwrappers", b.nodeglRunTarget("updateglwrappers"), nodeglInstall)
	nodeglTests := domain.NewBlock("nodegl-tests", b.mesonTest("libnodegl"), nodeglInstall)

	pynodeglDeps := domain.NewBlock("pynodegl-deps-install", b.pipRequirements("pynodegl"), nodeglInstall)
	pynodegl := domain.NewBlock("pynodegl-install", b.pynodeglInstall, pynodeglDeps)
	utilsDeps := domain.NewBlock("pynodegl-utils-deps-install", b.pynodeglUtilsDepsInstall, pynodegl)
	utils := domain.NewBlock("pynodegl-utils-install", b.pynodeglUtilsInstall, utilsDeps)

	toolsSetup := domain.NewBlock("ngl-tools-setup", b.mesonSetup("ngl-tools"), nodeglInstall)
	toolsInstall := domain.NewBlock("ngl-tools-install", b.mesonCompileInstall("ngl-tools"), toolsSetup)

	all := domain.NewBlock("all", b.all, toolsInstall, utils)
	testsSetup := domain.NewBlock("tests-setup", b.testsSetup, toolsInstall, utils)
	tests := domain.NewBlock("tests", b.mesonTest("tests"), nodeglTests, testsSetup)

	cleanPy := domain.NewBlock("clean-py", b.cleanPy)
	clean := domain.NewBlock("clean", b.clean, cleanPy)
	coverageHTML := domain.NewBlock("coverage-html", b.coverage("html"))
	coverageXML := domain.NewBlock("coverage-xml", b.coverage("xml"))

	for _, blk := range []*domain.Block{
		all, tests, clean,
		updateDoc, updateSpecs, updateGLWrappers,
		debugTools,
		shadercInstall, moltenvkInstall,
		coverageHTML, coverageXML,
		ngfxInstall, renderdocInstall, pkgconfInstall,
	} {
		c.graph.Register(blk)
	}

	return c, nil
}

// Graph returns the block graph.
func (c *Catalog) Graph() *domain.BlockGraph {
	return c.graph
}

// Config returns the configuration the blocks close over.
func (c *Catalog) Config() *domain.BuildConfig {
	return c.cfg
}

// Roots returns the blocks emitted when no target is selected.
func (c *Catalog) Roots() []string {
	roots := []string{
		"all", "tests", "clean",
		"nodegl-updatedoc", "nodegl-updatespecs", "nodegl-updateglwrappers",
		"ngl-debug-tools-install",
	}
	if c.cfg.System == domain.SystemDarwin {
		roots = append(roots, "shaderc-install", "moltenvk-install")
	}
	if c.cfg.Coverage {
		roots = append(roots, "coverage-html", "coverage-xml")
	}
	return roots
}

// Select validates explicit targets. No target selects the default roots.
// Unknown targets fail with a suggestion of the closest block name.
func (c *Catalog) Select(targets []string) ([]string, error) {
	if len(targets) == 0 {
		return c.Roots(), nil
	}
	names := c.graph.Names()
	for _, t := range targets {
		if _, err := c.graph.Lookup(t); err != nil {
			if matches := fuzzy.Find(t, names); len(matches) > 0 {
				return nil, zerr.With(err, "did_you_mean", matches[0].Str)
			}
			return nil, err
		}
	}
	return targets, nil
}

// Plan returns the emission order of roots.
func (c *Catalog) Plan(roots []string) ([]string, error) {
	return c.graph.Plan(roots)
}

// Flatten generates the commands of every block reachable from roots.
func (c *Catalog) Flatten(roots []string, ext domain.Externals) ([]domain.FlatBlock, error) {
	return c.graph.Flatten(roots, c.cfg, ext)
}

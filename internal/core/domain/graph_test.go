package domain_test

import (
	"errors"
	"testing"

	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
)

func blockNames(flat []domain.FlatBlock) []string {
	names := make([]string, 0, len(flat))
	for _, b := range flat {
		names = append(names, b.Name)
	}
	return names
}

func TestBlockGraph_Register_FirstWins(t *testing.T) {
	g := domain.NewBlockGraph()
	first := domain.NewBlock("setup", domain.Static("first"))
	second := domain.NewBlock("setup", domain.Static("second"))

	assert.Same(t, first, g.Register(first))
	assert.Same(t, first, g.Register(second))

	got, err := g.Lookup("setup")
	require.NoError(t, err)
	assert.Same(t, first, got)

	flat, err := g.Flatten([]string{"setup"}, &domain.BuildConfig{}, nil)
	require.NoError(t, err)
	require.Len(t, flat, 1)
	assert.Equal(t, []string{"first"}, flat[0].Commands)
}

func TestBlockGraph_Register_Recursive(t *testing.T) {
	g := domain.NewBlockGraph()
	setup := domain.NewBlock("sxplayer-setup", nil)
	install := domain.NewBlock("sxplayer-install", nil, setup)

	g.Register(install)

	assert.Equal(t, []string{"sxplayer-install", "sxplayer-setup"}, g.Names())
	deps, err := g.PrerequisitesOf("sxplayer-install")
	require.NoError(t, err)
	assert.Equal(t, []string{"sxplayer-setup"}, deps)
}

func TestBlockGraph_Lookup_NotFound(t *testing.T) {
	g := domain.NewBlockGraph()
	_, err := g.Lookup("missing")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrBlockNotFound.Error())
}

func TestBlockGraph_Flatten_SharedPrerequisite(t *testing.T) {
	g := domain.NewBlockGraph()
	c := domain.NewBlock("C", domain.Static("c"))
	a := domain.NewBlock("A", domain.Static("a"), c)
	b := domain.NewBlock("B", domain.Static("b"), c)
	g.Register(a)
	g.Register(b)

	flat, err := g.Flatten([]string{"A", "B"}, &domain.BuildConfig{}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"C", "A", "B"}, blockNames(flat))
	assert.Equal(t, []string{"C"}, flat[1].Prerequisites)
	assert.Equal(t, []string{"C"}, flat[2].Prerequisites)
	assert.Empty(t, flat[0].Prerequisites)
}

func TestBlockGraph_Flatten_PrerequisiteOrder(t *testing.T) {
	g := domain.NewBlockGraph()
	setup := domain.NewBlock("setup", nil)
	deps := domain.NewBlock("deps", nil)
	install := domain.NewBlock("install", nil, setup)
	all := domain.NewBlock("all", nil, install, deps)
	clean := domain.NewBlock("clean", nil)
	g.Register(all)
	g.Register(clean)

	names, err := g.Plan([]string{"all", "clean", "install"})
	require.NoError(t, err)
	assert.Equal(t, []string{"setup", "install", "deps", "all", "clean"}, names)
}

func TestBlockGraph_Flatten_Deterministic(t *testing.T) {
	build := func() *domain.BlockGraph {
		g := domain.NewBlockGraph()
		base := domain.NewBlock("base", domain.Static("echo base"))
		for _, n := range []string{"x", "y", "z"} {
			g.Register(domain.NewBlock(n, domain.Static("echo "+n), base))
		}
		return g
	}

	g := build()
	roots := []string{"z", "x", "y"}
	first, err := g.Flatten(roots, &domain.BuildConfig{}, nil)
	require.NoError(t, err)
	second, err := g.Flatten(roots, &domain.BuildConfig{}, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"base", "z", "x", "y"}, blockNames(first))
}

func TestBlockGraph_AddPrerequisite(t *testing.T) {
	g := domain.NewBlockGraph()
	g.Register(domain.NewBlock("sxplayer-setup", nil))

	pkgconf := domain.NewBlock("pkgconf-install", nil, domain.NewBlock("pkgconf-setup", nil))
	require.NoError(t, g.AddPrerequisite("sxplayer-setup", pkgconf))

	names, err := g.Plan([]string{"sxplayer-setup"})
	require.NoError(t, err)
	assert.Equal(t, []string{"pkgconf-setup", "pkgconf-install", "sxplayer-setup"}, names)
}

func TestBlockGraph_AddPrerequisite_UnknownBlock(t *testing.T) {
	g := domain.NewBlockGraph()
	err := g.AddPrerequisite("missing", domain.NewBlock("dep", nil))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrBlockNotFound.Error())
}

func TestBlockGraph_AddPrerequisite_Sealed(t *testing.T) {
	g := domain.NewBlockGraph()
	g.Register(domain.NewBlock("all", nil))

	_, err := g.Plan([]string{"all"})
	require.NoError(t, err)

	err = g.AddPrerequisite("all", domain.NewBlock("late", nil))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrGraphSealed.Error())
}

func TestBlockGraph_Flatten_Cycle(t *testing.T) {
	g := domain.NewBlockGraph()
	a := domain.NewBlock("a", nil)
	b := domain.NewBlock("b", nil, a)
	g.Register(b)
	require.NoError(t, g.AddPrerequisite("a", b))

	_, err := g.Flatten([]string{"a"}, &domain.BuildConfig{}, nil)
	require.Error(t, err)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "a -> b -> a", zErr.Metadata()["cycle"])
	assert.ErrorContains(t, err, domain.ErrCycleDetected.Error())
}

func TestBlockGraph_Flatten_UnknownRoot(t *testing.T) {
	g := domain.NewBlockGraph()
	_, err := g.Flatten([]string{"nope"}, &domain.BuildConfig{}, nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrBlockNotFound.Error())
}

func TestBlockGraph_Flatten_GeneratorError(t *testing.T) {
	g := domain.NewBlockGraph()
	boom := errors.New("boom")
	g.Register(domain.NewBlock("broken", func(*domain.BuildConfig, domain.Externals) ([]string, error) {
		return nil, boom
	}))

	_, err := g.Flatten([]string{"broken"}, &domain.BuildConfig{}, nil)
	require.Error(t, err)
	require.ErrorIs(t, err, boom)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "broken", zErr.Metadata()["block"])
}

func TestBlockGraph_Flatten_MissingExternal(t *testing.T) {
	g := domain.NewBlockGraph()
	g.Register(domain.NewBlock("sxplayer-setup", func(_ *domain.BuildConfig, ext domain.Externals) ([]string, error) {
		dir, err := ext.Lookup("sxplayer")
		if err != nil {
			return nil, err
		}
		return []string{"setup " + dir}, nil
	}))

	_, err := g.Flatten([]string{"sxplayer-setup"}, &domain.BuildConfig{}, domain.Externals{})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrExternalNotFetched.Error())

	flat, err := g.Flatten([]string{"sxplayer-setup"}, &domain.BuildConfig{}, domain.Externals{"sxplayer": "/ext/sxplayer"})
	require.NoError(t, err)
	assert.Equal(t, []string{"setup /ext/sxplayer"}, flat[0].Commands)
}

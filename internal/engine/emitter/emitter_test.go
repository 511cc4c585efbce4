package emitter_test

import (
	"testing"

	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/domain"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/engine/emitter"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBlocks() []domain.FlatBlock {
	return []domain.FlatBlock{
		{
			Name:     "sxplayer-setup",
			Commands: []string{"$(MESON_SETUP) external/sxplayer $(BUILDDIR)/sxplayer"},
		},
		{
			Name:          "sxplayer-install",
			Prerequisites: []string{"sxplayer-setup"},
			Commands: []string{
				"$(MESON) compile -C $(BUILDDIR)/sxplayer",
				"$(MESON) install -C $(BUILDDIR)/sxplayer",
			},
		},
		{
			Name:          "all",
			Prerequisites: []string{"sxplayer-install"},
		},
	}
}

func TestEmit_Golden(t *testing.T) {
	tests := []struct {
		name   string
		system domain.System
		vars   []domain.Binding
		env    []domain.Binding
	}{
		{
			name:   "emit_unix",
			system: domain.SystemLinux,
			vars: []domain.Binding{
				{Key: "BUILDDIR", Value: "builddir"},
				{Key: "PREFIX", Value: "/src/venv"},
			},
			env: []domain.Binding{
				{Key: "PATH", Value: "/src/venv/bin:$(PATH)"},
				{Key: "EXTERNAL_DIR", Value: "/src/my external"},
			},
		},
		{
			name:   "emit_windows",
			system: domain.SystemWindows,
			vars: []domain.Binding{
				{Key: "BUILDDIR", Value: "builddir"},
				{Key: "PREFIX", Value: `C:\src\venv`},
			},
			env: []domain.Binding{
				{Key: "PATH", Value: `C:\src\venv\Scripts;$(PATH)`},
				{Key: "PKG_CONFIG_ALLOW_SYSTEM_LIBS", Value: "1"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := emitter.New(tt.system).Emit(sampleBlocks(), tt.vars, tt.env)
			require.NoError(t, err)

			g := goldie.New(t)
			g.Assert(t, tt.name, []byte(out))
		})
	}
}

func TestEmit_NoBindings(t *testing.T) {
	out, err := emitter.New(domain.SystemDarwin).Emit([]domain.FlatBlock{{Name: "clean"}}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "clean:\n.PHONY: clean\n", out)
}

func TestEmit_UnquotableEnv(t *testing.T) {
	_, err := emitter.New(domain.SystemLinux).Emit(nil, nil, []domain.Binding{{Key: "EXTERNAL_DIR", Value: `/src/"x"`}})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrUnquotableValue.Error())
}

func TestEmit_PhonyFollowsEmissionOrder(t *testing.T) {
	flat := []domain.FlatBlock{{Name: "b"}, {Name: "a"}, {Name: "c", Prerequisites: []string{"a", "b"}}}
	out, err := emitter.New(domain.SystemLinux).Emit(flat, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "b:\na:\nc: a b\n.PHONY: b a c\n", out)
}

package config_test

import (
	"testing"

	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/config"
	"github.com/stretchr/testify/assert"
)

func TestEnvironment_Lookup(t *testing.T) {
	t.Setenv("CMAKE_GENERATOR", "Ninja Multi-Config")
	t.Setenv("BUILDDIR", "  ")

	env := config.NewEnvironment()

	v, ok := env.Lookup("CMAKE_GENERATOR")
	assert.True(t, ok)
	assert.Equal(t, "Ninja Multi-Config", v)

	_, ok = env.Lookup("BUILDDIR")
	assert.False(t, ok)

	_, ok = env.Lookup("NGL_ENV_SURELY_UNSET")
	assert.False(t, ok)
}

func TestEnvironment_SetDefault(t *testing.T) {
	t.Setenv("CMAKE_SYSTEM_VERSION", "")

	env := config.NewEnvironment()
	env.SetDefault("CMAKE_SYSTEM_VERSION", "10.0.18362.0")

	v, ok := env.Lookup("CMAKE_SYSTEM_VERSION")
	assert.True(t, ok)
	assert.Equal(t, "10.0.18362.0", v)
}

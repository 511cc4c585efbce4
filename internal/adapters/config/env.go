package config

import (
	"strings"

	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/ports"
	"github.com/spf13/viper"
)

// Environment implements ports.Environment on top of viper.
type Environment struct {
	v *viper.Viper
}

var _ ports.Environment = (*Environment)(nil)

// NewEnvironment creates an Environment reading the process environment.
func NewEnvironment() *Environment {
	v := viper.New()
	v.AutomaticEnv()
	return &Environment{v: v}
}

// Lookup returns the value of key if it is set to a non-empty value.
func (e *Environment) Lookup(key string) (string, bool) {
	value := strings.TrimSpace(e.v.GetString(key))
	if value == "" {
		return "", false
	}
	return value, true
}

// SetDefault registers a fallback value for key.
func (e *Environment) SetDefault(key, value string) {
	e.v.SetDefault(key, value)
}

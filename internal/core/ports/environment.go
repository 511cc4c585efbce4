// Package ports defines the core interfaces for the application.
package ports

// Environment resolves configuration overrides from the process environment.
//
//go:generate go run go.uber.org/mock/mockgen -source=environment.go -destination=mocks/mock_environment.go -package=mocks
type Environment interface {
	// Lookup returns the value of key and whether it is set to a non-empty value.
	Lookup(key string) (string, bool)
}

package ports

import "context"

// Executor defines the interface for running external commands.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs args[0] with the remaining arguments.
	//
	// The env parameter contains extra environment variables in "KEY=VALUE" format,
	// appended to the process environment.
	Execute(ctx context.Context, args []string, env []string) error
}

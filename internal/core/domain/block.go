package domain

import "slices"

// CommandFunc generates the ordered commands of a block from the resolved
// configuration and the fetched external dependencies.
type CommandFunc func(cfg *BuildConfig, ext Externals) ([]string, error)

// Block is a named, idempotent unit of build work. Blocks are immutable once built.
type Block struct {
	name          string
	generate      CommandFunc
	prerequisites []*Block
}

// NewBlock creates a block. A nil generator produces no command.
func NewBlock(name string, generate CommandFunc, prerequisites ...*Block) *Block {
	return &Block{
		name:          name,
		generate:      generate,
		prerequisites: slices.Clone(prerequisites),
	}
}

// Name returns the unique name of the block.
func (b *Block) Name() string {
	return b.name
}

// Prerequisites returns the declared prerequisites in order.
func (b *Block) Prerequisites() []*Block {
	return slices.Clone(b.prerequisites)
}

// Commands runs the command generator.
func (b *Block) Commands(cfg *BuildConfig, ext Externals) ([]string, error) {
	if b.generate == nil {
		return nil, nil
	}
	return b.generate(cfg, ext)
}

// Static returns a generator that always yields the given commands.
func Static(commands ...string) CommandFunc {
	return func(*BuildConfig, Externals) ([]string, error) {
		return slices.Clone(commands), nil
	}
}

// FlatBlock is a block as emitted by a flatten pass.
type FlatBlock struct {
	Name          string
	Prerequisites []string
	Commands      []string
}

// Binding is an ordered key/value pair used for make variables and environment exports.
type Binding struct {
	Key   string
	Value string
}

// Package domain contains the core domain models and business logic of the build environment.
package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// BlockGraph is a deduplicating DAG of named blocks.
// The first block registered under a name wins. Edges may be added until the
// first flatten, after which the graph is sealed.
type BlockGraph struct {
	blocks map[string]*Block
	edges  map[string][]string
	order  []string
	sealed bool
}

// NewBlockGraph creates an empty graph.
func NewBlockGraph() *BlockGraph {
	return &BlockGraph{
		blocks: make(map[string]*Block),
		edges:  make(map[string][]string),
	}
}

// Register declares a block and, recursively, its prerequisites.
// It returns the block effectively registered under the name.
func (g *BlockGraph) Register(b *Block) *Block {
	if existing, ok := g.blocks[b.name]; ok {
		return existing
	}
	g.blocks[b.name] = b
	g.order = append(g.order, b.name)

	deps := make([]string, 0, len(b.prerequisites))
	for _, p := range b.prerequisites {
		deps = append(deps, g.Register(p).name)
	}
	g.edges[b.name] = deps
	return b
}

// Lookup returns the block registered under name.
func (g *BlockGraph) Lookup(name string) (*Block, error) {
	b, ok := g.blocks[name]
	if !ok {
		return nil, zerr.With(ErrBlockNotFound, "block", name)
	}
	return b, nil
}

// Names returns the registered block names in registration order.
func (g *BlockGraph) Names() []string {
	return slices.Clone(g.order)
}

// PrerequisitesOf returns the prerequisite names of a block, including edges added later.
func (g *BlockGraph) PrerequisitesOf(name string) ([]string, error) {
	if _, ok := g.blocks[name]; !ok {
		return nil, zerr.With(ErrBlockNotFound, "block", name)
	}
	return slices.Clone(g.edges[name]), nil
}

// AddPrerequisite appends prereq to the prerequisites of the named block.
// The prerequisite is registered if unknown.
func (g *BlockGraph) AddPrerequisite(blockName string, prereq *Block) error {
	if g.sealed {
		return zerr.With(ErrGraphSealed, "block", blockName)
	}
	if _, ok := g.blocks[blockName]; !ok {
		return zerr.With(ErrBlockNotFound, "block", blockName)
	}
	dep := g.Register(prereq).name
	g.edges[blockName] = append(g.edges[blockName], dep)
	return nil
}

// Plan returns the emission order for the given roots without generating commands.
func (g *BlockGraph) Plan(roots []string) ([]string, error) {
	var names []string
	err := g.walk(roots, func(name string) error {
		names = append(names, name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// Flatten emits every block reachable from roots exactly once, each strictly
// after its prerequisites. Roots are visited in order and prerequisites in
// their declared order, so the output is deterministic.
func (g *BlockGraph) Flatten(roots []string, cfg *BuildConfig, ext Externals) ([]FlatBlock, error) {
	var flat []FlatBlock
	err := g.walk(roots, func(name string) error {
		cmds, err := g.blocks[name].Commands(cfg, ext)
		if err != nil {
			return zerr.With(zerr.Wrap(err, ErrCommandGenerationFailed.Error()), "block", name)
		}
		flat = append(flat, FlatBlock{
			Name:          name,
			Prerequisites: slices.Clone(g.edges[name]),
			Commands:      cmds,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return flat, nil
}

// walk performs the depth-first post-order traversal shared by Plan and Flatten.
func (g *BlockGraph) walk(roots []string, emit func(name string) error) error {
	g.sealed = true

	visited := make(map[string]int) // 0: unvisited, 1: visiting, 2: declared
	var path []string

	var visit func(name string) error
	visit = func(name string) error {
		if _, ok := g.blocks[name]; !ok {
			return zerr.With(ErrBlockNotFound, "block", name)
		}
		visited[name] = 1
		path = append(path, name)

		for _, dep := range g.edges[name] {
			switch visited[dep] {
			case 1:
				return buildCycleError(path, dep)
			case 0:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		if err := emit(name); err != nil {
			return err
		}
		visited[name] = 2
		path = path[:len(path)-1]
		return nil
	}

	for _, root := range roots {
		if visited[root] == 0 {
			if err := visit(root); err != nil {
				return err
			}
		}
	}
	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func buildCycleError(path []string, dep string) error {
	start := slices.Index(path, dep)
	cycle := append(slices.Clone(path[start:]), dep)
	return zerr.With(ErrCycleDetected, "cycle", strings.Join(cycle, " -> "))
}

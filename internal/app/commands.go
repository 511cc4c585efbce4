package app

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/domain"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/engine/catalog"
	"go.trai.ch/zerr"
)

// Fetch fetches the external dependencies without writing the build script.
func (a *App) Fetch(ctx context.Context, opts Options) (domain.Externals, error) {
	s, err := a.resolve(opts)
	if err != nil {
		return nil, err
	}
	return a.fetchAll(ctx, s)
}

// Blocks returns the emission order of the selected blocks without fetching.
func (a *App) Blocks(_ context.Context, opts Options) ([]string, error) {
	s, err := a.resolve(opts)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.New(s.cfg)
	if err != nil {
		return nil, err
	}
	roots, err := cat.Select(opts.Targets)
	if err != nil {
		return nil, err
	}
	return cat.Plan(roots)
}

// State describes a fetch-state record against the configured dependency.
type State string

const (
	// StateOK means the recorded fetch matches the configured dependency.
	StateOK State = "ok"
	// StateStale means the dependency changed since it was fetched.
	StateStale State = "stale"
	// StateMissing means the dependency was never fetched or was removed.
	StateMissing State = "missing"
	// StateUnused means a fetch-state record exists for a dependency the
	// configuration no longer needs.
	StateUnused State = "unused"
)

// DependencyStatus is the fetch state of one dependency.
type DependencyStatus struct {
	Name           string
	Version        string
	FetchedVersion string
	Path           string
	State          State
}

// Status compares the fetch-state records with the configured dependencies.
func (a *App) Status(_ context.Context, opts Options) ([]DependencyStatus, error) {
	s, err := a.resolve(opts)
	if err != nil {
		return nil, err
	}
	specs, err := catalog.Dependencies(s.cfg, s.manifest)
	if err != nil {
		return nil, err
	}

	records, err := a.store.List(s.cfg.RootDir)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]domain.FetchedPackage, len(records))
	for _, rec := range records {
		byName[rec.Name] = rec
	}

	statuses := make([]DependencyStatus, 0, len(specs)+len(records))
	for _, name := range slices.Sorted(maps.Keys(specs)) {
		spec := specs[name]
		st := DependencyStatus{Name: name, Version: spec.Version, State: StateMissing}
		if rec, ok := byName[name]; ok {
			st.FetchedVersion = rec.Version
			st.Path = rec.Path
			st.State = recordState(spec, rec)
		}
		statuses = append(statuses, st)
	}

	// Records are sorted by name.
	for _, rec := range records {
		if _, ok := specs[rec.Name]; ok {
			continue
		}
		statuses = append(statuses, DependencyStatus{
			Name:           rec.Name,
			FetchedVersion: rec.Version,
			Path:           rec.Path,
			State:          StateUnused,
		})
	}
	return statuses, nil
}

func recordState(spec domain.DependencySpec, rec domain.FetchedPackage) State {
	if _, err := os.Stat(rec.Path); err != nil {
		return StateMissing
	}
	if rec.Version != spec.Version || rec.URL != spec.ResolvedURL() {
		return StateStale
	}
	if spec.SHA256 != "" && !strings.EqualFold(rec.SHA256, spec.SHA256) {
		return StateStale
	}
	return StateOK
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	Root      string
	Externals bool
	State     bool
}

// Clean removes the fetched dependencies and the fetch state.
func (a *App) Clean(_ context.Context, options CleanOptions) error {
	root, err := absPath(options.Root, ".")
	if err != nil {
		return err
	}

	var errs error

	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	if options.Externals {
		manifest, err := a.configLoader.Load(root)
		if err != nil {
			return zerr.Wrap(err, "failed to load manifest")
		}
		external := domain.DefaultExternalPath(root)
		if manifest.ExternalDir != "" {
			external = manifest.ExternalDir
		}
		remove(external, "external dependencies")
	}

	if options.State {
		remove(domain.DefaultStatePath(root), "fetch state")
	}

	return errs
}

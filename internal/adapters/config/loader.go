// Package config provides the manifest loader and environment overrides for ngl-env.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/domain"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	FS     FileSystem
}

// NewLoader creates a new Loader reading from the OS filesystem.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, FS: NewOSFS()}
}

// NewLoaderWithFS creates a new Loader over the given filesystem.
func NewLoaderWithFS(logger ports.Logger, fsys FileSystem) *Loader {
	return &Loader{Logger: logger, FS: fsys}
}

// Load reads ngl-env.yaml from root. A missing manifest yields an empty one.
func (l *Loader) Load(root string) (*domain.Manifest, error) {
	path := domain.DefaultManifestPath(root)

	if _, err := l.FS.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &domain.Manifest{}, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var dto Manifest
	if err := l.readAndUnmarshalYAML(path, &dto); err != nil {
		return nil, zerr.With(err, "path", path)
	}

	manifest := &domain.Manifest{
		ExternalDir:  dto.ExternalDir,
		Dependencies: make(map[string]domain.DependencySpec, len(dto.Dependencies)),
	}
	if manifest.ExternalDir != "" && !filepath.IsAbs(manifest.ExternalDir) {
		manifest.ExternalDir = filepath.Join(root, manifest.ExternalDir)
	}

	for name, dep := range dto.Dependencies {
		if dep == nil {
			return nil, zerr.With(zerr.With(domain.ErrInvalidDependency, "dependency", name), "reason", "empty definition")
		}
		spec := domain.DependencySpec{
			Name:    name,
			Version: dep.Version,
			URL:     dep.URL,
			DstFile: dep.DstFile,
			SHA256:  dep.SHA256,
			Kind:    domain.DependencyKind(dep.Kind),
			Branch:  dep.Branch,
		}
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		if spec.EffectiveKind() == domain.KindArchive && spec.SHA256 == "" {
			l.Logger.Warn("dependency " + name + " has no sha256, it will only be downloaded when missing")
		}
		manifest.Dependencies[name] = spec
	}

	return manifest, nil
}

func (l *Loader) readAndUnmarshalYAML(path string, target *Manifest) error {
	data, err := l.FS.ReadFile(path)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}
	return nil
}

// Package cas implements the fetch-state store.
package cas

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	fsutil "github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/fs"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/domain"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FetchStore = (*Store)(nil)

// Store implements ports.FetchStore using a file-per-dependency strategy.
// Records live in <root>/.ngl-env/store/<xxhash of name>.json.
type Store struct{}

// NewStore creates a new FetchStore.
func NewStore() *Store {
	return &Store{}
}

// Get retrieves the fetch record of a dependency.
func (s *Store) Get(root, name string) (*domain.FetchedPackage, error) {
	filename := s.getFilename(root, name)
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "dependency", name)
	}

	var pkg domain.FetchedPackage
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "dependency", name)
	}
	return &pkg, nil
}

// Put stores the fetch record of a dependency.
func (s *Store) Put(root string, pkg domain.FetchedPackage) error {
	data, err := json.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	filename := s.getFilename(root, pkg.Name)
	if err := os.MkdirAll(filepath.Dir(filename), domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	if err := fsutil.WriteFileAtomic(filename, data); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "dependency", pkg.Name)
	}
	return nil
}

// List returns every stored record sorted by name.
func (s *Store) List(root string) ([]domain.FetchedPackage, error) {
	dir := domain.DefaultStorePath(root)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	var pkgs []domain.FetchedPackage
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		//nolint:gosec // Path is constructed from trusted directory
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "file", e.Name())
		}
		var pkg domain.FetchedPackage
		if err := json.Unmarshal(data, &pkg); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "file", e.Name())
		}
		pkgs = append(pkgs, pkg)
	}

	slices.SortFunc(pkgs, func(a, b domain.FetchedPackage) int {
		return strings.Compare(a.Name, b.Name)
	})
	return pkgs, nil
}

func (s *Store) getFilename(root, name string) string {
	key := fmt.Sprintf("%016x", xxhash.Sum64String(name))
	return filepath.Join(domain.DefaultStorePath(root), key+".json")
}

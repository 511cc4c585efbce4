package domain

import "path/filepath"

const (
	// StateDirName is the name of the internal state directory.
	StateDirName = ".ngl-env"

	// StoreDirName is the name of the fetch state store directory.
	StoreDirName = "store"

	// ExternalDirName is the name of the shared external sources directory.
	ExternalDirName = "external"

	// VenvDirName is the default name of the Python virtual environment directory.
	VenvDirName = "venv"

	// ManifestFileName is the name of the optional dependency manifest.
	ManifestFileName = "ngl-env.yaml"

	// MakefileName is the name of the generated build script.
	MakefileName = "Makefile"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultStatePath returns the state directory below root.
func DefaultStatePath(root string) string {
	return filepath.Join(root, StateDirName)
}

// DefaultStorePath returns the fetch state store directory below root.
// It joins .ngl-env and store.
func DefaultStorePath(root string) string {
	return filepath.Join(root, StateDirName, StoreDirName)
}

// DefaultExternalPath returns the external sources directory below root.
func DefaultExternalPath(root string) string {
	return filepath.Join(root, ExternalDirName)
}

// DefaultVenvPath returns the default virtual environment directory below root.
func DefaultVenvPath(root string) string {
	return filepath.Join(root, VenvDirName)
}

// DefaultMakefilePath returns the generated Makefile path below root.
func DefaultMakefilePath(root string) string {
	return filepath.Join(root, MakefileName)
}

// DefaultManifestPath returns the manifest path below root.
func DefaultManifestPath(root string) string {
	return filepath.Join(root, ManifestFileName)
}

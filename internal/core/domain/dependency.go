package domain

import (
	"path"
	"strings"
	"time"

	"go.trai.ch/zerr"
)

// VersionPlaceholder is substituted with the dependency version in URL and file templates.
const VersionPlaceholder = "@VERSION@"

// DefaultGitBranch is cloned when a git dependency does not pin a branch.
const DefaultGitBranch = "main"

// DependencyKind tells how a dependency is acquired.
type DependencyKind string

const (
	// KindArchive is a checksum-verified archive downloaded over HTTP.
	KindArchive DependencyKind = "archive"
	// KindGit is a git repository cloned at a pinned branch.
	KindGit DependencyKind = "git"
)

// DependencySpec describes an external source dependency.
type DependencySpec struct {
	Name    string
	Version string
	// URL may contain VersionPlaceholder.
	URL string
	// DstFile may contain VersionPlaceholder. It defaults to the URL basename.
	DstFile string
	// SHA256 is the expected hex digest of the archive, if known.
	SHA256 string
	Kind   DependencyKind
	Branch string
}

// EffectiveKind returns the declared kind, inferring git for URLs ending in .git.
func (s DependencySpec) EffectiveKind() DependencyKind {
	if s.Kind != "" {
		return s.Kind
	}
	if strings.HasSuffix(s.URL, ".git") {
		return KindGit
	}
	return KindArchive
}

// ResolvedURL returns the URL with the version substituted.
func (s DependencySpec) ResolvedURL() string {
	return strings.ReplaceAll(s.URL, VersionPlaceholder, s.Version)
}

// ResolvedDstFile returns the local file or directory name with the version substituted.
// A trailing .git suffix is stripped so clones land in a plain directory.
func (s DependencySpec) ResolvedDstFile() string {
	dst := s.DstFile
	if dst == "" {
		dst = path.Base(s.URL)
	}
	dst = strings.ReplaceAll(dst, VersionPlaceholder, s.Version)
	return strings.TrimSuffix(dst, ".git")
}

// GitBranch returns the branch to clone.
func (s DependencySpec) GitBranch() string {
	if s.Branch == "" {
		return DefaultGitBranch
	}
	return s.Branch
}

// Validate checks that the spec can be fetched.
func (s DependencySpec) Validate() error {
	if s.Name == "" {
		return zerr.With(ErrInvalidDependency, "reason", "missing name")
	}
	if s.URL == "" {
		err := zerr.With(ErrInvalidDependency, "dependency", s.Name)
		return zerr.With(err, "reason", "missing url")
	}
	switch s.EffectiveKind() {
	case KindArchive, KindGit:
	default:
		err := zerr.With(ErrInvalidDependency, "dependency", s.Name)
		return zerr.With(err, "kind", string(s.Kind))
	}
	dst := s.ResolvedDstFile()
	if dst == "" || dst == "." || dst == "/" || strings.ContainsAny(dst, `/\`) {
		err := zerr.With(ErrInvalidDependency, "dependency", s.Name)
		return zerr.With(err, "dst_file", dst)
	}
	return nil
}

// AliasMode records how an alias was published.
type AliasMode string

const (
	// AliasNone is used for git dependencies, which are cloned under their alias name directly.
	AliasNone AliasMode = "none"
	// AliasSymlink is a relative symbolic link.
	AliasSymlink AliasMode = "symlink"
	// AliasCopy is a full recursive copy.
	AliasCopy AliasMode = "copy"
)

// FetchedPackage is the local materialization of a DependencySpec.
type FetchedPackage struct {
	Name    string         `json:"name"`
	Version string         `json:"version,omitempty"`
	Kind    DependencyKind `json:"kind"`
	URL     string         `json:"url"`
	// Path is the stable location of the package, the alias for archives.
	Path string `json:"path"`
	// Archive is the downloaded archive, empty for git dependencies.
	Archive string `json:"archive,omitempty"`
	// ExtractDir is the versioned extraction directory, empty for git dependencies.
	ExtractDir string    `json:"extractDir,omitempty"`
	SHA256     string    `json:"sha256,omitempty"`
	AliasMode  AliasMode `json:"aliasMode"`
	FetchedAt  time.Time `json:"fetchedAt"`
}

// Externals maps dependency names to local directories.
type Externals map[string]string

// Lookup returns the directory of a fetched dependency.
func (e Externals) Lookup(name string) (string, error) {
	p, ok := e[name]
	if !ok {
		return "", zerr.With(ErrExternalNotFetched, "dependency", name)
	}
	return p, nil
}

// Manifest is the optional project manifest that overrides the built-in dependency table.
type Manifest struct {
	// ExternalDir is relative to the project root when not absolute.
	ExternalDir  string
	Dependencies map[string]DependencySpec
}

package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// GuessBaseDir returns the top-level directory of an archive from its directory members.
// The shallowest path wins. Several distinct paths at the shallowest depth make the
// result ambiguous and an error is returned instead of picking one.
func GuessBaseDir(dirs []string) (string, error) {
	var (
		shallowest []string
		minDepth   int
	)

	for _, d := range dirs {
		clean := normalizeMemberPath(d)
		if clean == "" {
			continue
		}
		depth := strings.Count(clean, "/") + 1
		switch {
		case len(shallowest) == 0 || depth < minDepth:
			shallowest = []string{clean}
			minDepth = depth
		case depth == minDepth && !slices.Contains(shallowest, clean):
			shallowest = append(shallowest, clean)
		}
	}

	if len(shallowest) == 0 {
		return "", ErrEmptyArchive
	}
	if len(shallowest) > 1 {
		slices.Sort(shallowest)
		return "", zerr.With(ErrAmbiguousBaseDir, "candidates", strings.Join(shallowest, ", "))
	}

	base, _, _ := strings.Cut(shallowest[0], "/")
	return base, nil
}

// MemberDirs returns the directory part of every archive member: explicit directory
// entries as well as every parent directory of a file.
func MemberDirs(members []string, isDir func(i int) bool) []string {
	seen := make(map[string]struct{})
	var dirs []string

	add := func(d string) {
		if d == "" {
			return
		}
		if _, ok := seen[d]; ok {
			return
		}
		seen[d] = struct{}{}
		dirs = append(dirs, d)
	}

	for i, m := range members {
		clean := normalizeMemberPath(m)
		if clean == "" {
			continue
		}
		if isDir != nil && isDir(i) {
			add(clean)
		}
		for dir := parentOf(clean); dir != ""; dir = parentOf(dir) {
			add(dir)
		}
	}

	return dirs
}

func parentOf(p string) string {
	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return ""
	}
	return p[:idx]
}

func normalizeMemberPath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	p = strings.TrimLeft(p, "/")
	p = strings.TrimRight(p, "/")
	if p == "." {
		return ""
	}
	return p
}

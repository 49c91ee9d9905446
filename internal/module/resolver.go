package module

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Resolver maps an import path to a file on disk, independent of caching or
// cycle detection — kept as its own type (mirroring the teacher's
// Loader/Resolver split) so Loader only has to orchestrate the cache and
// its in-progress table.
type Resolver struct {
	searchPaths []string
}

// NewResolver builds a Resolver searching the current directory plus
// whatever extra directories are given (module search paths from
// internal/config, typically).
func NewResolver(extra ...string) *Resolver {
	paths := append([]string{"."}, extra...)
	return &Resolver{searchPaths: paths}
}

// AddSearchPath appends a directory to the resolver's search order.
func (r *Resolver) AddSearchPath(dir string) {
	r.searchPaths = append(r.searchPaths, dir)
}

func withExt(p string) string {
	if !strings.HasSuffix(p, ".jl") {
		return p + ".jl"
	}
	return p
}

// Resolve finds the absolute file path for importPath. Relative imports
// ("./foo", "../foo") resolve against fromFile's directory, or against the
// current directory when fromFile is empty; anything else
// is searched across the configured search paths in order.
func (r *Resolver) Resolve(importPath, fromFile string) (string, error) {
	if strings.HasPrefix(importPath, "./") || strings.HasPrefix(importPath, "../") {
		dir := filepath.Dir(fromFile)
		if fromFile == "" {
			dir, _ = os.Getwd()
		}
		path := withExt(filepath.Join(dir, importPath))
		if _, err := os.Stat(path); err == nil {
			return filepath.Abs(path)
		}
		return "", fmt.Errorf("relative module not found: %s", path)
	}

	for _, dir := range r.searchPaths {
		path := withExt(filepath.Join(dir, importPath))
		if _, err := os.Stat(path); err == nil {
			return filepath.Abs(path)
		}
	}
	return "", fmt.Errorf("not found in search paths %v: %s", r.searchPaths, importPath)
}

// Identity derives a canonical module identity from a resolved file path:
// the path relative to the nearest search-path root, extension stripped.
func (r *Resolver) Identity(filePath string) string {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		abs = filePath
	}
	for _, dir := range r.searchPaths {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		if rel, err := filepath.Rel(absDir, abs); err == nil && !strings.HasPrefix(rel, "..") {
			return strings.TrimSuffix(strings.ReplaceAll(rel, string(filepath.Separator), "/"), ".jl")
		}
	}
	return strings.TrimSuffix(filepath.Base(abs), ".jl")
}

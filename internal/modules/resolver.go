// Package modules resolves `import` paths to source files on disk.
package modules

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ry-lang/ry/internal/config"
)

// Resolver locates module source files. Lookup order: the literal path,
// then the path with each recognized extension appended, first relative to
// the base directory and then under each configured module path.
type Resolver struct {
	BaseDir     string
	SearchPaths []string
}

// NewResolver anchors resolution at baseDir and picks up extra search
// paths from the project's ry.yaml, when present.
func NewResolver(baseDir string) *Resolver {
	if baseDir == "" {
		baseDir, _ = os.Getwd()
	}
	r := &Resolver{BaseDir: baseDir}
	if project, err := config.LoadProject(baseDir); err == nil {
		r.SearchPaths = project.ModulePaths
	}
	return r
}

// Resolve returns the absolute path of the module source file, which is
// also the module-cache key.
func (r *Resolver) Resolve(name string) (string, error) {
	roots := append([]string{r.BaseDir}, r.SearchPaths...)
	if filepath.IsAbs(name) {
		roots = []string{""}
	}

	for _, root := range roots {
		for _, candidate := range candidates(name) {
			path := candidate
			if root != "" {
				path = filepath.Join(root, candidate)
			}
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return filepath.Abs(path)
			}
		}
	}

	return "", fmt.Errorf("could not resolve module '%s'", name)
}

func candidates(name string) []string {
	out := []string{name}
	for _, ext := range config.SourceFileExtensions {
		if filepath.Ext(name) != ext {
			out = append(out, name+ext)
		}
	}
	return out
}

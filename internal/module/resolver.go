// Package module implements §6 module resolution: #mod("name") registry
// lookups and #import("path") sibling-file resolution, plus the module
// dependency graph (cycle detection) built from the import specs HIR
// lowering leaves unresolved (hir.ImportSpec). Grounded on the teacher's
// internal/module/resolver.go (name -> path normalization) split from
// internal/module/loader.go (path -> parsed module, cache, cycle stack),
// kept as two files here for the same separation of concerns.
package module

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Resolver turns one hir.ImportSpec into a filesystem path, without parsing
// it — parsing is the external collaborator's job (§1 Non-goals: lexer and
// parser are out of scope), handed back to the caller via FileSource.
type Resolver struct {
	// ModDir is the configurable modules directory (§6 CLI surface,
	// `--mod-dir`); registry modules live at ModDir/<name>/.
	ModDir string
}

// NewResolver creates a Resolver rooted at modDir. An empty modDir defaults
// to "<user-cache-dir>/capy/modules", mirroring the teacher's
// getDefaultSearchPaths falling back to a user-home location when no
// explicit directory is configured.
func NewResolver(modDir string) *Resolver {
	if modDir == "" {
		modDir = defaultModDir()
	}
	return &Resolver{ModDir: modDir}
}

func defaultModDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "capy", "modules")
	}
	return filepath.Join(".", ".capy-modules")
}

// ResolveFileImport resolves `#import("path")` relative to the importing
// file (§6 "resolves relative to the importing file").
func (r *Resolver) ResolveFileImport(importPath, fromFile string) (string, error) {
	dir := filepath.Dir(fromFile)
	path := filepath.Join(dir, importPath)
	if !strings.HasSuffix(path, ".capy") {
		path += ".capy"
	}
	path = filepath.Clean(path)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("module not found: #import(%q) from %s", importPath, fromFile)
	}
	return path, nil
}

// ResolveModImport resolves `#mod("name")` under the configured modules
// directory (§6 "resolves under a configurable modules directory"). It
// never fetches: a caller wanting automatic download of the missing
// "core" module calls EnsureFetched first (see fetch.go).
func (r *Resolver) ResolveModImport(name string) (string, error) {
	entry := filepath.Join(r.ModDir, name, name+".capy")
	if _, err := os.Stat(entry); err != nil {
		return "", fmt.Errorf("registry module %q not found under %s", name, r.ModDir)
	}
	return entry, nil
}

// HasMod reports whether name is already present under ModDir, without
// attempting a fetch.
func (r *Resolver) HasMod(name string) bool {
	_, err := os.Stat(filepath.Join(r.ModDir, name))
	return err == nil
}

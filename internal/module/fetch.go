package module

import (
	"fmt"
)

// ModuleFetcher downloads a registry module's sources into destDir. §1
// names "module fetcher (downloads a 'core' module from a registry)" as an
// external collaborator; this interface is the narrow seam the driver
// wires a concrete HTTP client into, mirroring how internal/comptime and
// internal/codegen take narrow late-bound interfaces rather than importing
// each other's concrete types.
type ModuleFetcher interface {
	Fetch(name, destDir string) error
}

// NoFetch is the zero-value ModuleFetcher: every fetch fails closed,
// matching a headless/offline compilation where network access is simply
// not configured (§6 only "core" is ever auto-fetched, and only when
// absent).
type NoFetch struct{}

func (NoFetch) Fetch(name, destDir string) error {
	return fmt.Errorf("module %q not present locally and no fetcher configured", name)
}

// EnsureFetched resolves name under r.ModDir, invoking fetcher to download
// it first if it is missing and name is "core" (§6: "If the directory
// lacks <name>, and <name> equals 'core', the driver may download it from
// a preconfigured URL"). Any other missing module is left to the caller to
// report as an ordinary resolution failure — only "core" gets this
// special-cased auto-fetch.
func (r *Resolver) EnsureFetched(name string, fetcher ModuleFetcher) error {
	if r.HasMod(name) {
		return nil
	}
	if name != "core" {
		return fmt.Errorf("registry module %q not found under %s", name, r.ModDir)
	}
	if fetcher == nil {
		fetcher = NoFetch{}
	}
	if err := fetcher.Fetch(name, r.ModDir); err != nil {
		return fmt.Errorf("fetching registry module %q: %w", name, err)
	}
	return nil
}

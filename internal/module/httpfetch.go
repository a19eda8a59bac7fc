package module

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// DefaultRegistryURL is the preconfigured download location for the
// "core" registry module (§6 "the driver may download it from a
// preconfigured URL"). A single flat file is fetched: one source file per
// registry module name, no package manifest inside the download.
const DefaultRegistryURL = "https://registry.capy-lang.org/modules"

// HTTPFetcher is the concrete ModuleFetcher the driver wires in when
// network access is permitted; left unwired by default so an offline
// compile fails closed with NoFetch's plain error instead of hanging on a
// DNS lookup (§1 "module fetcher ... external collaborator").
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPFetcher builds a fetcher rooted at baseURL (DefaultRegistryURL if
// empty) with a bounded timeout, since a compile should never hang
// indefinitely on a slow registry.
func NewHTTPFetcher(baseURL string) *HTTPFetcher {
	if baseURL == "" {
		baseURL = DefaultRegistryURL
	}
	return &HTTPFetcher{BaseURL: baseURL, Client: &http.Client{Timeout: 15 * time.Second}}
}

// Fetch downloads <BaseURL>/<name>/<name>.capy into destDir/<name>/<name>.capy,
// matching the layout Resolver.ResolveModImport expects.
func (f *HTTPFetcher) Fetch(name, destDir string) error {
	url := fmt.Sprintf("%s/%s/%s.capy", f.BaseURL, name, name)
	resp, err := f.Client.Get(url)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}

	dir := filepath.Join(destDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating module directory %s: %w", dir, err)
	}
	out, err := os.Create(filepath.Join(dir, name+".capy"))
	if err != nil {
		return fmt.Errorf("creating %s/%s.capy: %w", dir, name, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("writing %s/%s.capy: %w", dir, name, err)
	}
	return nil
}

package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/capy-lang/capyc/internal/types"
)

// Index is the accompanying metadata file recording which content hash
// produced which type id, so a cache hit can be reflected-type-checked
// before reuse (§6: "a cache hit can be reflected-type-checked before
// reuse") without first reading and decoding the (possibly large) .bin
// payload. Encoded with gopkg.in/yaml.v3, matching this module's registry
// manifest encoding.
type Index struct {
	Entries map[string]uint32 `yaml:"entries"` // content hash -> type id
}

func newIndex() *Index { return &Index{Entries: make(map[string]uint32)} }

func (c *Cache) indexPath() string {
	return filepath.Join(c.Dir, "comptime", "index.yaml")
}

// LoadIndex reads the cache's index file, returning an empty Index if none
// exists yet.
func (c *Cache) LoadIndex() (*Index, error) {
	data, err := os.ReadFile(c.indexPath())
	if os.IsNotExist(err) {
		return newIndex(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache index: %w", err)
	}
	var idx Index
	if err := yaml.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parsing cache index: %w", err)
	}
	if idx.Entries == nil {
		idx.Entries = make(map[string]uint32)
	}
	return &idx, nil
}

// SaveIndex writes idx back to disk.
func (c *Cache) SaveIndex(idx *Index) error {
	dir := filepath.Join(c.Dir, "comptime")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating comptime cache directory: %w", err)
	}
	data, err := yaml.Marshal(idx)
	if err != nil {
		return fmt.Errorf("encoding cache index: %w", err)
	}
	return os.WriteFile(c.indexPath(), data, 0o644)
}

// Record updates idx with hash -> typeID and persists it, the index-side
// counterpart to Cache.Put.
func (c *Cache) Record(idx *Index, hash string, typeID types.ID) error {
	idx.Entries[hash] = uint32(typeID)
	return c.SaveIndex(idx)
}

// TypeIDFor reports the type id previously recorded for hash, if any.
func (idx *Index) TypeIDFor(hash string) (types.ID, bool) {
	v, ok := idx.Entries[hash]
	return types.ID(v), ok
}

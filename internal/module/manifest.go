package module

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ManifestSchema is the manifest's schema identifier, mirroring the
// teacher's manifest.SchemaVersion ("ailang.manifest/v1") constant shape.
const ManifestSchema = "capy.module-manifest/v1"

// Manifest is the project-level `capy.mod.yaml` file: the set of declared
// `#mod(...)` dependencies plus their resolved, pinned versions (§6
// "[supplemented from original_source/] ... a lockfile pinning the
// resolved registry version"). Grounded on the teacher's
// internal/manifest.Manifest struct shape (schema + generator + payload),
// re-encoded in YAML per SPEC_FULL's "Registry manifests" dependency
// (gopkg.in/yaml.v3) rather than the teacher's own JSON encoding.
type Manifest struct {
	Schema    string            `yaml:"schema"`
	Module    string            `yaml:"module"`
	Requires  []string          `yaml:"requires"`
	Locked    map[string]string `yaml:"locked,omitempty"`
}

// NewManifest creates an empty manifest for the given project module name.
func NewManifest(moduleName string) *Manifest {
	return &Manifest{
		Schema: ManifestSchema,
		Module: moduleName,
		Locked: make(map[string]string),
	}
}

// LoadManifest reads and parses a capy.mod.yaml file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if m.Locked == nil {
		m.Locked = make(map[string]string)
	}
	return &m, nil
}

// Save writes the manifest back to path, creating parent directories as
// needed (registry module caches are created lazily, §6).
func (m *Manifest) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating manifest directory: %w", err)
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Lock records the resolved version for a registry module, so that a
// repeated `#mod("core")` resolution reuses the pinned version instead of
// re-resolving against the registry (§6 supplemented lockfile behavior).
func (m *Manifest) Lock(name, version string) {
	if m.Locked == nil {
		m.Locked = make(map[string]string)
	}
	m.Locked[name] = version
}

// LockedVersion reports the pinned version for name, if any.
func (m *Manifest) LockedVersion(name string) (string, bool) {
	v, ok := m.Locked[name]
	return v, ok
}

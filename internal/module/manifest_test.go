package module

import (
	"path/filepath"
	"testing"
)

func TestManifestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "capy.mod.yaml")

	m := NewManifest("example.com/hello")
	m.Requires = []string{"core"}
	m.Lock("core", "1.4.0")

	if err := m.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if loaded.Module != "example.com/hello" {
		t.Errorf("Module = %q, want example.com/hello", loaded.Module)
	}
	if v, ok := loaded.LockedVersion("core"); !ok || v != "1.4.0" {
		t.Errorf("LockedVersion(core) = (%q, %v), want (1.4.0, true)", v, ok)
	}
}

func TestManifestLockedVersionMissing(t *testing.T) {
	m := NewManifest("example.com/hello")
	if _, ok := m.LockedVersion("core"); ok {
		t.Error("expected no locked version for an empty manifest")
	}
}

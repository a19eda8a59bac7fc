package module

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveFileImport(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "main.capy")
	sibling := filepath.Join(dir, "util.capy")
	if err := os.WriteFile(entry, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(sibling, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(dir)
	got, err := r.ResolveFileImport("util", entry)
	if err != nil {
		t.Fatalf("ResolveFileImport: %v", err)
	}
	if got != sibling {
		t.Errorf("got %s, want %s", got, sibling)
	}
}

func TestResolveFileImportMissing(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "main.capy")
	r := NewResolver(dir)
	if _, err := r.ResolveFileImport("nope", entry); err == nil {
		t.Fatal("expected an error for a missing sibling import")
	}
}

func TestResolveModImport(t *testing.T) {
	modDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(modDir, "core"), 0o755); err != nil {
		t.Fatal(err)
	}
	entry := filepath.Join(modDir, "core", "core.capy")
	if err := os.WriteFile(entry, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(modDir)
	got, err := r.ResolveModImport("core")
	if err != nil {
		t.Fatalf("ResolveModImport: %v", err)
	}
	if got != entry {
		t.Errorf("got %s, want %s", got, entry)
	}
	if !r.HasMod("core") {
		t.Error("HasMod(core) = false, want true")
	}
	if r.HasMod("doesnotexist") {
		t.Error("HasMod(doesnotexist) = true, want false")
	}
}

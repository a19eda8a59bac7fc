package cache

import (
	"bytes"
	"testing"

	"github.com/capy-lang/capyc/internal/types"
)

func TestPutGetRoundTrip(t *testing.T) {
	c := New(t.TempDir())
	want := Entry{TypeID: 7, Bytes: []byte{1, 2, 3, 4}}

	if err := c.Put("deadbeef", want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok := c.Get("deadbeef")
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if got.TypeID != want.TypeID || !bytes.Equal(got.Bytes, want.Bytes) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestGetMissReturnsFalse(t *testing.T) {
	c := New(t.TempDir())
	if _, ok := c.Get("never-written"); ok {
		t.Fatal("expected a cache miss for a nonexistent hash")
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	if _, err := decode([]byte("not-a-cache-entry")); err == nil {
		t.Fatal("expected an error for a corrupt entry")
	}
}

func TestDecodeRejectsFutureVersion(t *testing.T) {
	e := encode(Entry{TypeID: 1, Bytes: []byte{0xAA}})
	// Corrupt the version field (bytes 4..8, little-endian u32) to an
	// unsupported value.
	e[4] = 0xFF
	if _, err := decode(e); err == nil {
		t.Fatal("expected an error for an unsupported format version")
	}
}

func TestIndexRecordAndLoad(t *testing.T) {
	c := New(t.TempDir())
	idx, err := c.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	if err := c.Record(idx, "abc123", types.ID(42)); err != nil {
		t.Fatalf("Record: %v", err)
	}

	reloaded, err := c.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex (reload): %v", err)
	}
	ty, ok := reloaded.TypeIDFor("abc123")
	if !ok || ty != types.ID(42) {
		t.Errorf("TypeIDFor(abc123) = (%v, %v), want (42, true)", ty, ok)
	}
}

func TestIndexMissingEntry(t *testing.T) {
	idx := newIndex()
	if _, ok := idx.TypeIDFor("nope"); ok {
		t.Error("expected no entry for an unrecorded hash")
	}
}

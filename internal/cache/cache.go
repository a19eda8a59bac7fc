// Package cache implements the on-disk comptime result cache (§6):
// `<cache>/comptime/<content-hash>.bin`, magic "CPYC". A cache hit lets a
// repeated compilation skip re-running a comptime block whose source
// bytes and captured-const snapshot are unchanged (§4.4 "the engine is
// allowed (not required) to memoize"; this is the cross-run analog of the
// in-process Engine.memo map). Grounded on the teacher's
// internal/manifest schema/versioning approach for the binary header
// shape, and on gopkg.in/yaml.v3 for the accompanying index file (content
// hash -> type id), per SPEC_FULL's "Registry manifests" dependency.
package cache

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/capy-lang/capyc/internal/types"
)

// Magic identifies a capyc comptime cache entry file (§6).
const Magic = "CPYC"

// FormatVersion is the binary header's version field. Bumped whenever the
// on-disk layout changes incompatibly.
const FormatVersion uint32 = 1

// Entry is one cached comptime result: the type the bytes were produced
// for, and the raw bytes themselves (the same representation
// comptime.SerializeValue produces).
type Entry struct {
	TypeID types.ID
	Bytes  []byte
}

// Cache is rooted at a directory (typically "<home-cache-dir>/capy"); its
// comptime sub-directory holds one file per content hash (§6).
type Cache struct {
	Dir string
}

// New creates a Cache rooted at dir. An empty dir resolves to the optional
// home-directory cache path §6 "Environment variables" describes ("an
// optional home-directory cache path is honored if present").
func New(dir string) *Cache {
	if dir == "" {
		if home, err := os.UserCacheDir(); err == nil {
			dir = filepath.Join(home, "capy")
		} else {
			dir = filepath.Join(".", ".capy-cache")
		}
	}
	return &Cache{Dir: dir}
}

func (c *Cache) path(hash string) string {
	return filepath.Join(c.Dir, "comptime", hash+".bin")
}

// Get reads a cached entry for hash, returning (nil, false) on a cache
// miss (missing file, bad magic, or a version the running compiler
// doesn't understand — a stale cache entry from an older capyc is treated
// as absent rather than as an error, so a version bump never fails a
// build).
func (c *Cache) Get(hash string) (*Entry, bool) {
	data, err := os.ReadFile(c.path(hash))
	if err != nil {
		return nil, false
	}
	e, err := decode(data)
	if err != nil {
		return nil, false
	}
	return e, true
}

// Put writes an entry for hash, creating the comptime/ directory as
// needed.
func (c *Cache) Put(hash string, e Entry) error {
	dir := filepath.Join(c.Dir, "comptime")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating comptime cache directory: %w", err)
	}
	return os.WriteFile(c.path(hash), encode(e), 0o644)
}

// encode renders an Entry to the §6 binary layout:
// { magic: "CPYC", version: u32, type_id: u32, byte_len: u32, bytes: ... }
func encode(e Entry) []byte {
	var buf bytes.Buffer
	buf.WriteString(Magic)
	_ = binary.Write(&buf, binary.LittleEndian, FormatVersion)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(e.TypeID))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(e.Bytes)))
	buf.Write(e.Bytes)
	return buf.Bytes()
}

func decode(data []byte) (*Entry, error) {
	r := bytes.NewReader(data)

	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(r, magic); err != nil || string(magic) != Magic {
		return nil, fmt.Errorf("bad cache file magic")
	}

	var version, typeID, byteLen uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, err
	}
	if version != FormatVersion {
		return nil, fmt.Errorf("unsupported cache format version %d", version)
	}
	if err := binary.Read(r, binary.LittleEndian, &typeID); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &byteLen); err != nil {
		return nil, err
	}

	payload := make([]byte, byteLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("truncated cache entry: %w", err)
	}

	return &Entry{TypeID: types.ID(typeID), Bytes: payload}, nil
}

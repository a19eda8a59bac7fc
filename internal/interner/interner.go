// Package interner deduplicates identifiers and string literals into stable
// opaque keys, guaranteeing pointer stability of the stored string content
// for the life of a compilation.
package interner

import (
	"sync"

	"golang.org/x/text/unicode/norm"
)

// Key is a stable 32-bit handle produced by Intern. Keys are never reused
// and never deleted: the interner only grows for the life of a compilation.
type Key uint32

// Interner maps string content to a dense Key. It is safe to construct one
// per compilation; per §5 of the spec there is no concurrent access within
// a single compilation, so no locking is required on the hot path, but a
// mutex guards against accidental reuse across goroutines (e.g. a driver
// that fans out diagnostics rendering while still interning late names).
type Interner struct {
	mu      sync.Mutex
	byBytes map[string]Key
	strings []string
}

// New returns an empty Interner.
func New() *Interner {
	return &Interner{
		byBytes: make(map[string]Key, 256),
	}
}

// Intern normalizes bytes to NFC (so identifiers that are byte-distinct but
// canonically equivalent collide, matching the lexer's normalize-before-intern
// convention) and returns its stable key, allocating one if this is the
// first occurrence.
func (in *Interner) Intern(s string) Key {
	normalized := norm.NFC.String(s)

	in.mu.Lock()
	defer in.mu.Unlock()

	if k, ok := in.byBytes[normalized]; ok {
		return k
	}
	k := Key(len(in.strings))
	in.strings = append(in.strings, normalized)
	in.byBytes[normalized] = k
	return k
}

// Lookup returns the canonical string for a key. Panics if the key was
// never produced by this interner; callers only ever hold keys the
// interner itself minted.
func (in *Interner) Lookup(k Key) string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.strings[k]
}

// Len reports how many distinct strings have been interned.
func (in *Interner) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.strings)
}

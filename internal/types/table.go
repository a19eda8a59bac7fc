package types

import "sync"

// Table is the append-only, shared type registry (§3 "Lifecycle": types
// are created lazily during HIR-Ty, never freed; §5 "no locking required
// because there is no concurrency" — the mutex here only guards against
// accidental fan-out in tests and the REPL, not steady-state compilation).
type Table struct {
	mu      sync.Mutex
	byID    []Type
	structural map[string]ID // canonical String() -> ID, for structural dedup
	nextTag uint64
}

// NewTable seeds a Table with the built-in scalar types so their ids are
// stable across every compilation (registration order is part of the
// total order §3 requires).
func NewTable() *Table {
	t := &Table{structural: make(map[string]ID, 64)}
	for _, bits := range []BitWidth{W8, W16, W32, W64, W128, WSize} {
		t.Intern(&Int{Bits: bits, Signed: true})
		t.Intern(&Int{Bits: bits, Signed: false})
	}
	t.Intern(&Float{Bits: W32})
	t.Intern(&Float{Bits: W64})
	t.Intern(&Bool{})
	t.Intern(&Char{})
	t.Intern(&String{})
	t.Intern(&Void{})
	t.Intern(&MetaType{})
	t.Intern(&Any{})
	t.Intern(&RawPtr{Mutable: false})
	t.Intern(&RawPtr{Mutable: true})
	t.Intern(&RawSlice{})
	return t
}

// Intern registers ty if an Equals-structural match isn't already present,
// returning the canonical id either way. Distinct, Enum and Variant nodes
// (which carry a tag or pointer identity) always register fresh entries;
// every other type, structs and functions included, collapses onto one
// shared entry per String() form, which is what makes two
// structurally-identical type expressions compare equal as ids (Testable
// Property 2).
func (t *Table) Intern(ty Type) ID {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !isStructurallyShareable(ty) {
		id := ID(len(t.byID))
		t.byID = append(t.byID, ty)
		return id
	}

	key := ty.String() + "#" + ty.kind()
	if id, ok := t.structural[key]; ok {
		return id
	}
	id := ID(len(t.byID))
	t.byID = append(t.byID, ty)
	t.structural[key] = id
	return id
}

// isStructurallyShareable reports whether a Type should be deduplicated
// by its String() form. Distinct types and Enums carry identity (a tag or
// pointer identity) that must never collapse two separate declarations.
func isStructurallyShareable(ty Type) bool {
	switch ty.(type) {
	case *Distinct, *Enum, *Variant:
		return false
	default:
		return true
	}
}

// Get returns the Type registered under id.
func (t *Table) Get(id ID) Type {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.byID[id]
}

// Len reports how many type ids have been assigned.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.byID)
}

// NewDistinctTag mints a fresh unique tag for a `distinct` declaration
// site (§3 Distinct.tag).
func (t *Table) NewDistinctTag() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextTag++
	return t.nextTag
}

// IDOf is a convenience for "intern and tell me the id", used pervasively
// by HIR-Ty when synthesizing types for expressions.
func (t *Table) IDOf(ty Type) ID { return t.Intern(ty) }

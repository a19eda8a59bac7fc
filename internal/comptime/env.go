package comptime

import "github.com/capy-lang/capyc/internal/interner"

// Environment is a parent-chained variable scope, the comptime engine's
// counterpart of the teacher's eval.Environment, keyed by interner.Key
// instead of a bare string since HIR already carries interned names.
//
// Bindings are stored as *Value cells rather than bare Value: taking the
// address of a local (`^x`, §4.1 "Pointers") needs a stable location to
// point at, and a Go map does not hand out addressable entries.
type Environment struct {
	values map[interner.Key]*Value
	parent *Environment
}

func NewEnvironment() *Environment {
	return &Environment{values: make(map[interner.Key]*Value)}
}

func (e *Environment) Child() *Environment {
	return &Environment{values: make(map[interner.Key]*Value), parent: e}
}

func (e *Environment) Set(name interner.Key, v Value) {
	cell := v
	e.values[name] = &cell
}

func (e *Environment) Get(name interner.Key) (Value, bool) {
	if cell, ok := e.values[name]; ok {
		return *cell, true
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return nil, false
}

// Cell returns the addressable storage location backing name, for `^x`
// (address-of) to point at directly.
func (e *Environment) Cell(name interner.Key) (*Value, bool) {
	if cell, ok := e.values[name]; ok {
		return cell, true
	}
	if e.parent != nil {
		return e.parent.Cell(name)
	}
	return nil, false
}

// Assign mutates an existing binding wherever in the scope chain it lives
// (§9 mutable local reassignment), reporting false if no such binding is
// in scope (the caller treats that as an internal-invariant trap, since
// HIR-Ty already validated the assignment target).
func (e *Environment) Assign(name interner.Key, v Value) bool {
	for env := e; env != nil; env = env.parent {
		if cell, ok := env.values[name]; ok {
			*cell = v
			return true
		}
	}
	return false
}

// Package comptime implements §4.4 the comptime execution engine: a
// tree-walking interpreter over typed HIR that runs `comptime { ... }`
// blocks during type-checking and hands results back to hirty (array
// lengths, enum discriminants, type values) and later to codegen (inlined
// constant operands).
//
// Grounded on the teacher's internal/eval package: the same closed Value
// interface (Type()/String()) and parent-chained Environment, generalized
// from AILANG's functional-core values to this language's scalar/array/
// struct/enum/pointer/type value set, and from an unbounded tree-walk to
// one that tracks reentrancy depth and produces typed traps instead of
// panicking (§4.4 "a trap ... is a Diagnostic, not a Go panic").
package comptime

import (
	"fmt"

	"github.com/capy-lang/capyc/internal/hir"
	"github.com/capy-lang/capyc/internal/types"
)

// Value is a comptime-computed value: every case the Language's comptime
// subset of expressions can produce. Mirrors the teacher's eval.Value
// shape (Type()/String()) generalized to carry a types.ID instead of a
// bare kind string, since comptime values must round-trip through
// HIR-Ty's type table.
type Value interface {
	ValueType() types.ID
	String() string
	valueNode()
}

type IntValue struct {
	Ty  types.ID
	Val int64
}

func (v *IntValue) ValueType() types.ID { return v.Ty }
func (v *IntValue) String() string      { return fmt.Sprintf("%d", v.Val) }
func (*IntValue) valueNode()            {}

type FloatValue struct {
	Ty  types.ID
	Val float64
}

func (v *FloatValue) ValueType() types.ID { return v.Ty }
func (v *FloatValue) String() string      { return fmt.Sprintf("%g", v.Val) }
func (*FloatValue) valueNode()            {}

type BoolValue struct {
	Ty  types.ID
	Val bool
}

func (v *BoolValue) ValueType() types.ID { return v.Ty }
func (v *BoolValue) String() string {
	if v.Val {
		return "true"
	}
	return "false"
}
func (*BoolValue) valueNode() {}

type CharValue struct {
	Ty  types.ID
	Val rune
}

func (v *CharValue) ValueType() types.ID { return v.Ty }
func (v *CharValue) String() string      { return string(v.Val) }
func (*CharValue) valueNode()            {}

type StringValue struct {
	Ty  types.ID
	Val string
}

func (v *StringValue) ValueType() types.ID { return v.Ty }
func (v *StringValue) String() string      { return v.Val }
func (*StringValue) valueNode()            {}

type UnitValue struct{ Ty types.ID }

func (v *UnitValue) ValueType() types.ID { return v.Ty }
func (v *UnitValue) String() string      { return "()" }
func (*UnitValue) valueNode()            {}

// ArrayValue is both a fixed-array comptime value and (pre-layout) the
// representation used for a comptime-produced slice — the engine never
// needs to distinguish storage shape, only length (§4.4 scope: no heap
// allocation, so slices alias their backing array's ArrayValue).
type ArrayValue struct {
	Ty   types.ID
	Elem []Value
}

func (v *ArrayValue) ValueType() types.ID { return v.Ty }
func (v *ArrayValue) String() string {
	if len(v.Elem) == 0 {
		return "[ ]"
	}
	s := "[ "
	for i, e := range v.Elem {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + " ]"
}
func (*ArrayValue) valueNode() {}

// ListValue is the stdlib List container's comptime representation: a
// growable sequence backed by the interpreter's own Go slice rather than
// simulated malloc/realloc calls, since comptime has no heap (§4.4). Cap
// is tracked alongside Items purely so the growth-by-doubling invariant
// §9's List describes is observable the same way it is at runtime.
type ListValue struct {
	Ty    types.ID
	Elem  types.ID // element type, for list.push's any-boxing
	Items []Value
	Cap   int
}

func (v *ListValue) ValueType() types.ID { return v.Ty }
func (v *ListValue) String() string {
	if len(v.Items) == 0 {
		return "[ ]"
	}
	s := "[ "
	for i, e := range v.Items {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + " ]"
}
func (*ListValue) valueNode() {}

// StructValue holds its fields as *Value cells (not bare Value) so that
// `^s.field` (address-of a field) has a stable Go pointer to alias,
// matching the same reasoning as Environment's cell-based storage.
type StructValue struct {
	Ty     types.ID
	Fields map[string]*Value
}

func (v *StructValue) ValueType() types.ID { return v.Ty }
func (v *StructValue) String() string {
	s := "{"
	first := true
	for k, f := range v.Fields {
		if !first {
			s += ", "
		}
		first = false
		s += fmt.Sprintf("%s=%s", k, *f)
	}
	return s + "}"
}
func (*StructValue) valueNode() {}

// VariantValue is an enum value: which variant, plus its payload if any.
type VariantValue struct {
	Ty      types.ID // the Variant's own types.ID, not the parent Enum's
	Variant string
	Payload Value // nil when the variant carries no payload
}

func (v *VariantValue) ValueType() types.ID { return v.Ty }
func (v *VariantValue) String() string {
	if v.Payload == nil {
		return v.Variant
	}
	return fmt.Sprintf("%s(%s)", v.Variant, v.Payload)
}
func (*VariantValue) valueNode() {}

// TypeValue is a first-class type used as a runtime(-at-comptime) value
// (§3, §9): the result of evaluating a struct/enum/pointer/... type
// expression, or a comptime block whose result is itself a type.
type TypeValue struct {
	Denotes types.ID
}

func (v *TypeValue) ValueType() types.ID { return 0 } // the id of `type` itself, filled by the caller
func (v *TypeValue) String() string      { return fmt.Sprintf("type#%d", v.Denotes) }
func (*TypeValue) valueNode()            {}

// PointerValue models a comptime pointer: since comptime has no real
// address space, it holds a direct handle into the interpreter's cell
// store (§4.4 "comptime pointers alias interpreter-local storage, never
// runtime memory").
type PointerValue struct {
	Ty   types.ID
	Cell *Value
}

func (v *PointerValue) ValueType() types.ID { return v.Ty }
func (v *PointerValue) String() string      { return fmt.Sprintf("^%s", (*v.Cell).String()) }
func (*PointerValue) valueNode()            {}

// FuncValue is a comptime-callable function: a FuncLit closing over the
// environment in which it was defined (§4.5 "First-class functions" — a
// top-level function binding closes over an empty environment, a function
// literal nested in a body over the environment it is evaluated in).
type FuncValue struct {
	Ty      types.ID
	Lit     *hir.FuncLit
	Closure *Environment
}

func (v *FuncValue) ValueType() types.ID { return v.Ty }
func (v *FuncValue) String() string      { return "func" }
func (*FuncValue) valueNode()            {}

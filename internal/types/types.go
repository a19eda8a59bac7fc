// Package types implements the Language's data model (§3): an immutable,
// de-duplicated Type value space addressed by a stable 32-bit id, with
// layout rules (§4.5) and a reflection schema shared between compile time
// and runtime.
//
// The package mirrors the shape of the teacher's own internal/types
// package — a closed Type interface with String/Equals, a table that
// owns canonical instances — generalized from the teacher's Hindley-Milner
// value-type system to this Language's first-class-type, struct/enum/
// pointer/distinct system.
package types

import (
	"fmt"
	"strings"
)

// ID is the stable 32-bit handle identifying a registered type (§3, §9).
type ID uint32

// Type is the closed set of type variants from spec.md §3.
type Type interface {
	String() string
	// Equals reports structural equality under canonicalization; two
	// types are the same type id iff Equals holds (Testable Property 2).
	Equals(Type) bool
	kind() string
}

// ---- scalar types ----

type BitWidth int

const (
	W8 BitWidth = 8
	W16 BitWidth = 16
	W32 BitWidth = 32
	W64 BitWidth = 64
	W128 BitWidth = 128
	WSize BitWidth = -1 // platform pointer width
)

func (w BitWidth) String() string {
	if w == WSize {
		return "size"
	}
	return fmt.Sprintf("%d", int(w))
}

type Int struct {
	Bits   BitWidth
	Signed bool
}

func (t *Int) kind() string { return "int" }
func (t *Int) String() string {
	prefix := "u"
	if t.Signed {
		prefix = "i"
	}
	return fmt.Sprintf("%s%s", prefix, t.Bits)
}
func (t *Int) Equals(o Type) bool {
	oi, ok := o.(*Int)
	return ok && oi.Bits == t.Bits && oi.Signed == t.Signed
}

type Float struct{ Bits BitWidth }

func (t *Float) kind() string    { return "float" }
func (t *Float) String() string  { return fmt.Sprintf("f%s", t.Bits) }
func (t *Float) Equals(o Type) bool {
	of, ok := o.(*Float)
	return ok && of.Bits == t.Bits
}

type Bool struct{}

func (t *Bool) kind() string      { return "bool" }
func (t *Bool) String() string    { return "bool" }
func (t *Bool) Equals(o Type) bool { _, ok := o.(*Bool); return ok }

type Char struct{}

func (t *Char) kind() string      { return "char" }
func (t *Char) String() string    { return "char" }
func (t *Char) Equals(o Type) bool { _, ok := o.(*Char); return ok }

// String is the Language's `str`: a pointer to null-terminated bytes.
// Not a slice (§4.5 layout table).
type String struct{}

func (t *String) kind() string      { return "string" }
func (t *String) String() string    { return "str" }
func (t *String) Equals(o Type) bool { _, ok := o.(*String); return ok }

type Void struct{}

func (t *Void) kind() string      { return "void" }
func (t *Void) String() string    { return "void" }
func (t *Void) Equals(o Type) bool { _, ok := o.(*Void); return ok }

// ---- composite types ----

type Array struct {
	Elem   Type
	Length uint64
}

func (t *Array) kind() string   { return "array" }
func (t *Array) String() string { return fmt.Sprintf("[%d]%s", t.Length, t.Elem) }
func (t *Array) Equals(o Type) bool {
	oa, ok := o.(*Array)
	return ok && oa.Length == t.Length && oa.Elem.Equals(t.Elem)
}

// Slice is `[]T`: `{ ptr: ^T, len: usize }`, pointer first (§4.5).
type Slice struct{ Elem Type }

func (t *Slice) kind() string   { return "slice" }
func (t *Slice) String() string { return fmt.Sprintf("[]%s", t.Elem) }
func (t *Slice) Equals(o Type) bool {
	os, ok := o.(*Slice)
	return ok && os.Elem.Equals(t.Elem)
}

type Pointer struct {
	Pointee Type
	Mutable bool
}

func (t *Pointer) kind() string { return "pointer" }
func (t *Pointer) String() string {
	if t.Mutable {
		return fmt.Sprintf("^mut %s", t.Pointee)
	}
	return fmt.Sprintf("^%s", t.Pointee)
}
func (t *Pointer) Equals(o Type) bool {
	op, ok := o.(*Pointer)
	return ok && op.Mutable == t.Mutable && op.Pointee.Equals(t.Pointee)
}

// Distinct is a nominal type sharing layout with Underlying but never
// implicitly interchangeable with it (§3, §8 Property 4). Tag is a
// per-declaration-site unique id so two `distinct i32` declarations at
// different sites are different types even though their String() would
// otherwise collide.
type Distinct struct {
	Underlying Type
	Tag        uint64
	Name       string // declaration-site binding name, for diagnostics only
}

func (t *Distinct) kind() string   { return "distinct" }
func (t *Distinct) String() string { return t.Name }
func (t *Distinct) Equals(o Type) bool {
	od, ok := o.(*Distinct)
	return ok && od.Tag == t.Tag
}

type Member struct {
	Name   string
	Type   Type
	Offset uint64
}

type Struct struct {
	Name    string
	Members []Member
	Size    uint64
	Align   uint64
}

func (t *Struct) kind() string { return "struct" }
func (t *Struct) String() string {
	parts := make([]string, len(t.Members))
	for i, m := range t.Members {
		parts[i] = fmt.Sprintf("%s: %s", m.Name, m.Type)
	}
	return fmt.Sprintf("struct { %s }", strings.Join(parts, ", "))
}
func (t *Struct) Equals(o Type) bool {
	os, ok := o.(*Struct)
	if !ok || len(os.Members) != len(t.Members) {
		return false
	}
	for i := range t.Members {
		if t.Members[i].Name != os.Members[i].Name || !t.Members[i].Type.Equals(os.Members[i].Type) {
			return false
		}
	}
	return true
}

// Variant is a single arm of an Enum — a type in its own right (§3, §9).
// It is always owned by exactly one Enum.
type Variant struct {
	ParentEnum   *Enum
	Name         string
	Payload      Type // nil => void payload
	Discriminant uint8
}

func (t *Variant) kind() string { return "variant" }
func (t *Variant) String() string {
	if t.Payload != nil {
		return fmt.Sprintf("%s.%s(%s)", t.ParentEnum.Name, t.Name, t.Payload)
	}
	return fmt.Sprintf("%s.%s", t.ParentEnum.Name, t.Name)
}
func (t *Variant) Equals(o Type) bool {
	ov, ok := o.(*Variant)
	return ok && ov.ParentEnum == t.ParentEnum && ov.Name == t.Name
}

type Enum struct {
	Name               string
	Variants           []*Variant
	DiscriminantOffset uint64
	Size               uint64
	Align              uint64
}

func (t *Enum) kind() string { return "enum" }
func (t *Enum) String() string {
	parts := make([]string, len(t.Variants))
	for i, v := range t.Variants {
		parts[i] = v.Name
	}
	return fmt.Sprintf("enum { %s }", strings.Join(parts, ", "))
}
func (t *Enum) Equals(o Type) bool {
	oe, ok := o.(*Enum)
	return ok && oe == t // enums are reference-identical once registered
}

// VariantByName finds a variant by name, used by HIR-Ty for `E.Name` and
// by codegen for discriminant lookup.
func (t *Enum) VariantByName(name string) (*Variant, bool) {
	for _, v := range t.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

type Function struct {
	Params []Type
	Result Type
}

func (t *Function) kind() string { return "function" }
func (t *Function) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), t.Result)
}
func (t *Function) Equals(o Type) bool {
	of, ok := o.(*Function)
	if !ok || len(of.Params) != len(t.Params) {
		return false
	}
	for i := range t.Params {
		if !t.Params[i].Equals(of.Params[i]) {
			return false
		}
	}
	return of.Result.Equals(t.Result)
}

// File is the zero-sized type of an imported module (§3).
type File struct{ ModulePath string }

func (t *File) kind() string      { return "file" }
func (t *File) String() string    { return fmt.Sprintf("file(%s)", t.ModulePath) }
func (t *File) Equals(o Type) bool {
	of, ok := o.(*File)
	return ok && of.ModulePath == t.ModulePath
}

// MetaType is the type of a type value: in type position the compiler
// requires a const expression whose value has type MetaType (§9).
type MetaType struct{}

func (t *MetaType) kind() string      { return "meta_type" }
func (t *MetaType) String() string    { return "type" }
func (t *MetaType) Equals(o Type) bool { _, ok := o.(*MetaType); return ok }

// Any is `{ ty: type, data: raw_pointer }` (§3, §4.5).
type Any struct{}

func (t *Any) kind() string      { return "any" }
func (t *Any) String() string    { return "any" }
func (t *Any) Equals(o Type) bool { _, ok := o.(*Any); return ok }

type RawPtr struct{ Mutable bool }

func (t *RawPtr) kind() string { return "raw_ptr" }
func (t *RawPtr) String() string {
	if t.Mutable {
		return "rawptr_mut"
	}
	return "rawptr"
}
func (t *RawPtr) Equals(o Type) bool {
	op, ok := o.(*RawPtr)
	return ok && op.Mutable == t.Mutable
}

type RawSlice struct{}

func (t *RawSlice) kind() string      { return "raw_slice" }
func (t *RawSlice) String() string    { return "rawslice" }
func (t *RawSlice) Equals(o Type) bool { _, ok := o.(*RawSlice); return ok }

package types

// PointerWidth is the target pointer width in bytes. capyc only targets
// 64-bit hosts (matching the teacher's own assumption of a 64-bit dev
// machine throughout internal/eval's numeric builtins).
const PointerWidth = 8

// SizeOf returns the storage size, in bytes, of ty per the §4.5 layout
// table. This is the codegen-emitted byte length Testable Property 6
// requires SizeOf to match exactly.
func SizeOf(ty Type) uint64 {
	switch t := ty.(type) {
	case *Int:
		return uint64(bitsToBytes(t.Bits))
	case *Float:
		return uint64(bitsToBytes(t.Bits))
	case *Bool:
		return 1
	case *Char:
		return 4
	case *String:
		return PointerWidth
	case *Void:
		return 0
	case *Array:
		return t.Length * SizeOf(t.Elem)
	case *Slice:
		return PointerWidth + 8 // { ptr, len }
	case *Pointer:
		return PointerWidth
	case *Distinct:
		return SizeOf(t.Underlying)
	case *Struct:
		return t.Size
	case *Enum:
		return t.Size
	case *Variant:
		return SizeOf(t.Payload)
	case *Function:
		return PointerWidth
	case *File:
		return 0
	case *MetaType:
		return 4
	case *Any:
		return 16
	case *RawPtr:
		return PointerWidth
	case *RawSlice:
		return PointerWidth + 8
	default:
		return 0
	}
}

func bitsToBytes(w BitWidth) int {
	if w == WSize {
		return PointerWidth
	}
	return int(w) / 8
}

// AlignOf returns the natural alignment of ty.
func AlignOf(ty Type) uint64 {
	switch t := ty.(type) {
	case *Array:
		return AlignOf(t.Elem)
	case *Slice, *Pointer, *String, *Function, *RawPtr, *RawSlice:
		return PointerWidth
	case *Distinct:
		return AlignOf(t.Underlying)
	case *Struct:
		return t.Align
	case *Enum:
		return t.Align
	case *Variant:
		return AlignOf(t.Payload)
	case *Any:
		return PointerWidth
	default:
		sz := SizeOf(ty)
		if sz == 0 {
			return 1
		}
		return sz
	}
}

// StrideOf is SizeOf rounded up to AlignOf — the per-element spacing in a
// contiguous array (Testable Property 6).
func StrideOf(ty Type) uint64 {
	size, align := SizeOf(ty), AlignOf(ty)
	if align == 0 {
		return size
	}
	if r := size % align; r != 0 {
		return size + (align - r)
	}
	return size
}

// alignUp rounds offset up to a multiple of align.
func alignUp(offset, align uint64) uint64 {
	if align == 0 {
		return offset
	}
	if r := offset % align; r != 0 {
		return offset + (align - r)
	}
	return offset
}

// LayoutStruct computes member offsets, size and alignment for a struct
// whose members are given in declaration order, per §4.5 ("Fields in
// declaration order; each at target natural alignment; size rounded to
// align").
func LayoutStruct(name string, memberTypes []Member) *Struct {
	var offset uint64
	var maxAlign uint64 = 1
	out := make([]Member, len(memberTypes))
	for i, m := range memberTypes {
		align := AlignOf(m.Type)
		if align > maxAlign {
			maxAlign = align
		}
		offset = alignUp(offset, align)
		out[i] = Member{Name: m.Name, Type: m.Type, Offset: offset}
		offset += SizeOf(m.Type)
	}
	size := alignUp(offset, maxAlign)
	return &Struct{Name: name, Members: out, Size: size, Align: maxAlign}
}

// LayoutEnum computes the payload union size/align and places the u8
// discriminant immediately after it, per §4.5 ("{ payload: union_of_variants,
// discriminant: u8 } — discriminant follows payload").
func LayoutEnum(name string, variants []*Variant) *Enum {
	var payloadSize, payloadAlign uint64 = 0, 1
	for _, v := range variants {
		if v.Payload == nil {
			continue
		}
		if s := SizeOf(v.Payload); s > payloadSize {
			payloadSize = s
		}
		if a := AlignOf(v.Payload); a > payloadAlign {
			payloadAlign = a
		}
	}
	discOffset := alignUp(payloadSize, 1)
	total := alignUp(discOffset+1, payloadAlign)

	e := &Enum{Name: name, Variants: variants, DiscriminantOffset: discOffset, Size: total, Align: payloadAlign}
	for _, v := range variants {
		v.ParentEnum = e
	}
	return e
}

// ---- Reflection schema (§3 "Reflection record", §4.5 "Reflection tables") ----

// ReflectKind mirrors the Type variant tag so runtime code (and comptime
// code, via the same layout) can switch on it.
type ReflectKind int

const (
	RKInt ReflectKind = iota
	RKFloat
	RKBool
	RKChar
	RKString
	RKVoid
	RKArray
	RKSlice
	RKPointer
	RKDistinct
	RKStruct
	RKEnum
	RKVariant
	RKFunction
	RKFile
	RKMetaType
	RKAny
	RKRawPtr
	RKRawSlice
)

// ReflectRecord is one entry in the global per-type-id table (§3). It is
// readable from both runtime code and comptime code with an identical
// layout, which is what lets size_of/get_type_info be comptime-evaluable
// intrinsics (§9.1 supplemented features) as well as runtime calls.
type ReflectRecord struct {
	ID    ID
	Kind  ReflectKind
	Size  uint64
	Align uint64
	// Payload carries the variant-specific description: []Member for
	// Struct, []*Variant for Enum, the element Type for Array/Slice/
	// Pointer, etc. There are no typed accessors: callers type-switch on
	// Payload (internal/codegen/runtime.go does).
	Payload interface{}
}

// BuildReflectRecord derives the reflection entry for a registered type.
func BuildReflectRecord(id ID, ty Type) ReflectRecord {
	r := ReflectRecord{ID: id, Size: SizeOf(ty), Align: AlignOf(ty)}
	switch t := ty.(type) {
	case *Int:
		r.Kind = RKInt
		r.Payload = t
	case *Float:
		r.Kind, r.Payload = RKFloat, t
	case *Bool:
		r.Kind = RKBool
	case *Char:
		r.Kind = RKChar
	case *String:
		r.Kind = RKString
	case *Void:
		r.Kind = RKVoid
	case *Array:
		r.Kind, r.Payload = RKArray, t
	case *Slice:
		r.Kind, r.Payload = RKSlice, t
	case *Pointer:
		r.Kind, r.Payload = RKPointer, t
	case *Distinct:
		r.Kind, r.Payload = RKDistinct, t
	case *Struct:
		r.Kind, r.Payload = RKStruct, t.Members
	case *Enum:
		r.Kind, r.Payload = RKEnum, t.Variants
	case *Variant:
		r.Kind, r.Payload = RKVariant, t
	case *Function:
		r.Kind, r.Payload = RKFunction, t
	case *File:
		r.Kind = RKFile
	case *MetaType:
		r.Kind = RKMetaType
	case *Any:
		r.Kind = RKAny
	case *RawPtr:
		r.Kind, r.Payload = RKRawPtr, t
	case *RawSlice:
		r.Kind = RKRawSlice
	}
	return r
}

// ReflectTable is the codegen-emitted global indexed by type id providing
// get_type_info(ty) (§4.5 "Reflection tables").
type ReflectTable struct {
	table *Table
	cache map[ID]ReflectRecord
}

func NewReflectTable(t *Table) *ReflectTable {
	return &ReflectTable{table: t, cache: make(map[ID]ReflectRecord)}
}

func (rt *ReflectTable) Get(id ID) ReflectRecord {
	if r, ok := rt.cache[id]; ok {
		return r
	}
	r := BuildReflectRecord(id, rt.table.Get(id))
	rt.cache[id] = r
	return r
}

package codegen

import (
	"fmt"
	"strings"

	"github.com/capy-lang/capyc/internal/types"
)

// cType is a C declarator split into the part that precedes the
// identifier and the part that follows it, since array declarators in C
// wrap around the name (`int32_t xs[4]`, not `int32_t[4] xs`).
type cType struct {
	base        string
	arraySuffix string
}

func (t cType) String() string {
	if t.arraySuffix == "" {
		return t.base
	}
	return t.base + " " + t.arraySuffix
}

// typeEmitter renders types.Type values to C type references, emitting a
// struct/union typedef into decls the first time a given struct/enum/
// slice/distinct/any shape is seen. Registration is by types.ID so two
// occurrences of the same struct declaration (Table already dedups
// structurally-shareable types; Struct/Enum/Distinct carry identity) emit
// exactly one typedef.
type typeEmitter struct {
	table *types.Table
	out   *strings.Builder

	named   map[types.ID]string // id -> assigned C type name
	emitted map[types.ID]bool
	slices  map[string]string // element base C type -> slice struct name
	anonSeq int
}

func newTypeEmitter(table *types.Table, out *strings.Builder) typeEmitter {
	e := typeEmitter{
		table:   table,
		out:     out,
		named:   make(map[types.ID]string),
		emitted: make(map[types.ID]bool),
		slices:  make(map[string]string),
	}
	// capy_any is declared once, unconditionally, by runtimePrologue
	// (internal/codegen/runtime.go) so capy_list's own definition there can
	// reference it without ordering against whichever source expression
	// first needs `any`. Seeding it here makes anyStruct's lazy-emission
	// path a no-op instead of emitting a conflicting second typedef.
	e.slices["capy_any"] = "capy_any"
	return e
}

// emitNamed assigns srcName (a top-level type binding's own name) to id
// and ensures its typedef is emitted under that name.
func (e *typeEmitter) emitNamed(srcName string, id types.ID) {
	if _, ok := e.named[id]; ok {
		return
	}
	e.named[id] = "capy_ty_" + srcName
	e.ref(e.table.Get(id))
}

func (e *typeEmitter) nameFor(id types.ID) string {
	if n, ok := e.named[id]; ok {
		return n
	}
	e.anonSeq++
	n := fmt.Sprintf("capy_anon_%d", e.anonSeq)
	e.named[id] = n
	return n
}

// ref returns the C declarator for ty, emitting a supporting typedef first
// if ty is a composite shape that needs one.
func (e *typeEmitter) ref(ty types.Type) cType {
	switch t := ty.(type) {
	case *types.Int:
		return cType{base: intCType(t)}
	case *types.Float:
		if t.Bits == types.W32 {
			return cType{base: "float"}
		}
		return cType{base: "double"}
	case *types.Bool:
		return cType{base: "bool"}
	case *types.Char:
		return cType{base: "uint32_t"} // Unicode scalar value, §4.5
	case *types.String:
		return cType{base: "const char*"} // pointer to NUL-terminated bytes, not a slice
	case *types.Void:
		return cType{base: "void"}
	case *types.Array:
		elem := e.ref(t.Elem)
		return cType{base: elem.base, arraySuffix: fmt.Sprintf("[%d]%s", t.Length, elem.arraySuffix)}
	case *types.Slice:
		return cType{base: e.sliceStruct(t.Elem) + "*", arraySuffix: ""}
	case *types.Pointer:
		pointee := e.ref(t.Pointee)
		if t.Mutable {
			return cType{base: pointee.base + "*"}
		}
		return cType{base: "const " + pointee.base + "*"}
	case *types.Distinct:
		return e.distinctType(t)
	case *types.Struct:
		return e.structType(t)
	case *types.Enum:
		return e.enumType(t)
	case *types.Variant:
		if t.Payload == nil {
			return cType{base: "void"}
		}
		return e.ref(t.Payload)
	case *types.Function:
		return e.funcPointerType(t)
	case *types.File:
		return cType{base: "void*"}
	case *types.MetaType:
		return cType{base: "size_t"} // type-id handle, shared with get_type_info
	case *types.Any:
		return cType{base: e.anyStruct() + "*"}
	case *types.RawPtr:
		if t.Mutable {
			return cType{base: "void*"}
		}
		return cType{base: "const void*"}
	case *types.RawSlice:
		return cType{base: e.rawSliceStruct() + "*"}
	default:
		return cType{base: "void"}
	}
}

func intCType(t *types.Int) string {
	bits := int(t.Bits)
	if t.Bits == types.WSize {
		bits = 64
	}
	if t.Signed {
		return fmt.Sprintf("int%d_t", bits)
	}
	return fmt.Sprintf("uint%d_t", bits)
}

func (e *typeEmitter) structType(t *types.Struct) cType {
	if t.Name == "List" {
		// The stdlib List container's layout is the runtime prologue's own
		// capy_list (malloc/realloc-backed growth — internal/codegen/runtime.go),
		// not a plain member-wise copy type, so it never goes through the
		// ordinary typedef-emission path below.
		return cType{base: "capy_list"}
	}
	id := e.table.Intern(t)
	name := e.nameFor(id)
	if e.emitted[id] {
		return cType{base: name}
	}
	e.emitted[id] = true
	fmt.Fprintf(e.out, "typedef struct %s {\n", name)
	for _, m := range t.Members {
		field := e.ref(m.Type)
		fmt.Fprintf(e.out, "  %s;\n", declare(field, m.Name))
	}
	fmt.Fprintf(e.out, "} %s;\n\n", name)
	return cType{base: name}
}

// enumType lays out { payload union; u8 discriminant } matching §4.5 —
// the discriminant follows the payload so SizeOf/AlignOf stay in lockstep
// between this emission and internal/types.LayoutEnum.
func (e *typeEmitter) enumType(t *types.Enum) cType {
	id := e.table.Intern(t)
	name := e.nameFor(id)
	if e.emitted[id] {
		return cType{base: name}
	}
	e.emitted[id] = true
	fmt.Fprintf(e.out, "typedef struct %s {\n  union {\n", name)
	for _, v := range t.Variants {
		if v.Payload == nil {
			continue
		}
		field := e.ref(v.Payload)
		fmt.Fprintf(e.out, "    %s;\n", declare(field, "as_"+v.Name))
	}
	fmt.Fprintf(e.out, "  } payload;\n  uint8_t discriminant;\n} %s;\n\n", name)
	return cType{base: name}
}

func (e *typeEmitter) distinctType(t *types.Distinct) cType {
	id := e.table.Intern(t)
	name := e.nameFor(id)
	if e.emitted[id] {
		return cType{base: name}
	}
	e.emitted[id] = true
	underlying := e.ref(t.Underlying)
	fmt.Fprintf(e.out, "typedef %s;\n\n", declare(underlying, name))
	return cType{base: name}
}

func (e *typeEmitter) sliceStruct(elem types.Type) string {
	ct := e.ref(elem)
	key := ct.String()
	if name, ok := e.slices[key]; ok {
		return name
	}
	name := fmt.Sprintf("capy_slice_%d", len(e.slices))
	e.slices[key] = name
	// §3 "Slice `[]T`: { ptr: ^T, len: usize }" — ptr is one pointer level
	// above elem's own C representation, so the field declarator needs the
	// extra '*' element's ct alone does not carry.
	ptrField := cType{base: ct.base + "*", arraySuffix: ct.arraySuffix}
	fmt.Fprintf(e.out, "typedef struct %s {\n  %s;\n  size_t len;\n} %s;\n\n", name, declare(ptrField, "ptr"), name)
	return name
}

func (e *typeEmitter) rawSliceStruct() string {
	const name = "capy_rawslice"
	if e.slices[name] != "" {
		return name
	}
	e.slices[name] = name
	fmt.Fprintf(e.out, "typedef struct %s {\n  void* ptr;\n  size_t len;\n} %s;\n\n", name, name)
	return name
}

func (e *typeEmitter) anyStruct() string {
	const name = "capy_any"
	if e.slices[name] != "" {
		return name
	}
	e.slices[name] = name
	fmt.Fprintf(e.out, "typedef struct %s {\n  size_t type_id;\n  void* data;\n} %s;\n\n", name, name)
	return name
}

func (e *typeEmitter) funcPointerType(t *types.Function) cType {
	result := e.ref(t.Result)
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = e.ref(p).base
	}
	if len(params) == 0 {
		params = []string{"void"}
	}
	return cType{base: fmt.Sprintf("%s (*)(%s)", result.base, strings.Join(params, ", "))}
}

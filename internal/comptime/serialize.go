package comptime

import (
	"encoding/binary"
	"math"

	"github.com/capy-lang/capyc/internal/types"
)

// SerializeValue renders a finished comptime Value to its in-memory byte
// representation under the same layout rules internal/types/layout.go
// uses for SizeOf/LayoutStruct/LayoutEnum, so the bytes codegen embeds
// line up with the C struct/enum typedef typeEmitter emits for the same
// type (Testable Property 6). hasPointer reports whether v transitively
// holds a PointerValue or FuncValue — neither has a meaningful byte
// representation outside this compilation's own memory, so callers must
// reject rather than embed those (§9 "Comptime limitation").
func SerializeValue(v Value, table *types.Table) (bytes []byte, hasPointer bool) {
	var buf []byte
	ptr := appendValue(&buf, v, table)
	return buf, ptr
}

func appendValue(buf *[]byte, v Value, table *types.Table) bool {
	switch t := v.(type) {
	case *IntValue:
		ty, _ := table.Get(t.Ty).(*types.Int)
		size := 8
		if ty != nil {
			size = int(types.SizeOf(ty))
		}
		appendLE(buf, uint64(t.Val), size)
		return false
	case *FloatValue:
		ty, _ := table.Get(t.Ty).(*types.Float)
		if ty != nil && ty.Bits == types.W32 {
			appendLE(buf, uint64(math.Float32bits(float32(t.Val))), 4)
		} else {
			appendLE(buf, math.Float64bits(t.Val), 8)
		}
		return false
	case *BoolValue:
		if t.Val {
			*buf = append(*buf, 1)
		} else {
			*buf = append(*buf, 0)
		}
		return false
	case *CharValue:
		appendLE(buf, uint64(t.Val), 4)
		return false
	case *StringValue:
		// str is a pointer to NUL-terminated bytes (§4.5): the string's
		// content has no home in this object without a relocation, so a
		// comptime-computed string cannot be embedded as raw bytes. Callers
		// render it as a C string literal instead (internal/driver's
		// comptimeAdapter special-cases a top-level *StringValue before
		// calling SerializeValue at all, and codegen's emitComptimeConstant
		// emits that literal); reaching here means that special case was
		// skipped, so report it the same as any other pointer.
		return true
	case *UnitValue:
		return false
	case *ArrayValue:
		anyPtr := false
		for _, elem := range t.Elem {
			if appendValue(buf, elem, table) {
				anyPtr = true
			}
		}
		return anyPtr
	case *StructValue:
		st, _ := table.Get(t.Ty).(*types.Struct)
		if st == nil {
			return true
		}
		start := len(*buf)
		*buf = append(*buf, make([]byte, st.Size)...)
		anyPtr := false
		for _, m := range st.Members {
			cell, ok := t.Fields[m.Name]
			if !ok {
				continue
			}
			var field []byte
			if appendValue(&field, *cell, table) {
				anyPtr = true
			}
			copy((*buf)[start+int(m.Offset):], field)
		}
		return anyPtr
	case *VariantValue:
		en, _ := table.Get(t.Ty).(*types.Variant)
		if en == nil || en.ParentEnum == nil {
			return true
		}
		parent := en.ParentEnum
		start := len(*buf)
		*buf = append(*buf, make([]byte, parent.Size)...)
		anyPtr := false
		if t.Payload != nil {
			var payload []byte
			if appendValue(&payload, t.Payload, table) {
				anyPtr = true
			}
			copy((*buf)[start:], payload)
		}
		(*buf)[start+int(parent.DiscriminantOffset)] = en.Discriminant
		return anyPtr
	case *PointerValue, *FuncValue, *TypeValue:
		return true
	default:
		return true
	}
}

func appendLE(buf *[]byte, v uint64, size int) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	*buf = append(*buf, tmp[:size]...)
}

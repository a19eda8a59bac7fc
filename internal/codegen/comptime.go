package codegen

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/capy-lang/capyc/internal/diagnostics"
	"github.com/capy-lang/capyc/internal/types"
)

// emitComptimeConstant renders one finished comptime result as a read-only
// C global and returns the C expression a caller should use to reference
// its value (§4.5 "Comptime integration": a surviving comptime block
// becomes a load from a uniquely-named read-only symbol). Scalars are
// rendered as a direct typed literal; composites are rendered as a raw
// byte blob reinterpreted through the target type, since this pipeline's
// comptime engine hands codegen bytes rather than a second copy of the
// type-specific constructors typeEmitter already knows how to emit.
func (g *Generator) emitComptimeConstant(v ComptimeResult, ty types.Type) string {
	if v.HasPointer {
		g.diags.Add(diagnostics.New(diagnostics.PhaseCodegen, diagnostics.CDG002,
			"comptime result containing a pointer cannot be embedded in the compiled object"))
		return "0"
	}

	g.constSeq++
	name := fmt.Sprintf("capy_const_%d", g.constSeq)
	ctype := g.types.ref(ty)

	// *types.String is pre-rendered by the driver's ComptimeOracle adapter
	// as an already-quoted C string literal (v.Bytes holds the quoted text
	// itself, not a fixed-width scalar to decode), since str has no home in
	// SerializeValue's raw-byte layout.
	if _, ok := ty.(*types.String); ok {
		fmt.Fprintf(&g.decls, "static const %s = %s;\n", declare(ctype, name), string(v.Bytes))
		return name
	}

	if lit, ok := scalarLiteral(ty, v.Bytes); ok {
		fmt.Fprintf(&g.decls, "static const %s = %s;\n", declare(ctype, name), lit)
		return name
	}

	fmt.Fprintf(&g.decls, "static const unsigned char %s_bytes[%d] = {", name, len(v.Bytes))
	for i, b := range v.Bytes {
		if i > 0 {
			g.decls.WriteString(", ")
		}
		fmt.Fprintf(&g.decls, "0x%02x", b)
	}
	g.decls.WriteString("};\n")
	return fmt.Sprintf("(*(const %s*)%s_bytes)", ctype.base, name)
}

// scalarLiteral decodes a little-endian byte slice into a C literal for
// the scalar shapes codegen's funcGen already emits inline elsewhere
// (matching size_of/align_of's own arithmetic in internal/types/layout.go).
func scalarLiteral(ty types.Type, bytes []byte) (string, bool) {
	switch t := ty.(type) {
	case *types.Int:
		if len(bytes) < 8 {
			var buf [8]byte
			copy(buf[:], bytes)
			bytes = buf[:]
		}
		u := binary.LittleEndian.Uint64(bytes)
		if t.Signed {
			return fmt.Sprintf("%dLL", int64(u)), true
		}
		return fmt.Sprintf("%dULL", u), true
	case *types.Float:
		if t.Bits == types.W32 && len(bytes) >= 4 {
			bits := binary.LittleEndian.Uint32(bytes)
			return fmt.Sprintf("%g", float64(math.Float32frombits(bits))), true
		}
		if len(bytes) >= 8 {
			bits := binary.LittleEndian.Uint64(bytes)
			return fmt.Sprintf("%g", math.Float64frombits(bits)), true
		}
		return "0", true
	case *types.Bool:
		if len(bytes) > 0 && bytes[0] != 0 {
			return "true", true
		}
		return "false", true
	case *types.Char:
		if len(bytes) >= 4 {
			return fmt.Sprintf("%dU", binary.LittleEndian.Uint32(bytes)), true
		}
		return "0", true
	default:
		return "", false
	}
}

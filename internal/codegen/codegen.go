// Package codegen lowers a type-checked hir.Module to a portable C
// translation unit — capyc's "capyobj" intermediate (§2.1, §4.5) — handed
// to internal/linker for invocation of an external C toolchain. There is
// no native instruction-selection backend in this tree: codegen targets C
// source text the same way rubiojr/rugo's pkg/compiler/codegen.go targets
// Go source text (a strings.Builder walked once per AST shape, §4.5),
// retargeted from Go output to C output. Local-variable and label
// bookkeeping is modeled on nspcc-dev/neo-go's pkg/compiler/codegen.go
// funcScope (one scope object per function, holding its declared locals),
// and BinaryExpr/UnaryExpr operator lowering mirrors the flat per-opcode
// dispatch table shape of tinyrange-rtg's std/compiler/backend_x64.go.
package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/capy-lang/capyc/internal/diagnostics"
	"github.com/capy-lang/capyc/internal/hir"
	"github.com/capy-lang/capyc/internal/interner"
	"github.com/capy-lang/capyc/internal/types"
)

// TypeOracle is the narrow slice of *hirty.Checker codegen needs: the
// per-node inferred type and the type denoted by a type-position
// expression. Kept separate from hirty's full API for the same reason
// ComptimeEvaluator is narrow in internal/hirty — codegen has no business
// reaching into the checker's inference internals.
type TypeOracle interface {
	NodeType(id hir.NodeID) (types.ID, bool)
	EvalTypeValue(e hir.Expr) types.ID
}

// Program is one emitted C translation unit, ready for internal/linker.
type Program struct {
	Source    string
	EntryName string // mangled name of the module's `main` binding, "" if absent
}

// ComptimeOracle is the narrow slice of *comptime.Engine codegen needs to
// finish lowering a `comptime { ... }` block that survives to this phase
// (one whose result could not already be folded away by HIR-Ty's own
// constant folding, §4.5 "Comptime integration"). Kept as an interface
// here, rather than importing internal/comptime's concrete Engine type
// directly, so codegen's tests can fake it without constructing a full
// checker/engine pair.
type ComptimeOracle interface {
	EvalForCodegen(block *hir.ComptimeExpr, expected types.ID) (ComptimeResult, *diagnostics.Diagnostic)
}

// ComptimeResult is the codegen-facing projection of a comptime.Value: its
// type plus the raw bytes needed to emit it as a C static initializer.
// internal/driver's comptimeAdapter builds it from the comptime Engine's
// EvalForCodegen result and comptime.SerializeValue, keeping knowledge of
// comptime's own Value representation out of this package.
type ComptimeResult struct {
	Type  types.ID
	Bytes []byte
	// HasPointer is set when the value transitively contains a pointer;
	// per §9 such a result cannot be serialized into the emitted object
	// and codegen reports a diagnostic instead of emitting garbage bytes.
	HasPointer bool
}

// Generator walks one hir.Module and accumulates C source text. It is not
// reused across modules.
type Generator struct {
	table          *types.Table
	interns        *interner.Interner
	oracle         TypeOracle
	comptimeOracle ComptimeOracle
	diags          diagnostics.Bag

	types typeEmitter

	decls strings.Builder // struct/enum typedefs and forward declarations
	funcs strings.Builder // function bodies, in declaration order
	globs strings.Builder // package-level globals
	inits strings.Builder // capy_init() body: non-constant global initializers

	names map[interner.Key]string // interned binding name -> mangled C identifier
	next  int                     // fresh-temporary counter

	constSeq int // counter for comptime-constant symbol names
}

func NewGenerator(table *types.Table, interns *interner.Interner, oracle TypeOracle) *Generator {
	g := &Generator{
		table:   table,
		interns: interns,
		oracle:  oracle,
		names:   make(map[interner.Key]string),
	}
	g.types = newTypeEmitter(table, &g.decls)
	return g
}

// SetComptimeOracle wires in the comptime evaluator used to finish lowering
// any `comptime { ... }` block remaining in a function body at codegen
// time, mirroring hirty.Checker.SetComptime's own late-binding to avoid a
// codegen -> comptime -> hirty -> codegen import cycle.
func (g *Generator) SetComptimeOracle(o ComptimeOracle) { g.comptimeOracle = o }

func (g *Generator) Diagnostics() *diagnostics.Bag { return &g.diags }

// Generate emits every top-level declaration of mod: type-valued bindings
// become C typedefs (via typeEmitter), function-valued bindings become C
// functions, everything else becomes a package-level global.
func (g *Generator) Generate(mod *hir.Module) *Program {
	for _, b := range mod.Decls {
		g.names[b.InternedName] = mangle(b.Name)
	}

	for _, b := range mod.Decls {
		ty, ok := g.oracle.NodeType(b.NodeID_())
		if !ok {
			g.diags.Add(diagnostics.New(diagnostics.PhaseCodegen, diagnostics.CDG001,
				fmt.Sprintf("binding %q reached codegen untyped", b.Name)).WithSpan(b.Span()))
			continue
		}
		switch t := g.table.Get(ty).(type) {
		case *types.MetaType:
			g.types.emitNamed(b.Name, g.oracle.EvalTypeValue(b.Init))
		case *types.Function:
			if lit, ok := b.Init.(*hir.FuncLit); ok {
				g.writeFunc(b.Name, lit, t)
			}
		default:
			g.writeGlobal(b, ty)
		}
	}

	g.types.anyStruct() // capy_any is referenced by the runtime printer unconditionally

	// §4.5 "Entry point" — args: []str is populated from argv by the
	// trampoline below, so its backing slice struct and storage are
	// declared unconditionally rather than only when a program references
	// the identifier.
	argsSlice := g.types.sliceStruct(&types.String{})
	fmt.Fprintf(&g.globs, "static %s capy_args_storage;\n", argsSlice)
	fmt.Fprintf(&g.globs, "static %s* capy_args = &capy_args_storage;\n", argsSlice)

	var entry string
	entryVoid := true
	if mainDecl, ok := mod.Lookup("main"); ok {
		entry = mangle("main")
		if ty, ok := g.oracle.NodeType(mainDecl.NodeID_()); ok {
			if ft, ok := g.table.Get(ty).(*types.Function); ok {
				if _, void := ft.Result.(*types.Void); !void {
					entryVoid = false
				}
			}
		}
	}

	var out strings.Builder
	out.WriteString("/* generated by capyc; do not edit */\n")
	out.WriteString("#include <stdint.h>\n#include <stddef.h>\n#include <string.h>\n#include <stdbool.h>\n#include <stdio.h>\n#include <stdlib.h>\n\n")
	out.WriteString(runtimePrologue)
	out.WriteString(g.decls.String())
	out.WriteString("\n")
	out.WriteString(g.emitReflectTable())
	out.WriteString(runtimePrintFns)
	out.WriteString("\n")
	out.WriteString(g.globs.String())
	out.WriteString("\n")
	out.WriteString("static void capy_init(void) {\n")
	out.WriteString(g.inits.String())
	out.WriteString("}\n\n")
	out.WriteString(g.funcs.String())
	out.WriteString(g.entryTrampoline(entry, entryVoid))

	return &Program{Source: out.String(), EntryName: entry}
}

func (g *Generator) writeGlobal(b *hir.Binding, ty types.ID) {
	cname := g.names[b.InternedName]
	ctype := g.types.ref(g.table.Get(ty))
	if b.Init != nil {
		if expr, ok := g.expr(b.Init); ok {
			fmt.Fprintf(&g.globs, "static %s = %s;\n", declare(ctype, cname), expr)
			return
		}
		fmt.Fprintf(&g.globs, "static %s;\n", declare(ctype, cname))
		g.queueInit(cname, b.Init)
		return
	}
	fmt.Fprintf(&g.globs, "static %s;\n", declare(ctype, cname))
}

// mangle maps a source identifier to a C identifier. capyc source names
// are already C-identifier-shaped except possibly colliding with a C
// keyword or the runtime's own capy_ prefix, so a flat prefix is enough.
func mangle(name string) string { return "capy_" + name }

// declare renders "TYPE NAME" for both scalar and array/function-pointer
// C declarators, since array types split the name into the middle of the
// declarator (`int32_t NAME[4]`, not `int32_t[4] NAME`).
func declare(ctype cType, name string) string {
	if ctype.arraySuffix != "" {
		return fmt.Sprintf("%s %s%s", ctype.base, name, ctype.arraySuffix)
	}
	return fmt.Sprintf("%s %s", ctype.base, name)
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package codegen_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/capy-lang/capyc/internal/codegen"
	"github.com/capy-lang/capyc/internal/comptime"
	"github.com/capy-lang/capyc/internal/diagnostics"
	"github.com/capy-lang/capyc/internal/hir"
	"github.com/capy-lang/capyc/internal/hirty"
	"github.com/capy-lang/capyc/internal/interner"
	"github.com/capy-lang/capyc/internal/parser"
	"github.com/capy-lang/capyc/internal/types"
)

// testOracle adapts a *comptime.Engine to codegen.ComptimeOracle the same
// way internal/driver's comptimeAdapter does, duplicated here rather than
// imported to avoid a codegen_test -> driver -> codegen import back-edge.
type testOracle struct {
	engine *comptime.Engine
	table  *types.Table
}

func (a *testOracle) EvalForCodegen(block *hir.ComptimeExpr, expected types.ID) (codegen.ComptimeResult, *diagnostics.Diagnostic) {
	v, diag := a.engine.EvalForCodegen(block, expected)
	if diag != nil {
		return codegen.ComptimeResult{}, diag
	}
	if sv, ok := v.(*comptime.StringValue); ok {
		return codegen.ComptimeResult{Type: sv.ValueType(), Bytes: []byte(fmt.Sprintf("%q", sv.Val))}, nil
	}
	bytes, hasPointer := comptime.SerializeValue(v, a.table)
	return codegen.ComptimeResult{Type: v.ValueType(), Bytes: bytes, HasPointer: hasPointer}, nil
}

// generate parses, lowers, type-checks and lowers src all the way to C
// source, failing the test on any diagnostic from an earlier stage. It
// mirrors driver.CompileFile's stage order without importing internal/driver.
func generate(t *testing.T, src string) *codegen.Program {
	t.Helper()
	p := parser.New(src, "t.capy")
	f := p.ParseFile()
	if len(p.Errors()) != 0 {
		t.Fatalf("parse errors: %v", p.Errors())
	}

	interns := interner.New()
	table := types.NewTable()
	l := hir.NewLowerer(interns, 0, "t.capy")
	mod := l.LowerFile(f)
	if l.Diagnostics().HasErrors() {
		t.Fatalf("lowering errors: %v", l.Diagnostics().Errors())
	}

	checker := hirty.NewChecker(table, nil)
	engine := comptime.NewEngine(checker, interns)
	checker.SetComptime(engine)
	checker.Check(mod)
	if checker.Diagnostics().HasErrors() {
		t.Fatalf("type errors: %v", checker.Diagnostics().Errors())
	}

	gen := codegen.NewGenerator(table, interns, checker)
	gen.SetComptimeOracle(&testOracle{engine: engine, table: table})
	prog := gen.Generate(mod)
	if gen.Diagnostics().HasErrors() {
		t.Fatalf("codegen errors: %v", gen.Diagnostics().Errors())
	}
	return prog
}

func TestGenerateEmitsEntryTrampolineForMain(t *testing.T) {
	prog := generate(t, `main :: () {
	println(1)
}`)
	if prog.EntryName != "capy_main" {
		t.Fatalf("EntryName = %q, want capy_main", prog.EntryName)
	}
	if !strings.Contains(prog.Source, "int main(int argc, char** argv)") {
		t.Fatalf("expected a C-ABI main() trampoline in:\n%s", prog.Source)
	}
	if !strings.Contains(prog.Source, "capy_main()") {
		t.Fatalf("expected the trampoline to call capy_main(), got:\n%s", prog.Source)
	}
}

func TestGenerateStructBindingEmitsTypedef(t *testing.T) {
	prog := generate(t, `Point :: struct { x: i32, y: i32 }
main :: () {}`)
	if !strings.Contains(prog.Source, "int32_t x") || !strings.Contains(prog.Source, "int32_t y") {
		t.Fatalf("expected Point's fields emitted as int32_t members, got:\n%s", prog.Source)
	}
	if !strings.Contains(prog.Source, "} capy_ty_Point;") {
		t.Fatalf("expected a capy_ty_Point typedef, got:\n%s", prog.Source)
	}
}

func TestGenerateEnumBindingEmitsDiscriminant(t *testing.T) {
	prog := generate(t, `E :: enum { A: i32, B: str }
main :: () {}`)
	if !strings.Contains(prog.Source, "uint8_t") {
		t.Fatalf("expected a uint8_t discriminant field for E, got:\n%s", prog.Source)
	}
}

func TestGenerateFunctionBindingEmitsCFunction(t *testing.T) {
	prog := generate(t, `add :: (a: i32, b: i32) i32 {
	a + b
}
main :: () {
	println(add(1, 2))
}`)
	if !strings.Contains(prog.Source, "capy_add(") {
		t.Fatalf("expected a capy_add C function, got:\n%s", prog.Source)
	}
	if !strings.Contains(prog.Source, "return") {
		t.Fatalf("expected a return statement lowered into capy_add's trailing-expression body, got:\n%s", prog.Source)
	}
}

func TestGenerateComptimeBlockSurvivingToCodegenEmitsReadOnlyGlobal(t *testing.T) {
	prog := generate(t, `main :: () {
	x := comptime { 5 * 2 }
	println(x)
}`)
	if !strings.Contains(prog.Source, "static const") {
		t.Fatalf("expected a static const comptime global, got:\n%s", prog.Source)
	}
}

func TestGenerateNoMainLeavesEntryNameEmpty(t *testing.T) {
	prog := generate(t, `x :: 5`)
	if prog.EntryName != "" {
		t.Fatalf("EntryName = %q, want empty when no main binding exists", prog.EntryName)
	}
	// The trampoline is still emitted (a program with no `main` still needs
	// a valid C entry point to link), but it dispatches into nothing and
	// just returns 0 rather than calling a mangled capy_ function.
	if !strings.Contains(prog.Source, "capy_init();\n  return 0;\n}\n") {
		t.Fatalf("expected a no-op trampoline body, got:\n%s", prog.Source)
	}
}

func TestGenerateEntryTrampolinePopulatesArgsFromArgv(t *testing.T) {
	prog := generate(t, `main :: () {
	println(args)
}`)
	wantLines := []string{
		"capy_args_storage.ptr = (const char**)argv;",
		"capy_args_storage.len = (size_t)argc;",
	}
	for _, want := range wantLines {
		if !strings.Contains(prog.Source, want) {
			t.Fatalf("expected trampoline to contain %q, got:\n%s", want, prog.Source)
		}
	}
	if !strings.Contains(prog.Source, "capy_args = &capy_args_storage;") {
		t.Fatalf("expected a capy_args global pointing at its own storage, got:\n%s", prog.Source)
	}
}

func TestGenerateReflectTableCoversEveryRegisteredType(t *testing.T) {
	prog := generate(t, `Point :: struct { x: i32, y: i32 }
main :: () {
	p := Point.{ x = 1, y = 2 }
	println(p)
}`)
	if !strings.Contains(prog.Source, "capy_typeinfo[]") {
		t.Fatalf("expected the reflection table to be emitted, got:\n%s", prog.Source)
	}
}

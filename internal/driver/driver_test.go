package driver

import (
	"bytes"
	"testing"

	"github.com/capy-lang/capyc/internal/comptime"
	"github.com/capy-lang/capyc/internal/hir"
	"github.com/capy-lang/capyc/internal/hirty"
	"github.com/capy-lang/capyc/internal/interner"
	"github.com/capy-lang/capyc/internal/parser"
	"github.com/capy-lang/capyc/internal/types"
)

// runSource parses, lowers and type-checks src, then interprets its "main"
// binding through comptime.Engine.RunMain, returning whatever main printed.
// This exercises the same pipeline stages CompileFile does, minus codegen
// and the external linker, which is what makes it suitable for asserting on
// program behavior without shelling out to `cc` (§8's test table scenarios
// are written exactly this way: println output, not a linked binary).
func runSource(t *testing.T, src string) string {
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

	var out bytes.Buffer
	engine.SetOutput(&out)
	if diag := engine.RunMain(mod); diag != nil {
		t.Fatalf("runtime trap: %v", diag)
	}
	return out.String()
}

func TestS1ComptimeMultiplicationFoldsBeforeMain(t *testing.T) {
	got := runSource(t, `x :: comptime { 5 * 2 }
main :: () {
	println(x)
}`)
	if got != "10\n" {
		t.Fatalf("got %q, want %q", got, "10\n")
	}
}

func TestS2StructFieldAccess(t *testing.T) {
	got := runSource(t, `Point :: struct { x: i32, y: i32 }
main :: () {
	p := Point.{ x = 3, y = 4 }
	println(p.y)
}`)
	if got != "4\n" {
		t.Fatalf("got %q, want %q", got, "4\n")
	}
}

func TestS3EnumVariantPayloadThroughSwitch(t *testing.T) {
	got := runSource(t, `E :: enum { A: i32, B: str }
main :: () {
	v := E.B.("hi")
	switch v {
	case A(n) {
		println(n)
	}
	case B(s) {
		println(s)
	}
	}
}`)
	if got != "hi\n" {
		t.Fatalf("got %q, want %q", got, "hi\n")
	}
}

func TestS4ArrayToSlicePrinting(t *testing.T) {
	got := runSource(t, `print_slice :: (xs: []i32) {
	println(xs)
}
main :: () {
	arr := i32.[4, 8, 15, 16, 23, 42]
	print_slice(arr)
}`)
	if got != "[ 4, 8, 15, 16, 23, 42 ]\n" {
		t.Fatalf("got %q, want %q", got, "[ 4, 8, 15, 16, 23, 42 ]\n")
	}
}

func TestS5ComptimeConditionalTypeSelection(t *testing.T) {
	got := runSource(t, `T :: comptime { if true { i32 } else { i64 } }
main :: () {
	x : T = 7
	println(size_of(T))
}`)
	if got != "4\n" {
		t.Fatalf("got %q, want %q", got, "4\n")
	}
}

func TestS6ListPushAndPrint(t *testing.T) {
	got := runSource(t, `main :: () {
	list := list.make(i32)
	list.push(^mut list, 11)
	list.push(^mut list, 22)
	println(list)
}`)
	if got != "[ 11, 22 ]\n" {
		t.Fatalf("got %q, want %q", got, "[ 11, 22 ]\n")
	}
}

package hir

import (
	"testing"

	"github.com/capy-lang/capyc/internal/interner"
	"github.com/capy-lang/capyc/internal/parser"
)

func mustLower(t *testing.T, src string) *Module {
	t.Helper()
	p := parser.New(src, "t.capy")
	f := p.ParseFile()
	if len(p.Errors()) != 0 {
		t.Fatalf("parse errors: %v", p.Errors())
	}
	l := NewLowerer(interner.New(), 0, "t.capy")
	return l.LowerFile(f)
}

func TestLowerResolvesForwardReference(t *testing.T) {
	// `b` refers to `a` even though `a` is declared afterwards — top-level
	// bindings are order-independent.
	src := `b :: a
a :: 5`
	l := NewLowerer(interner.New(), 0, "t.capy")
	p := parser.New(src, "t.capy")
	f := p.ParseFile()
	if len(p.Errors()) != 0 {
		t.Fatalf("parse errors: %v", p.Errors())
	}
	mod := l.LowerFile(f)
	if l.Diagnostics().HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", l.Diagnostics().Errors())
	}
	v, ok := mod.Decls[0].Init.(*Var)
	if !ok {
		t.Fatalf("expected Var, got %T", mod.Decls[0].Init)
	}
	if !v.Resolved.Ok {
		t.Fatalf("expected forward reference to resolve")
	}
}

func TestLowerUnresolvedNameProducesDiagnosticNotAbort(t *testing.T) {
	p := parser.New(`x :: y`, "t.capy")
	f := p.ParseFile()
	if len(p.Errors()) != 0 {
		t.Fatalf("parse errors: %v", p.Errors())
	}
	l := NewLowerer(interner.New(), 0, "t.capy")
	mod := l.LowerFile(f)
	if len(l.Diagnostics().Errors()) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d", len(l.Diagnostics().Errors()))
	}
	// lowering must not abort: the binding is still present, just unresolved.
	if len(mod.Decls) != 1 {
		t.Fatalf("expected lowering to continue past the unresolved name")
	}
}

func TestLowerDeferCollectedInSourceOrder(t *testing.T) {
	src := `main :: () {
	defer 1
	defer 2
	3
}`
	mod := mustLower(t, src)
	fn, ok := mod.Decls[0].Init.(*FuncLit)
	if !ok {
		t.Fatalf("expected FuncLit, got %T", mod.Decls[0].Init)
	}
	if len(fn.Body.Defers) != 2 {
		t.Fatalf("expected 2 deferred exprs, got %d", len(fn.Body.Defers))
	}
	first := fn.Body.Defers[0].(*Lit)
	second := fn.Body.Defers[1].(*Lit)
	if first.Value.(int64) != 1 || second.Value.(int64) != 2 {
		t.Fatalf("defers not recorded in source order: %v, %v", first.Value, second.Value)
	}
}

func TestLowerDuplicateTopLevelBindingDiagnosed(t *testing.T) {
	src := `x :: 1
x :: 2`
	p := parser.New(src, "t.capy")
	f := p.ParseFile()
	if len(p.Errors()) != 0 {
		t.Fatalf("parse errors: %v", p.Errors())
	}
	l := NewLowerer(interner.New(), 0, "t.capy")
	l.LowerFile(f)
	if !l.Diagnostics().HasErrors() {
		t.Fatalf("expected a diagnostic for duplicate top-level binding")
	}
}

func TestLowerBreakOutsideLoopDiagnosed(t *testing.T) {
	src := `main :: () {
	break
}`
	p := parser.New(src, "t.capy")
	f := p.ParseFile()
	if len(p.Errors()) != 0 {
		t.Fatalf("parse errors: %v", p.Errors())
	}
	l := NewLowerer(interner.New(), 0, "t.capy")
	l.LowerFile(f)
	if !l.Diagnostics().HasErrors() {
		t.Fatalf("expected a diagnostic for break outside a loop")
	}
}

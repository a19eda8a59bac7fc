package parser

import (
	"testing"

	"github.com/capy-lang/capyc/internal/ast"
)

func mustParse(t *testing.T, src string) *ast.File {
	t.Helper()
	p := New(src, "t.capy")
	f := p.ParseFile()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, p.Errors())
	}
	return f
}

func TestParseImmutableBinding(t *testing.T) {
	f := mustParse(t, `x :: 5`)
	if len(f.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(f.Decls))
	}
	b := f.Decls[0]
	if b.Name != "x" || b.Kind != ast.Immutable {
		t.Fatalf("got %+v", b)
	}
	if _, ok := b.Init.(*ast.IntLit); !ok {
		t.Fatalf("expected IntLit init, got %T", b.Init)
	}
}

func TestParseMutableBinding(t *testing.T) {
	f := mustParse(t, `x := 5`)
	b := f.Decls[0]
	if b.Kind != ast.Mutable || b.DeclaredType != nil {
		t.Fatalf("got %+v", b)
	}
}

func TestParseDeclaredTypeBinding(t *testing.T) {
	f := mustParse(t, `x : i32 = 5`)
	b := f.Decls[0]
	nt, ok := b.DeclaredType.(*ast.NamedType)
	if !ok || nt.Name != "i32" {
		t.Fatalf("expected declared type i32, got %+v", b.DeclaredType)
	}
}

func TestParseImports(t *testing.T) {
	f := mustParse(t, `#mod("std")
#import("helpers.capy")
x :: 1`)
	if len(f.Imports) != 2 {
		t.Fatalf("expected 2 imports, got %d", len(f.Imports))
	}
	if f.Imports[0].Kind != ast.ImportMod || f.Imports[0].Path != "std" {
		t.Fatalf("got %+v", f.Imports[0])
	}
	if f.Imports[1].Kind != ast.ImportFile || f.Imports[1].Path != "helpers.capy" {
		t.Fatalf("got %+v", f.Imports[1])
	}
	if len(f.Decls) != 1 {
		t.Fatalf("expected 1 decl after imports, got %d", len(f.Decls))
	}
}

func TestParseStructTypeAndLiteral(t *testing.T) {
	f := mustParse(t, `Point :: struct { x: i32, y: i32 }
p : Point = Point.{ x = 1, y = 2 }`)
	st, ok := f.Decls[0].Init.(*ast.StructType)
	if !ok || len(st.Members) != 2 {
		t.Fatalf("got %+v", f.Decls[0].Init)
	}
	lit, ok := f.Decls[1].Init.(*ast.StructLit)
	if !ok || len(lit.Fields) != 2 {
		t.Fatalf("got %+v", f.Decls[1].Init)
	}
}

func TestParseArrayTypeAndLiteral(t *testing.T) {
	f := mustParse(t, `n :: 3
xs : [n]i32 = i32.[1, 2, 3]`)
	at, ok := f.Decls[1].DeclaredType.(*ast.ArrayType)
	if !ok {
		t.Fatalf("expected array type, got %+v", f.Decls[1].DeclaredType)
	}
	if _, ok := at.Length.(*ast.Ident); !ok {
		t.Fatalf("expected ident length, got %T", at.Length)
	}
	lit, ok := f.Decls[1].Init.(*ast.ArrayLit)
	if !ok || len(lit.Elems) != 3 {
		t.Fatalf("got %+v", f.Decls[1].Init)
	}
}

func TestParseEnumType(t *testing.T) {
	f := mustParse(t, `Op :: enum { Add, Sub, Lit: i32 | 9 }`)
	et, ok := f.Decls[0].Init.(*ast.EnumType)
	if !ok || len(et.Variants) != 3 {
		t.Fatalf("got %+v", f.Decls[0].Init)
	}
	if et.Variants[2].PayloadType == nil {
		t.Fatalf("expected Lit to carry a payload type")
	}
	if et.Variants[2].Discriminant == nil || *et.Variants[2].Discriminant != 9 {
		t.Fatalf("expected discriminant 9, got %+v", et.Variants[2].Discriminant)
	}
}

func TestParsePointerAndDistinctType(t *testing.T) {
	f := mustParse(t, `Meters :: distinct i32
p : ^mut i32 = x`)
	dt, ok := f.Decls[0].Init.(*ast.DistinctType)
	if !ok {
		t.Fatalf("expected distinct type, got %+v", f.Decls[0].Init)
	}
	if _, ok := dt.Underlying.(*ast.NamedType); !ok {
		t.Fatalf("expected named underlying, got %T", dt.Underlying)
	}
	pt, ok := f.Decls[1].DeclaredType.(*ast.PointerType)
	if !ok || !pt.Mutable {
		t.Fatalf("expected mutable pointer type, got %+v", f.Decls[1].DeclaredType)
	}
}

func TestParseFuncLitWithDefersAndResult(t *testing.T) {
	f := mustParse(t, `main :: () {
	defer 1
	defer 2
	3
}`)
	fl, ok := f.Decls[0].Init.(*ast.FuncLit)
	if !ok {
		t.Fatalf("expected FuncLit, got %T", f.Decls[0].Init)
	}
	if len(fl.Params) != 0 {
		t.Fatalf("expected 0 params, got %d", len(fl.Params))
	}
	if len(fl.Body.Stmts) != 2 {
		t.Fatalf("expected 2 defer stmts, got %d", len(fl.Body.Stmts))
	}
	if fl.Body.Result == nil {
		t.Fatalf("expected a trailing result expression")
	}
	if lit, ok := fl.Body.Result.(*ast.IntLit); !ok || lit.Value != 3 {
		t.Fatalf("got %+v", fl.Body.Result)
	}
}

func TestParseFuncLitWithParamsAndResultType(t *testing.T) {
	f := mustParse(t, `add :: (a: i32, b: i32) i32 {
	a + b
}`)
	fl, ok := f.Decls[0].Init.(*ast.FuncLit)
	if !ok {
		t.Fatalf("expected FuncLit, got %T", f.Decls[0].Init)
	}
	if len(fl.Params) != 2 || fl.Params[0].Name != "a" || fl.Params[1].Name != "b" {
		t.Fatalf("got %+v", fl.Params)
	}
	if _, ok := fl.Result.(*ast.NamedType); !ok {
		t.Fatalf("expected a named result type, got %+v", fl.Result)
	}
}

func TestParseForInLoop(t *testing.T) {
	f := mustParse(t, `main :: () {
	for x in xs {
		x
	}
}`)
	fl := f.Decls[0].Init.(*ast.FuncLit)
	forExpr, ok := fl.Body.Result.(*ast.ForExpr)
	if !ok {
		t.Fatalf("expected ForExpr, got %T", fl.Body.Result)
	}
	if forExpr.Binder != "x" {
		t.Fatalf("got %+v", forExpr)
	}
	if _, ok := forExpr.Iterable.(*ast.Ident); !ok {
		t.Fatalf("expected ident iterable, got %T", forExpr.Iterable)
	}
}

func TestParseWhileStyleForLoop(t *testing.T) {
	f := mustParse(t, `main :: () {
	for true {
		break
	}
}`)
	fl := f.Decls[0].Init.(*ast.FuncLit)
	forExpr, ok := fl.Body.Result.(*ast.ForExpr)
	if !ok {
		t.Fatalf("expected ForExpr, got %T", fl.Body.Result)
	}
	if _, ok := forExpr.Cond.(*ast.BoolLit); !ok {
		t.Fatalf("expected bool cond, got %T", forExpr.Cond)
	}
	if len(forExpr.Body.Stmts) != 1 {
		t.Fatalf("expected 1 stmt, got %d", len(forExpr.Body.Stmts))
	}
	if _, ok := forExpr.Body.Stmts[0].(*ast.BreakStmt); !ok {
		t.Fatalf("expected break stmt, got %T", forExpr.Body.Stmts[0])
	}
}

func TestParseSwitchExpr(t *testing.T) {
	f := mustParse(t, `main :: () {
	switch op {
	case Add(v) {
		v
	}
	case Sub {
		0
	}
	}
}`)
	fl := f.Decls[0].Init.(*ast.FuncLit)
	sw, ok := fl.Body.Result.(*ast.SwitchExpr)
	if !ok {
		t.Fatalf("expected SwitchExpr, got %T", fl.Body.Result)
	}
	if len(sw.Cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(sw.Cases))
	}
	if sw.Cases[0].VariantName != "Add" || sw.Cases[0].BinderName != "v" {
		t.Fatalf("got %+v", sw.Cases[0])
	}
	if sw.Cases[1].VariantName != "Sub" || sw.Cases[1].BinderName != "" {
		t.Fatalf("got %+v", sw.Cases[1])
	}
}

func TestParseCastAndDeref(t *testing.T) {
	f := mustParse(t, `x : f32 = f32.(5)
y := x.*`)
	cast, ok := f.Decls[0].Init.(*ast.CastExpr)
	if !ok {
		t.Fatalf("expected CastExpr, got %T", f.Decls[0].Init)
	}
	if _, ok := cast.Target.(*ast.NamedType); !ok {
		t.Fatalf("expected named cast target, got %T", cast.Target)
	}
	if _, ok := f.Decls[1].Init.(*ast.DerefExpr); !ok {
		t.Fatalf("expected DerefExpr, got %T", f.Decls[1].Init)
	}
}

func TestParseComptimeBlockAndIfElse(t *testing.T) {
	f := mustParse(t, `x :: comptime {
	if true {
		1
	} else {
		2
	}
}`)
	ct, ok := f.Decls[0].Init.(*ast.ComptimeExpr)
	if !ok {
		t.Fatalf("expected ComptimeExpr, got %T", f.Decls[0].Init)
	}
	ifExpr, ok := ct.Body.Result.(*ast.IfExpr)
	if !ok {
		t.Fatalf("expected trailing IfExpr, got %+v", ct.Body.Result)
	}
	if ifExpr.Else == nil {
		t.Fatalf("expected an else branch")
	}
}

func TestParseAssignAndOpAssign(t *testing.T) {
	f := mustParse(t, `main :: () {
	x := 1
	x = 2
	x += 3
}`)
	fl := f.Decls[0].Init.(*ast.FuncLit)
	if _, ok := fl.Body.Stmts[1].(*ast.AssignStmt); !ok {
		t.Fatalf("expected AssignStmt, got %T", fl.Body.Stmts[1])
	}
	opAssign, ok := fl.Body.Stmts[2].(*ast.AssignStmtOp)
	if !ok || opAssign.Op != "+=" {
		t.Fatalf("got %+v", fl.Body.Stmts[2])
	}
}

func TestParseDuplicateBindingsDoesNotError(t *testing.T) {
	// Duplicate-binding detection is a later HIR-lowering diagnostic
	// (PAR001), not a parse error — the parser accepts both decls.
	f := mustParse(t, "x :: 1\nx :: 2")
	if len(f.Decls) != 2 {
		t.Fatalf("expected 2 decls, got %d", len(f.Decls))
	}
}

func TestParseCallAndIndexAndBinaryPrecedence(t *testing.T) {
	f := mustParse(t, `y :: f(1, 2)[0] + 3 * 4`)
	bin, ok := f.Decls[0].Init.(*ast.BinaryExpr)
	if !ok || bin.Op != "+" {
		t.Fatalf("expected top-level '+', got %+v", f.Decls[0].Init)
	}
	if _, ok := bin.Left.(*ast.IndexExpr); !ok {
		t.Fatalf("expected left operand to be an index expr, got %T", bin.Left)
	}
	mul, ok := bin.Right.(*ast.BinaryExpr)
	if !ok || mul.Op != "*" {
		t.Fatalf("expected right operand to be a '*' expr, got %+v", bin.Right)
	}
}

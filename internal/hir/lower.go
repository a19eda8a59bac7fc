package hir

import (
	"fmt"

	"github.com/capy-lang/capyc/internal/ast"
	"github.com/capy-lang/capyc/internal/diagnostics"
	"github.com/capy-lang/capyc/internal/interner"
)

// Lowerer converts one ast.File into a *Module, resolving every Ident to a
// Binding where possible (§4.2 "Lowering"). It is the generalization of the
// teacher's internal/core ANF lowering: instead of producing a functional
// A-Normal Form, it produces a directly-typed imperative tree, but keeps the
// same shape — a single-pass walk threading a scope chain and an idGen,
// collecting diagnostics into a Bag rather than panicking.
type Lowerer struct {
	ids     idGen
	interns *interner.Interner
	mod     *Module
	diags   diagnostics.Bag

	top  *scope // module-level scope, seeded with every top-level Binding up front
	cur  *scope // innermost lexical scope during the current walk

	loopDepth int // nonzero inside a for-loop body, required for break/continue validity
}

func NewLowerer(interns *interner.Interner, id ModuleID, path string) *Lowerer {
	l := &Lowerer{interns: interns, mod: NewModule(id, path)}
	l.top = newScope(nil)
	l.cur = l.top
	return l
}

func (l *Lowerer) Diagnostics() *diagnostics.Bag { return &l.diags }

// LowerFile performs two passes: first it declares every top-level Binding
// (so `::` declarations may reference each other regardless of textual
// order, §3 "order-independence of top-level bindings"), then it lowers
// each declaration's type/init expressions against that fully-populated
// top-level scope.
func (l *Lowerer) LowerFile(f *ast.File) *Module {
	for _, imp := range f.Imports {
		spec := &ImportSpec{Path: imp.Path, Span: imp.Span}
		if imp.Kind == ast.ImportMod {
			spec.Kind = RegistryImport
		} else {
			spec.Kind = FileImport
		}
		l.mod.Imports = append(l.mod.Imports, spec)
	}

	placeholders := make(map[*ast.Binding]*Binding, len(f.Decls))
	for _, d := range f.Decls {
		hb := &Binding{
			NodeMeta:     l.meta(d.Span),
			Name:         d.Name,
			InternedName: l.interns.Intern(d.Name),
			Kind:         d.Kind,
		}
		if _, dup := l.top.lookup(d.Name); dup {
			l.diags.Add(diagnostics.New(diagnostics.PhaseNames, diagnostics.PAR001,
				fmt.Sprintf("duplicate top-level binding %q", d.Name)).WithSpan(d.Span))
		}
		l.top.declare(hb)
		l.mod.Declare(hb)
		placeholders[d] = hb
	}

	for _, d := range f.Decls {
		hb := placeholders[d]
		if d.DeclaredType != nil {
			hb.DeclaredType = l.lowerTypeExpr(d.DeclaredType)
		}
		if d.Init != nil {
			hb.Init = l.lowerExpr(d.Init)
		}
	}

	return l.mod
}

func (l *Lowerer) meta(span ast.Span) NodeMeta {
	return NodeMeta{ID: l.ids.next_(), Module: l.mod.ID, OrigSpan: span}
}

func (l *Lowerer) pushScope()  { l.cur = newScope(l.cur) }
func (l *Lowerer) popScope()   { l.cur = l.cur.parent }

func (l *Lowerer) resolve(name string, span ast.Span) Symbol {
	if b, ok := l.cur.lookup(name); ok {
		return Symbol{Module: l.mod.ID, Name: b.InternedName, Decl: b, Ok: true}
	}
	if isBuiltinTypeName(name) || isIntrinsicName(name) || isBuiltinGlobalName(name) {
		// Scalar built-ins (i32, bool, str, ...), the compiler intrinsics
		// (println, size_of, the list pseudo-module, ...), and the runtime-
		// populated globals (args) are never declared as bindings; HIR-Ty
		// and internal/comptime resolve them by name directly, so an
		// unresolved Symbol here is expected, not an error.
		return Symbol{Ok: false}
	}
	l.diags.Add(diagnostics.New(diagnostics.PhaseNames, diagnostics.NAM001,
		fmt.Sprintf("unresolved identifier %q", name)).WithSpan(span))
	return Symbol{Ok: false}
}

// isBuiltinTypeName lists the scalar type keywords HIR-Ty resolves without
// a backing Binding (internal/hirty's builtinTypeByName is the canonical,
// type-bearing counterpart of this name list).
func isBuiltinTypeName(name string) bool {
	switch name {
	case "i8", "i16", "i32", "i64", "i128", "isize",
		"u8", "u16", "u32", "u64", "u128", "usize",
		"f32", "f64", "bool", "char", "str", "void", "type", "any",
		"rawptr", "rawptr_mut", "rawslice":
		return true
	default:
		return false
	}
}

// isIntrinsicName lists the bare identifiers that resolve to a compiler
// intrinsic rather than a user binding: the reflection builtins (§9.1),
// println (§9 "Dynamic dispatch"), and "list" — the `list.make`/
// `list.push`/`list.len`/`list.get` pseudo-module backing the stdlib List
// container (§9 "Polymorphism ... exclusively through any plus
// reflection (see List)"). "list" is recognized here (rather than
// resolving through a real #mod("list") import) because it is implemented
// as a compiler intrinsic, not a user-space source module — see
// internal/comptime/list.go and internal/codegen/funcgen.go.
func isIntrinsicName(name string) bool {
	switch name {
	case "println", "size_of", "align_of", "stride_of", "get_type_info", "list":
		return true
	default:
		return false
	}
}

// isBuiltinGlobalName lists the bare identifiers that resolve to a runtime-
// populated global rather than a user binding or an intrinsic. "args" is
// `[]str`, populated from argv by the entry trampoline (§4.5 "Entry point")
// before main's body runs — see internal/hirty's synthesizeVar and
// internal/codegen/runtime.go's entryTrampoline.
func isBuiltinGlobalName(name string) bool {
	switch name {
	case "args":
		return true
	default:
		return false
	}
}

// lowerExpr dispatches on every ast.Expr variant. Nil handling: a nil
// sub-expression (e.g. an omitted else-branch) lowers to nil, left for
// downstream passes to interpret per their own nil conventions.
func (l *Lowerer) lowerExpr(e ast.Expr) Expr {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *ast.IntLit:
		return &Lit{NodeMeta: l.meta(n.Span), Kind: LitInt, Value: n.Value}
	case *ast.FloatLit:
		return &Lit{NodeMeta: l.meta(n.Span), Kind: LitFloat, Value: n.Value}
	case *ast.BoolLit:
		return &Lit{NodeMeta: l.meta(n.Span), Kind: LitBool, Value: n.Value}
	case *ast.CharLit:
		return &Lit{NodeMeta: l.meta(n.Span), Kind: LitChar, Value: n.Value}
	case *ast.StringLit:
		return &Lit{NodeMeta: l.meta(n.Span), Kind: LitString, Value: n.Value}
	case *ast.UnitLit:
		return &Lit{NodeMeta: l.meta(n.Span), Kind: LitUnit, Value: nil}
	case *ast.Ident:
		return &Var{NodeMeta: l.meta(n.Span), Name: n.Name, Resolved: l.resolve(n.Name, n.Span)}
	case *ast.ArrayLit:
		elems := make([]Expr, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = l.lowerExpr(el)
		}
		return &ArrayLit{NodeMeta: l.meta(n.Span), ElemType: l.lowerTypeExpr(n.ElemType), Elems: elems}
	case *ast.StructLit:
		fields := make([]StructLitField, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = StructLitField{Name: f.Name, Value: l.lowerExpr(f.Value)}
		}
		return &StructLit{NodeMeta: l.meta(n.Span), StructType: l.lowerTypeExpr(n.StructType), Fields: fields}
	case *ast.BinaryExpr:
		return &BinaryExpr{NodeMeta: l.meta(n.Span), Op: n.Op, Left: l.lowerExpr(n.Left), Right: l.lowerExpr(n.Right)}
	case *ast.UnaryExpr:
		return &UnaryExpr{NodeMeta: l.meta(n.Span), Op: n.Op, Operand: l.lowerExpr(n.Operand)}
	case *ast.DerefExpr:
		return &DerefExpr{NodeMeta: l.meta(n.Span), Operand: l.lowerExpr(n.Operand)}
	case *ast.CallExpr:
		args := make([]Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = l.lowerExpr(a)
		}
		return &CallExpr{NodeMeta: l.meta(n.Span), Func: l.lowerExpr(n.Func), Args: args}
	case *ast.CastExpr:
		return &CastExpr{NodeMeta: l.meta(n.Span), Target: l.lowerTypeExpr(n.Target), Value: l.lowerExpr(n.Value)}
	case *ast.FieldExpr:
		return &FieldExpr{NodeMeta: l.meta(n.Span), Recv: l.lowerExpr(n.Recv), Field: n.Field}
	case *ast.IndexExpr:
		return &IndexExpr{NodeMeta: l.meta(n.Span), Recv: l.lowerExpr(n.Recv), Index: l.lowerExpr(n.Index)}
	case *ast.IfExpr:
		return &IfExpr{NodeMeta: l.meta(n.Span), Cond: l.lowerExpr(n.Cond), Then: l.lowerExpr(n.Then), Else: l.lowerExpr(n.Else)}
	case *ast.BlockExpr:
		return l.lowerBlock(n)
	case *ast.ComptimeExpr:
		body := n.Body
		blk := l.lowerBlock(body)
		return &ComptimeExpr{NodeMeta: l.meta(n.Span), Body: blk}
	case *ast.ForExpr:
		return l.lowerFor(n)
	case *ast.SwitchExpr:
		return l.lowerSwitch(n)
	case *ast.FuncLit:
		return l.lowerFuncLit(n)
	default:
		// Every syntactic type form (NamedType, StructType, EnumType, ...)
		// also satisfies ast.Expr, since types are first-class values here;
		// route it through the same construction lowerTypeExpr uses for
		// declared-type position so `Point :: struct { ... }` and
		// `x : Point = ...` produce identical HIR for "Point".
		if te, ok := e.(ast.TypeExpr); ok {
			return l.lowerTypeExpr(te)
		}
		l.diags.Add(diagnostics.New(diagnostics.PhaseNames, diagnostics.INT001,
			fmt.Sprintf("lower: unhandled ast.Expr %T", e)).WithSpan(pointSpan(e.Position())))
		return nil
	}
}

func pointSpan(p ast.Pos) ast.Span { return ast.Span{Start: p, End: p} }

// lowerBlock collects defer statements into Block.Defers (in source order;
// execution order is the reverse, applied by the comptime engine and
// codegen at every exit edge — §9 "LIFO trailers").
func (l *Lowerer) lowerBlock(n *ast.BlockExpr) *BlockExpr {
	l.pushScope()
	defer l.popScope()

	blk := &BlockExpr{NodeMeta: l.meta(n.Span)}
	for _, s := range n.Stmts {
		if ds, ok := s.(*ast.DeferStmt); ok {
			blk.Defers = append(blk.Defers, l.lowerExpr(ds.X))
			continue
		}
		blk.Stmts = append(blk.Stmts, l.lowerStmt(s))
	}
	blk.Result = l.lowerExpr(n.Result)
	return blk
}

func (l *Lowerer) lowerStmt(s ast.Stmt) Stmt {
	switch n := s.(type) {
	case *ast.ExprStmt:
		return &ExprStmt{NodeMeta: l.meta(n.Span), X: l.lowerExpr(n.X)}
	case *ast.BindStmt:
		hb := &Binding{
			NodeMeta:     l.meta(n.Binding.Span),
			Name:         n.Binding.Name,
			InternedName: l.interns.Intern(n.Binding.Name),
			Kind:         n.Binding.Kind,
		}
		if n.Binding.DeclaredType != nil {
			hb.DeclaredType = l.lowerTypeExpr(n.Binding.DeclaredType)
		}
		if n.Binding.Init != nil {
			hb.Init = l.lowerExpr(n.Binding.Init)
		}
		l.cur.declare(hb)
		return &BindStmt{NodeMeta: l.meta(n.Span), Binding: hb}
	case *ast.AssignStmt:
		return &AssignStmt{NodeMeta: l.meta(n.Span), Target: l.lowerExpr(n.Target), Value: l.lowerExpr(n.Value)}
	case *ast.AssignStmtOp:
		return &AssignStmt{NodeMeta: l.meta(n.Span), Op: n.Op, Target: l.lowerExpr(n.Target), Value: l.lowerExpr(n.Value)}
	case *ast.ReturnStmt:
		return &ReturnStmt{NodeMeta: l.meta(n.Span), Value: l.lowerExpr(n.Value)}
	case *ast.BreakStmt:
		if l.loopDepth == 0 {
			l.diags.Add(diagnostics.New(diagnostics.PhaseNames, diagnostics.INT001, "break outside a loop").WithSpan(n.Span))
		}
		return &BreakStmt{NodeMeta: l.meta(n.Span)}
	case *ast.ContinueStmt:
		if l.loopDepth == 0 {
			l.diags.Add(diagnostics.New(diagnostics.PhaseNames, diagnostics.INT001, "continue outside a loop").WithSpan(n.Span))
		}
		return &ContinueStmt{NodeMeta: l.meta(n.Span)}
	default:
		l.diags.Add(diagnostics.New(diagnostics.PhaseNames, diagnostics.INT001,
			fmt.Sprintf("lower: unhandled ast.Stmt %T", s)).WithSpan(pointSpan(s.Position())))
		return nil
	}
}

func (l *Lowerer) lowerFor(n *ast.ForExpr) *ForExpr {
	l.pushScope()
	defer l.popScope()
	l.loopDepth++
	defer func() { l.loopDepth-- }()

	fe := &ForExpr{NodeMeta: l.meta(n.Span)}
	if n.Cond != nil {
		fe.Cond = l.lowerExpr(n.Cond)
	}
	if n.Binder != "" {
		fe.Binder = n.Binder
		fe.Iterable = l.lowerExpr(n.Iterable)
		fe.BinderDecl = &Binding{NodeMeta: l.meta(n.Span), Name: n.Binder, InternedName: l.interns.Intern(n.Binder)}
		l.cur.declare(fe.BinderDecl)
	}
	fe.Body = l.lowerBlockNoScope(n.Body)
	return fe
}

// lowerBlockNoScope lowers a block's statements in the *caller's* current
// scope (already pushed by lowerFor/lowerSwitch) rather than opening
// another nested one, so a for-binder or switch-case binder is visible to
// the block body without an extra scope layer.
func (l *Lowerer) lowerBlockNoScope(n *ast.BlockExpr) *BlockExpr {
	blk := &BlockExpr{NodeMeta: l.meta(n.Span)}
	for _, s := range n.Stmts {
		if ds, ok := s.(*ast.DeferStmt); ok {
			blk.Defers = append(blk.Defers, l.lowerExpr(ds.X))
			continue
		}
		blk.Stmts = append(blk.Stmts, l.lowerStmt(s))
	}
	blk.Result = l.lowerExpr(n.Result)
	return blk
}

func (l *Lowerer) lowerSwitch(n *ast.SwitchExpr) *SwitchExpr {
	se := &SwitchExpr{NodeMeta: l.meta(n.Span), Scrutinee: l.lowerExpr(n.Scrutinee)}
	for _, c := range n.Cases {
		l.pushScope()
		var binderDecl *Binding
		if c.BinderName != "" {
			binderDecl = &Binding{NodeMeta: l.meta(n.Span), Name: c.BinderName, InternedName: l.interns.Intern(c.BinderName)}
			l.cur.declare(binderDecl)
		}
		se.Cases = append(se.Cases, SwitchCase{
			VariantName: c.VariantName,
			BinderName:  c.BinderName,
			BinderDecl:  binderDecl,
			Body:        l.lowerBlockNoScope(c.Body),
		})
		l.popScope()
	}
	return se
}

func (l *Lowerer) lowerFuncLit(n *ast.FuncLit) *FuncLit {
	l.pushScope()
	defer l.popScope()

	fl := &FuncLit{NodeMeta: l.meta(n.Span)}
	for _, p := range n.Params {
		decl := &Binding{NodeMeta: l.meta(n.Span), Name: p.Name, InternedName: l.interns.Intern(p.Name)}
		fl.Params = append(fl.Params, Param{Name: p.Name, Type: l.lowerTypeExpr(p.Type), Decl: decl})
		l.cur.declare(decl)
	}
	if n.Result != nil {
		fl.Result = l.lowerTypeExpr(n.Result)
	}
	fl.Body = l.lowerBlockNoScope(n.Body)
	return fl
}

// lowerTypeExpr lowers an ast.TypeExpr into the corresponding HIR expression
// form. Type expressions are ordinary Exprs in this HIR (first-class types,
// §3), so a NamedType becomes a Var referencing the type's declaring
// binding, a StructType/EnumType/etc. becomes a synthetic struct/enum
// literal description evaluated by HIR-Ty and the comptime engine.
func (l *Lowerer) lowerTypeExpr(te ast.TypeExpr) Expr {
	if te == nil {
		return nil
	}
	switch n := te.(type) {
	case *ast.NamedType:
		return &Var{NodeMeta: l.meta(n.Span), Name: n.Name, Resolved: l.resolve(n.Name, n.Span)}
	case *ast.PointerType:
		return &PointerTypeExpr{NodeMeta: l.meta(n.Span), Pointee: l.lowerTypeExpr(n.Pointee), Mutable: n.Mutable}
	case *ast.SliceType:
		return &SliceTypeExpr{NodeMeta: l.meta(n.Span), Elem: l.lowerTypeExpr(n.Elem)}
	case *ast.ArrayType:
		return &ArrayTypeExpr{NodeMeta: l.meta(n.Span), Length: l.lowerExpr(n.Length), Elem: l.lowerTypeExpr(n.Elem)}
	case *ast.DistinctType:
		return &DistinctTypeExpr{NodeMeta: l.meta(n.Span), Underlying: l.lowerTypeExpr(n.Underlying)}
	case *ast.StructType:
		members := make([]StructMemberExpr, len(n.Members))
		for i, m := range n.Members {
			members[i] = StructMemberExpr{Name: m.Name, Type: l.lowerTypeExpr(m.Type)}
		}
		return &StructTypeExpr{NodeMeta: l.meta(n.Span), Members: members}
	case *ast.EnumType:
		variants := make([]EnumVariantExpr, len(n.Variants))
		for i, v := range n.Variants {
			ve := EnumVariantExpr{Name: v.Name, Discriminant: v.Discriminant}
			if v.PayloadType != nil {
				ve.Payload = l.lowerTypeExpr(v.PayloadType)
			}
			variants[i] = ve
		}
		return &EnumTypeExpr{NodeMeta: l.meta(n.Span), Variants: variants}
	case *ast.FuncType:
		params := make([]Expr, len(n.Params))
		for i, p := range n.Params {
			params[i] = l.lowerTypeExpr(p)
		}
		var result Expr
		if n.Result != nil {
			result = l.lowerTypeExpr(n.Result)
		}
		return &FuncTypeExpr{NodeMeta: l.meta(n.Span), Params: params, Result: result}
	case *ast.FieldExpr:
		// `Enum.Variant` used as a type position (selecting a Variant type).
		return &FieldExpr{NodeMeta: l.meta(n.Span), Recv: l.lowerExpr(n.Recv), Field: n.Field}
	default:
		l.diags.Add(diagnostics.New(diagnostics.PhaseNames, diagnostics.INT001,
			fmt.Sprintf("lower: unhandled ast.TypeExpr %T", te)).WithSpan(pointSpan(te.Position())))
		return nil
	}
}

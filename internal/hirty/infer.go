package hirty

import (
	"github.com/capy-lang/capyc/internal/ast"
	"github.com/capy-lang/capyc/internal/diagnostics"
	"github.com/capy-lang/capyc/internal/hir"
	"github.com/capy-lang/capyc/internal/types"
)

// infer is the bidirectional walk over ordinary (non-type-position)
// expressions: when expected is non-nil it checks against it (converting
// implicitly where §4.3 permits), otherwise it synthesizes a type from the
// expression's own shape. Type-expression nodes are also accepted here
// (they synthesize as MetaType) since the grammar lets a type value appear
// anywhere an ordinary expression can (§3 "First-class types").
func (c *Checker) infer(e hir.Expr, expected *types.ID) types.ID {
	got := c.synthesize(e)
	if expected == nil {
		return got
	}
	if c.table.Get(*expected).Equals(c.table.Get(got)) {
		return c.record(e, got)
	}
	if converted, ok := c.tryImplicitConvert(e, got, *expected); ok {
		return c.record(e, converted)
	}
	c.errorf(diagnostics.PhaseTypes, diagnostics.TYP001, e.Span(),
		"expected %s, found %s", c.table.Get(*expected), c.table.Get(got))
	return c.record(e, got)
}

func (c *Checker) synthesize(e hir.Expr) types.ID {
	switch n := e.(type) {
	case *hir.Lit:
		return c.record(n, c.synthesizeLit(n))
	case *hir.Var:
		return c.record(n, c.synthesizeVar(n))
	case *hir.ArrayLit:
		return c.record(n, c.synthesizeArrayLit(n))
	case *hir.StructLit:
		return c.record(n, c.synthesizeStructLit(n))
	case *hir.BinaryExpr:
		return c.record(n, c.synthesizeBinary(n))
	case *hir.UnaryExpr:
		return c.record(n, c.synthesizeUnary(n))
	case *hir.DerefExpr:
		return c.record(n, c.synthesizeDeref(n))
	case *hir.CallExpr:
		return c.record(n, c.synthesizeCall(n))
	case *hir.CastExpr:
		return c.record(n, c.synthesizeCast(n))
	case *hir.FieldExpr:
		return c.record(n, c.synthesizeField(n))
	case *hir.IndexExpr:
		return c.record(n, c.synthesizeIndex(n))
	case *hir.IfExpr:
		return c.record(n, c.synthesizeIf(n))
	case *hir.BlockExpr:
		return c.record(n, c.synthesizeBlock(n))
	case *hir.ComptimeExpr:
		return c.record(n, c.synthesizeComptime(n, nil))
	case *hir.ForExpr:
		return c.record(n, c.synthesizeFor(n))
	case *hir.SwitchExpr:
		return c.record(n, c.synthesizeSwitch(n))
	case *hir.FuncLit:
		return c.record(n, c.synthesizeFuncLit(n))
	case *hir.PointerTypeExpr, *hir.SliceTypeExpr, *hir.ArrayTypeExpr,
		*hir.DistinctTypeExpr, *hir.StructTypeExpr, *hir.EnumTypeExpr, *hir.FuncTypeExpr:
		c.evalTypeExpr(e)
		return c.record(e, c.table.IDOf(&types.MetaType{}))
	default:
		c.errorf(diagnostics.PhaseInternal, diagnostics.INT001, e.Span(), "unhandled expression in type inference")
		return c.table.IDOf(&types.Void{})
	}
}

func (c *Checker) synthesizeLit(l *hir.Lit) types.ID {
	switch l.Kind {
	case hir.LitInt:
		return c.table.IDOf(&types.Int{Bits: types.W32, Signed: true})
	case hir.LitFloat:
		return c.table.IDOf(&types.Float{Bits: types.W64})
	case hir.LitBool:
		return c.table.IDOf(&types.Bool{})
	case hir.LitChar:
		return c.table.IDOf(&types.Char{})
	case hir.LitString:
		return c.table.IDOf(&types.String{})
	default:
		return c.table.IDOf(&types.Void{})
	}
}

func (c *Checker) synthesizeVar(v *hir.Var) types.ID {
	if id, ok := builtinTypeByName(v.Name); ok {
		return c.table.IDOf(id)
	}
	if !v.Resolved.Ok {
		if v.Name == "args" {
			// Populated by the entry trampoline from argv, §4.5 "Entry
			// point" — see internal/codegen/runtime.go's entryTrampoline.
			return c.table.IDOf(&types.Slice{Elem: &types.String{}})
		}
		return c.table.IDOf(&types.Void{})
	}
	// v.Resolved.Decl is the exact Binding the lowerer's scope chain found
	// (top-level or local — params and for/switch binders are synthetic
	// Bindings too). Keying off the pointer's NodeID rather than the
	// interned Name avoids aliasing two different bindings that happen to
	// share a name, which InternedName alone cannot distinguish.
	if v.Resolved.Decl != nil {
		if id, ok := c.NodeType(v.Resolved.Decl.NodeID_()); ok {
			return id
		}
		return c.checkBinding(v.Resolved.Decl)
	}
	if c.mod != nil {
		for _, b := range c.mod.Decls {
			if b.InternedName == v.Resolved.Name {
				return c.checkBinding(b)
			}
		}
	}
	c.errorf(diagnostics.PhaseNames, diagnostics.NAM001, v.Span(), "unresolved reference to %q", v.Name)
	return c.table.IDOf(&types.Void{})
}

func (c *Checker) synthesizeArrayLit(a *hir.ArrayLit) types.ID {
	elem := c.table.Get(c.evalTypeExpr(a.ElemType))
	elemID := c.table.IDOf(elem)
	for _, el := range a.Elems {
		c.infer(el, &elemID)
	}
	return c.table.IDOf(&types.Array{Elem: elem, Length: uint64(len(a.Elems))})
}

func (c *Checker) synthesizeStructLit(s *hir.StructLit) types.ID {
	structID := c.evalTypeExpr(s.StructType)
	st, ok := c.table.Get(structID).(*types.Struct)
	if !ok {
		c.errorf(diagnostics.PhaseTypes, diagnostics.TYP002, s.Span(), "%s is not a struct type", s.StructType)
		for _, f := range s.Fields {
			c.infer(f.Value, nil)
		}
		return structID
	}
	for _, f := range s.Fields {
		member, ok := memberByName(st, f.Name)
		if !ok {
			c.errorf(diagnostics.PhaseTypes, diagnostics.TYP003, s.Span(), "struct %q has no field %q", st.Name, f.Name)
			c.infer(f.Value, nil)
			continue
		}
		memberID := c.table.IDOf(member.Type)
		c.infer(f.Value, &memberID)
	}
	return structID
}

func memberByName(st *types.Struct, name string) (types.Member, bool) {
	for _, m := range st.Members {
		if m.Name == name {
			return m, true
		}
	}
	return types.Member{}, false
}

func (c *Checker) synthesizeBinary(b *hir.BinaryExpr) types.ID {
	lID := c.infer(b.Left, nil)
	switch b.Op {
	case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
		c.infer(b.Right, &lID)
		return c.table.IDOf(&types.Bool{})
	default:
		c.infer(b.Right, &lID)
		return lID
	}
}

func (c *Checker) synthesizeUnary(u *hir.UnaryExpr) types.ID {
	operandID := c.infer(u.Operand, nil)
	switch u.Op {
	case "!":
		return c.table.IDOf(&types.Bool{})
	case "^":
		// Address-of: a mutable binding yields ^mut T so it may in turn be
		// passed where a mutable pointer parameter is expected (§3 "Binding",
		// §4.3 implicit-conversion table — mutable accepted where immutable
		// wanted, never the reverse).
		mutable := false
		if v, ok := u.Operand.(*hir.Var); ok && v.Resolved.Decl != nil {
			mutable = v.Resolved.Decl.Kind == ast.Mutable
		}
		return c.table.IDOf(&types.Pointer{Pointee: c.table.Get(operandID), Mutable: mutable})
	default:
		return operandID
	}
}

func (c *Checker) synthesizeDeref(d *hir.DerefExpr) types.ID {
	operandID := c.infer(d.Operand, nil)
	// An explicit `.*` strips exactly one Pointer layer: dereferencing a
	// pointer-to-pointer yields the inner pointer type.
	if p, ok := c.table.Get(operandID).(*types.Pointer); ok {
		return c.table.IDOf(p.Pointee)
	}
	c.errorf(diagnostics.PhaseTypes, diagnostics.TYP004, d.Span(), "cannot dereference non-pointer type %s", c.table.Get(operandID))
	return operandID
}

// intrinsicCallName reports whether call.Func names one of the builtin
// reflection intrinsics (§9.1 supplemented features): these are never
// declared bindings, so they lower to an unresolved *hir.Var the same way
// a typo'd identifier would, and must be recognized before the ordinary
// "is this callable" check runs.
func intrinsicCallName(fn hir.Expr) (string, bool) {
	v, ok := fn.(*hir.Var)
	if !ok || v.Resolved.Ok {
		return "", false
	}
	switch v.Name {
	case "size_of", "align_of", "stride_of", "get_type_info":
		return v.Name, true
	default:
		return "", false
	}
}

// runtimeIntrinsicName reports whether call.Func names one of the builtin
// runtime intrinsics reachable from ordinary (non-type-position) code:
// println takes a single value of any type (formatted via reflection at
// runtime, §9 "Dynamic dispatch ... no v-tables") and reports void.
func runtimeIntrinsicName(fn hir.Expr) (string, bool) {
	v, ok := fn.(*hir.Var)
	if !ok || v.Resolved.Ok {
		return "", false
	}
	if v.Name == "println" {
		return v.Name, true
	}
	return "", false
}

func (c *Checker) synthesizePrintlnCall(call *hir.CallExpr) types.ID {
	if len(call.Args) != 1 {
		c.errorf(diagnostics.PhaseTypes, diagnostics.TYP006, call.Span(),
			"println expects exactly one argument, found %d", len(call.Args))
	}
	for _, a := range call.Args {
		c.infer(a, nil)
	}
	return c.table.IDOf(&types.Void{})
}

// synthesizeIntrinsicCall type-checks size_of/align_of/stride_of/
// get_type_info: each takes exactly one type-denoting argument. The first
// three report usize; get_type_info reports usize too, holding the
// argument type's own id as an opaque handle into types.ReflectTable
// rather than a full `any` (no field-by-field reflection API is exposed at
// this type, only table lookup by id).
func (c *Checker) synthesizeIntrinsicCall(name string, call *hir.CallExpr) types.ID {
	usize := c.table.IDOf(&types.Int{Bits: types.WSize, Signed: false})
	if len(call.Args) != 1 {
		c.errorf(diagnostics.PhaseTypes, diagnostics.TYP006, call.Span(),
			"%s expects exactly one type argument, found %d", name, len(call.Args))
		return usize
	}
	c.evalTypeExpr(call.Args[0])
	return usize
}

// listCtorCallName reports whether call.Func is the `list.make` pseudo-
// module constructor (§9 "runtime polymorphism ... exclusively through any
// plus reflection (see List)"): Recv is the bare, still-unbound "list"
// identifier. Once a binding has shadowed that name (`list := list.make(...)`),
// later uses of "list" resolve to the instance instead and list.push/.len/
// .get are recognized as method-style field access on a List-typed value
// (see listMethodName), not as this constructor.
func listCtorCallName(fn hir.Expr) bool {
	fe, ok := fn.(*hir.FieldExpr)
	if !ok || fe.Field != "make" {
		return false
	}
	v, ok := fe.Recv.(*hir.Var)
	return ok && !v.Resolved.Ok && v.Name == "list"
}

func (c *Checker) synthesizeListCtorCall(call *hir.CallExpr) types.ID {
	if len(call.Args) != 1 {
		c.errorf(diagnostics.PhaseTypes, diagnostics.TYP006, call.Span(),
			"list.make expects exactly one type argument, found %d", len(call.Args))
	} else {
		c.evalTypeExpr(call.Args[0])
	}
	return c.table.IDOf(types.ListType())
}

// listMethodName reports whether field names one of the List pseudo-
// methods reachable once a receiver is already List-typed.
func listMethodName(field string) bool {
	switch field {
	case "push", "len", "get":
		return true
	default:
		return false
	}
}

// synthesizeListMethodCall type-checks list.push/.len/.get. Arguments are
// inferred with no expected type — boxing a pushed value into the `any`
// cells List stores is the engine's/codegen's job (internal/comptime/list.go
// and internal/codegen/funcgen.go), not
// tryImplicitConvert's, since §4.3's closed conversion set has no T->any
// direction.
func (c *Checker) synthesizeListMethodCall(field string, call *hir.CallExpr) types.ID {
	usize := c.table.IDOf(&types.Int{Bits: types.WSize, Signed: false})
	switch field {
	case "push":
		if len(call.Args) != 2 {
			c.errorf(diagnostics.PhaseTypes, diagnostics.TYP006, call.Span(),
				"list.push expects (^mut List, value), found %d arguments", len(call.Args))
		}
		for _, a := range call.Args {
			c.infer(a, nil)
		}
		return c.table.IDOf(&types.Void{})
	case "len":
		if len(call.Args) != 1 {
			c.errorf(diagnostics.PhaseTypes, diagnostics.TYP006, call.Span(),
				"list.len expects one argument, found %d", len(call.Args))
		}
		for _, a := range call.Args {
			c.infer(a, nil)
		}
		return usize
	default: // get
		if len(call.Args) != 2 {
			c.errorf(diagnostics.PhaseTypes, diagnostics.TYP006, call.Span(),
				"list.get expects (List, index), found %d arguments", len(call.Args))
		}
		for _, a := range call.Args {
			c.infer(a, nil)
		}
		return c.table.IDOf(&types.Any{})
	}
}

func (c *Checker) synthesizeCall(call *hir.CallExpr) types.ID {
	if listCtorCallName(call.Func) {
		return c.synthesizeListCtorCall(call)
	}
	if fe, ok := call.Func.(*hir.FieldExpr); ok && listMethodName(fe.Field) {
		recvID := c.infer(fe.Recv, nil)
		if c.table.Get(recvID).Equals(types.ListType()) {
			return c.synthesizeListMethodCall(fe.Field, call)
		}
	}
	if name, ok := intrinsicCallName(call.Func); ok {
		return c.synthesizeIntrinsicCall(name, call)
	}
	if _, ok := runtimeIntrinsicName(call.Func); ok {
		return c.synthesizePrintlnCall(call)
	}
	funcID := c.infer(call.Func, nil)
	fn, ok := c.table.Get(funcID).(*types.Function)
	if !ok {
		c.errorf(diagnostics.PhaseTypes, diagnostics.TYP005, call.Span(), "%s is not callable", call.Func)
		for _, a := range call.Args {
			c.infer(a, nil)
		}
		return c.table.IDOf(&types.Void{})
	}
	for i, a := range call.Args {
		if i < len(fn.Params) {
			pid := c.table.IDOf(fn.Params[i])
			c.infer(a, &pid)
		} else {
			c.infer(a, nil)
		}
	}
	if len(call.Args) != len(fn.Params) {
		c.errorf(diagnostics.PhaseTypes, diagnostics.TYP006, call.Span(),
			"call to %s expects %d arguments, found %d", call.Func, len(fn.Params), len(call.Args))
	}
	return c.table.IDOf(fn.Result)
}

func (c *Checker) synthesizeCast(ce *hir.CastExpr) types.ID {
	targetID := c.evalTypeExpr(ce.Target)
	fromID := c.infer(ce.Value, nil)
	if !canCast(c.table.Get(fromID), c.table.Get(targetID)) {
		c.errorf(diagnostics.PhaseTypes, diagnostics.TYP007, ce.Span(),
			"cannot cast %s to %s", c.table.Get(fromID), c.table.Get(targetID))
	}
	return targetID
}

func (c *Checker) synthesizeField(f *hir.FieldExpr) types.ID {
	recvID := c.infer(f.Recv, nil)
	recvTy := c.table.Get(recvID)
	if p, ok := recvTy.(*types.Pointer); ok {
		recvTy = p.Pointee
	}
	switch t := recvTy.(type) {
	case *types.Struct:
		m, ok := memberByName(t, f.Field)
		if !ok {
			c.errorf(diagnostics.PhaseNames, diagnostics.NAM002, f.Span(), "struct %q has no field %q", t.Name, f.Field)
			return c.table.IDOf(&types.Void{})
		}
		return c.table.IDOf(m.Type)
	case *types.Enum:
		v, ok := t.VariantByName(f.Field)
		if !ok {
			c.errorf(diagnostics.PhaseNames, diagnostics.NAM002, f.Span(), "enum %q has no variant %q", t.Name, f.Field)
			return c.table.IDOf(&types.Void{})
		}
		return c.table.Intern(v)
	default:
		c.errorf(diagnostics.PhaseTypes, diagnostics.TYP002, f.Span(), "%s has no field %q", recvTy, f.Field)
		return c.table.IDOf(&types.Void{})
	}
}

func (c *Checker) synthesizeIndex(ix *hir.IndexExpr) types.ID {
	recvID := c.infer(ix.Recv, nil)
	idxID := c.infer(ix.Index, nil)
	if _, ok := c.table.Get(idxID).(*types.Int); !ok {
		c.errorf(diagnostics.PhaseTypes, diagnostics.TYP001, ix.Index.Span(), "index must be an integer")
	}
	switch t := c.table.Get(recvID).(type) {
	case *types.Array:
		return c.table.IDOf(t.Elem)
	case *types.Slice:
		return c.table.IDOf(t.Elem)
	default:
		c.errorf(diagnostics.PhaseTypes, diagnostics.TYP002, ix.Span(), "%s is not indexable", c.table.Get(recvID))
		return c.table.IDOf(&types.Void{})
	}
}

func (c *Checker) synthesizeIf(i *hir.IfExpr) types.ID {
	boolID := c.table.IDOf(&types.Bool{})
	c.infer(i.Cond, &boolID)
	thenID := c.infer(i.Then, nil)
	if i.Else == nil {
		return c.table.IDOf(&types.Void{})
	}
	c.infer(i.Else, &thenID)
	return thenID
}

func (c *Checker) synthesizeBlock(b *hir.BlockExpr) types.ID {
	c.checkStmts(b.Stmts)
	for _, d := range b.Defers {
		c.infer(d, nil)
	}
	if b.Result != nil {
		return c.infer(b.Result, nil)
	}
	return c.table.IDOf(&types.Void{})
}

func (c *Checker) synthesizeComptime(ce *hir.ComptimeExpr, expected *types.ID) types.ID {
	if ce.Body != nil {
		c.synthesizeBlock(ce.Body)
	}
	if c.comptime == nil {
		return c.table.IDOf(&types.Void{})
	}
	var want types.ID
	if expected != nil {
		want = *expected
	} else {
		want = c.table.IDOf(&types.Void{})
	}
	cv, diag := c.comptime.Evaluate(ce, want)
	if diag != nil {
		c.diags.Add(diag)
		return c.table.IDOf(&types.Void{})
	}
	if cv.IsType {
		return c.table.IDOf(&types.MetaType{})
	}
	return cv.Type
}

func (c *Checker) synthesizeFor(f *hir.ForExpr) types.ID {
	if f.Cond != nil {
		boolID := c.table.IDOf(&types.Bool{})
		c.infer(f.Cond, &boolID)
	}
	if f.Iterable != nil {
		iterID := c.infer(f.Iterable, nil)
		if f.BinderDecl != nil {
			elemID := iterID
			switch t := c.table.Get(iterID).(type) {
			case *types.Array:
				elemID = c.table.IDOf(t.Elem)
			case *types.Slice:
				elemID = c.table.IDOf(t.Elem)
			}
			c.record(f.BinderDecl, elemID)
			c.isConst[f.BinderDecl.InternedName] = false
		}
	}
	c.synthesizeBlock(f.Body)
	return c.table.IDOf(&types.Void{})
}

func (c *Checker) synthesizeSwitch(s *hir.SwitchExpr) types.ID {
	scrutID := c.infer(s.Scrutinee, nil)
	en, ok := c.table.Get(scrutID).(*types.Enum)
	if !ok {
		c.errorf(diagnostics.PhaseTypes, diagnostics.TYP002, s.Span(), "switch scrutinee %s is not an enum", c.table.Get(scrutID))
		for _, cs := range s.Cases {
			c.synthesizeBlock(cs.Body)
		}
		return c.table.IDOf(&types.Void{})
	}
	var resultID *types.ID
	for _, cs := range s.Cases {
		variant, ok := en.VariantByName(cs.VariantName)
		if !ok {
			c.errorf(diagnostics.PhaseNames, diagnostics.NAM002, s.Span(), "enum %q has no variant %q", en.Name, cs.VariantName)
		} else if cs.BinderDecl != nil && variant.Payload != nil {
			c.record(cs.BinderDecl, c.table.IDOf(variant.Payload))
			c.isConst[cs.BinderDecl.InternedName] = false
		}
		got := c.synthesizeBlock(cs.Body)
		if resultID == nil {
			resultID = &got
		}
	}
	if resultID == nil {
		return c.table.IDOf(&types.Void{})
	}
	return *resultID
}

func (c *Checker) synthesizeFuncLit(f *hir.FuncLit) types.ID {
	params := make([]types.Type, len(f.Params))
	for i, p := range f.Params {
		pid := c.evalTypeExpr(p.Type)
		params[i] = c.table.Get(pid)
		if p.Decl != nil {
			c.record(p.Decl, pid)
			c.isConst[p.Decl.InternedName] = false
		}
	}
	var result types.Type = &types.Void{}
	var resultID *types.ID
	if f.Result != nil {
		rid := c.evalTypeExpr(f.Result)
		result = c.table.Get(rid)
		resultID = &rid
	}
	if f.Body != nil {
		got := c.synthesizeBlock(f.Body)
		if resultID != nil && !c.table.Get(*resultID).Equals(c.table.Get(got)) {
			if _, ok := c.tryImplicitConvert(f.Body.Result, got, *resultID); !ok && f.Body.Result != nil {
				c.errorf(diagnostics.PhaseTypes, diagnostics.TYP001, f.Span(),
					"function body returns %s, declared result is %s", c.table.Get(got), result)
			}
		}
	}
	return c.table.IDOf(&types.Function{Params: params, Result: result})
}

// checkStmts type-checks a statement list without introducing a new
// node-type entry (statements aren't expressions; only their sub-exprs are).
func (c *Checker) checkStmts(stmts []hir.Stmt) {
	for _, s := range stmts {
		c.checkStmt(s)
	}
}

func (c *Checker) checkStmt(s hir.Stmt) {
	switch n := s.(type) {
	case *hir.ExprStmt:
		c.infer(n.X, nil)
	case *hir.BindStmt:
		c.checkLocalBinding(n.Binding)
	case *hir.AssignStmt:
		targetID := c.infer(n.Target, nil)
		c.infer(n.Value, &targetID)
	case *hir.ReturnStmt:
		if n.Value != nil {
			c.infer(n.Value, nil)
		}
	case *hir.BreakStmt, *hir.ContinueStmt:
		// no sub-expressions
	default:
		c.errorf(diagnostics.PhaseInternal, diagnostics.INT001, s.Span(), "unhandled statement in type inference")
	}
}

// checkLocalBinding mirrors checkBinding's logic for a block-local
// declaration, which never participates in on-demand/cycle resolution
// (only top-level `::` bindings can be referenced before their textual
// position, §4.2).
func (c *Checker) checkLocalBinding(b *hir.Binding) types.ID {
	var expected *types.ID
	if b.DeclaredType != nil {
		declID := c.evalTypeExpr(b.DeclaredType)
		expected = &declID
	}
	var gotID types.ID
	if b.Init != nil {
		gotID = c.infer(b.Init, expected)
	} else if expected != nil {
		gotID = *expected
	} else {
		gotID = c.table.IDOf(&types.Void{})
	}
	c.record(b, gotID)
	c.isConst[b.InternedName] = c.computeConstness(b)
	if c.table.Get(gotID).Equals(&types.MetaType{}) {
		if tv, ok := c.typeValueOf(b.Init); ok {
			c.bindingTypeValue[b.InternedName] = tv
		}
	}
	return gotID
}

package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/capy-lang/capyc/internal/diagnostics"
	"github.com/capy-lang/capyc/internal/hir"
	"github.com/capy-lang/capyc/internal/types"
)

// funcGen lowers one hir.FuncLit body to C statements, threading a defer
// stack so a LIFO trailer list attached to any enclosing BlockExpr (§9
// "Defer") is flushed on every exit edge that reaches it: plain
// fall-through, an early `return`, and `break`/`continue` up to (but not
// past) the loop whose body declared them.
//
// Grounded on rubiojr/rugo's pkg/compiler statement emitter (one builder
// per function, a counter for synthesized temporaries) generalized to also
// carry the defer/loop bookkeeping this language's HIR needs and C's lack
// of it does not provide for free.
type funcGen struct {
	g    *Generator
	body *strings.Builder

	locals  map[hir.NodeID]string
	tempSeq int

	// deferStack holds one entry per lexically-enclosing BlockExpr still
	// open, each the (already-lowered) list of its own Defers — innermost
	// last, matching LIFO flush order within a single frame.
	deferStack [][]hir.Expr
	// loopMarks records len(deferStack) at each loop body's entry so
	// break/continue flush exactly the frames opened since that loop.
	loopMarks []int
}

func (g *Generator) writeFunc(name string, lit *hir.FuncLit, ft *types.Function) {
	fg := &funcGen{g: g, body: &strings.Builder{}, locals: make(map[hir.NodeID]string)}

	params := make([]string, len(lit.Params))
	for i, p := range lit.Params {
		ctype := g.types.ref(ft.Params[i])
		pname := fg.declareLocal(p.Decl, p.Name)
		params[i] = declare(ctype, pname)
	}
	if len(params) == 0 {
		params = []string{"void"}
	}

	resultCType := g.types.ref(ft.Result)
	_, voidResult := ft.Result.(*types.Void)

	result := fg.lowerBlock(lit.Body, !voidResult)

	fmt.Fprintf(&g.funcs, "%s(%s) {\n", declare(resultCType, mangle(name)), strings.Join(params, ", "))
	g.funcs.WriteString(fg.body.String())
	if !voidResult && result != "" {
		fmt.Fprintf(&g.funcs, "  return %s;\n", result)
	}
	g.funcs.WriteString("}\n\n")
}

func (fg *funcGen) declareLocal(decl *hir.Binding, srcName string) string {
	fg.tempSeq++
	name := fmt.Sprintf("capy_v%d_%s", fg.tempSeq, srcName)
	if decl != nil {
		fg.locals[decl.NodeID_()] = name
	}
	return name
}

func (fg *funcGen) temp() string {
	fg.tempSeq++
	return fmt.Sprintf("capy_t%d", fg.tempSeq)
}

func (fg *funcGen) emit(format string, args ...interface{}) {
	fmt.Fprintf(fg.body, format, args...)
}

func (fg *funcGen) nodeType(n hir.Node) types.Type {
	id, ok := fg.g.oracle.NodeType(n.NodeID_())
	if !ok {
		return &types.Void{}
	}
	return fg.g.table.Get(id)
}

// lowerBlock emits blk's statements into fg.body, flushing blk's own
// Defers on the fall-through exit, and returns the C expression holding
// blk.Result's value (empty string for a void/absent result). needResult
// is false when the caller will discard the block's value (e.g. an
// ExprStmt), letting lowerBlock skip materializing an unused temporary.
func (fg *funcGen) lowerBlock(blk *hir.BlockExpr, needResult bool) string {
	fg.deferStack = append(fg.deferStack, blk.Defers)

	for _, s := range blk.Stmts {
		fg.lowerStmt(s)
	}

	var result string
	if needResult && blk.Result != nil {
		result = fg.expr(blk.Result)
	} else if blk.Result != nil {
		fg.expr(blk.Result)
	}

	fg.flushDefers(len(fg.deferStack) - 1)
	fg.deferStack = fg.deferStack[:len(fg.deferStack)-1]
	return result
}

// flushDefers runs the Defers of every open frame from the innermost down
// to (and including) frame index `down`, each frame itself in reverse
// declaration order (§9 "flushed in LIFO order on every exit edge").
func (fg *funcGen) flushDefers(down int) {
	for i := len(fg.deferStack) - 1; i >= down; i-- {
		frame := fg.deferStack[i]
		for j := len(frame) - 1; j >= 0; j-- {
			fg.expr(frame[j])
		}
	}
}

func (fg *funcGen) lowerStmt(s hir.Stmt) {
	switch n := s.(type) {
	case *hir.ExprStmt:
		e := fg.expr(n.X)
		if e != "" {
			fg.emit("  %s;\n", e)
		}
	case *hir.BindStmt:
		fg.lowerBind(n.Binding)
	case *hir.AssignStmt:
		fg.lowerAssign(n)
	case *hir.ReturnStmt:
		if n.Value == nil {
			fg.flushDefers(0)
			fg.emit("  return;\n")
			return
		}
		// Evaluate the return value before running deferred trailers, the
		// same order internal/comptime/eval.go uses for a returning block
		// (result computed first, Defers flushed after) — a defer must not
		// observe or precede the return expression's own side effects.
		v := fg.expr(n.Value)
		ret := fg.temp()
		fg.emit("  %s = %s;\n", declare(fg.g.types.ref(fg.nodeType(n.Value)), ret), v)
		fg.flushDefers(0)
		fg.emit("  return %s;\n", ret)
	case *hir.BreakStmt:
		fg.flushDefers(fg.currentLoopMark())
		fg.emit("  break;\n")
	case *hir.ContinueStmt:
		fg.flushDefers(fg.currentLoopMark())
		fg.emit("  continue;\n")
	default:
		fg.g.diags.Add(diagnostics.New(diagnostics.PhaseCodegen, diagnostics.CDG002,
			fmt.Sprintf("unsupported statement %T reached codegen", s)).WithSpan(s.Span()))
	}
}

func (fg *funcGen) currentLoopMark() int {
	if len(fg.loopMarks) == 0 {
		return 0
	}
	return fg.loopMarks[len(fg.loopMarks)-1]
}

func (fg *funcGen) lowerBind(b *hir.Binding) {
	ctype := fg.g.types.ref(fg.nodeType(b))
	cname := fg.declareLocal(b, b.Name)
	if b.Init != nil {
		init := fg.expr(b.Init)
		fg.emit("  %s = %s;\n", declare(ctype, cname), init)
		return
	}
	fg.emit("  %s = {0};\n", declare(ctype, cname))
}

func (fg *funcGen) lowerAssign(a *hir.AssignStmt) {
	target := fg.expr(a.Target)
	value := fg.expr(a.Value)
	if a.Op == "" {
		fg.emit("  %s = %s;\n", target, value)
		return
	}
	fg.emit("  %s = %s %s %s;\n", target, target, a.Op, value)
}

// expr lowers e to a C expression, writing any helper statements it needs
// (temporaries for if/switch/for/comptime results, compound-literal
// assembly) into fg.body first. Simple, side-effect-free shapes return a
// single inline expression; anything that needs control flow returns the
// name of a temporary fg already assigned the result into.
func (fg *funcGen) expr(e hir.Expr) string {
	switch n := e.(type) {
	case *hir.Lit:
		return fg.litExpr(n)
	case *hir.Var:
		return fg.varExpr(n)
	case *hir.ArrayLit:
		return fg.arrayLitExpr(n)
	case *hir.StructLit:
		return fg.structLitExpr(n)
	case *hir.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", fg.expr(n.Left), cOp(n.Op), fg.expr(n.Right))
	case *hir.UnaryExpr:
		return fg.unaryExpr(n)
	case *hir.DerefExpr:
		return fmt.Sprintf("(*(%s))", fg.expr(n.Operand))
	case *hir.CallExpr:
		return fg.callExpr(n)
	case *hir.CastExpr:
		return fg.castExpr(n)
	case *hir.FieldExpr:
		return fg.fieldExpr(n)
	case *hir.IndexExpr:
		return fg.indexExpr(n)
	case *hir.IfExpr:
		return fg.ifExpr(n)
	case *hir.BlockExpr:
		return fg.lowerBlock(n, true)
	case *hir.ComptimeExpr:
		return fg.comptimeExpr(n)
	case *hir.ForExpr:
		return fg.forExpr(n)
	case *hir.SwitchExpr:
		return fg.switchExpr(n)
	case *hir.FuncLit:
		fg.g.diags.Add(diagnostics.New(diagnostics.PhaseCodegen, diagnostics.CDG002,
			"nested function literal reached codegen unlifted").WithSpan(n.Span()))
		return "0"
	default:
		fg.g.diags.Add(diagnostics.New(diagnostics.PhaseCodegen, diagnostics.CDG002,
			fmt.Sprintf("unsupported expression %T reached codegen", e)).WithSpan(e.Span()))
		return "0"
	}
}

func cOp(op string) string {
	// Every operator this grammar uses already matches its C spelling
	// (+ - * / % == != < <= > >= && ||); kept as a named pass-through so a
	// future surface-syntax divergence has exactly one place to adapt.
	return op
}

func (fg *funcGen) litExpr(l *hir.Lit) string {
	switch l.Kind {
	case hir.LitInt:
		return strconv.FormatInt(l.Value.(int64), 10)
	case hir.LitFloat:
		return strconv.FormatFloat(l.Value.(float64), 'g', -1, 64)
	case hir.LitBool:
		if l.Value.(bool) {
			return "true"
		}
		return "false"
	case hir.LitChar:
		return fmt.Sprintf("%dU", l.Value.(rune))
	case hir.LitString:
		return strconv.Quote(l.Value.(string))
	default:
		return "0"
	}
}

func (fg *funcGen) varExpr(v *hir.Var) string {
	if v.Resolved.Decl != nil {
		if name, ok := fg.locals[v.Resolved.Decl.NodeID_()]; ok {
			return name
		}
	}
	if v.Resolved.Ok {
		if name, ok := fg.g.names[v.Resolved.Name]; ok {
			return name
		}
	}
	return mangle(v.Name)
}

func (fg *funcGen) arrayLitExpr(a *hir.ArrayLit) string {
	elemTy := fg.g.table.Get(fg.g.oracle.EvalTypeValue(a.ElemType))
	ct := fg.g.types.ref(elemTy)
	parts := make([]string, len(a.Elems))
	for i, el := range a.Elems {
		parts[i] = fg.expr(el)
	}
	return fmt.Sprintf("(%s[%d]){%s}", ct.base, len(a.Elems), strings.Join(parts, ", "))
}

func (fg *funcGen) structLitExpr(s *hir.StructLit) string {
	structTy := fg.g.table.Get(fg.g.oracle.EvalTypeValue(s.StructType))
	ct := fg.g.types.ref(structTy)
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = fmt.Sprintf(".%s = %s", f.Name, fg.expr(f.Value))
	}
	return fmt.Sprintf("(%s){%s}", ct.base, strings.Join(parts, ", "))
}

func (fg *funcGen) unaryExpr(u *hir.UnaryExpr) string {
	switch u.Op {
	case "^":
		return fmt.Sprintf("(&(%s))", fg.lvalue(u.Operand))
	case "-":
		return fmt.Sprintf("(-(%s))", fg.expr(u.Operand))
	case "!":
		return fmt.Sprintf("(!(%s))", fg.expr(u.Operand))
	default:
		return fg.expr(u.Operand)
	}
}

// lvalue renders an addressable expression without wrapping it in a
// redundant extra layer of parens that would make `&(...)` syntactically
// invalid for a cast result; ordinary expr() already produces a valid
// C lvalue for Var/FieldExpr/IndexExpr/DerefExpr, the only operand shapes
// HIR-Ty accepts as an address-of target.
func (fg *funcGen) lvalue(e hir.Expr) string { return fg.expr(e) }

func (fg *funcGen) callExpr(c *hir.CallExpr) string {
	if listCtorCallName(c.Func) {
		return "capy_list_make()"
	}
	if fe, ok := c.Func.(*hir.FieldExpr); ok && listMethodName(fe.Field) {
		if recvTy, ok := fg.g.oracle.NodeType(fe.Recv.NodeID_()); ok && isListType(fg.g.table.Get(recvTy)) {
			return fg.listMethodExpr(fe.Field, c)
		}
	}
	if name, ok := intrinsicCallName(c.Func); ok {
		return fg.intrinsicExpr(name, c)
	}
	if isPrintln(c.Func) {
		return fg.printlnExpr(c)
	}
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = fg.expr(a)
	}
	return fmt.Sprintf("%s(%s)", fg.expr(c.Func), strings.Join(args, ", "))
}

// isListType reports whether ty is the stdlib List container's canonical
// shape (internal/types.ListType), the same structural match hirty and
// comptime use to recognize list.push/.len/.get call sites.
func isListType(ty types.Type) bool {
	st, ok := ty.(*types.Struct)
	return ok && st.Name == "List"
}

// listCtorCallName recognizes `list.make` the same way intrinsicCallName
// recognizes size_of/align_of/... : Recv is the bare, unbound "list"
// pseudo-module identifier (see internal/hirty/infer.go's function of the
// same name for the full shadowing rationale).
func listCtorCallName(fn hir.Expr) bool {
	fe, ok := fn.(*hir.FieldExpr)
	if !ok || fe.Field != "make" {
		return false
	}
	v, ok := fe.Recv.(*hir.Var)
	return ok && !v.Resolved.Ok && v.Name == "list"
}

func listMethodName(field string) bool {
	switch field {
	case "push", "len", "get":
		return true
	default:
		return false
	}
}

// listMethodExpr emits the malloc/realloc-backed capy_list operations
// (internal/codegen/runtime.go) backing list.push/.len/.get. push boxes its
// value argument into an `any` cell exactly the way printlnExpr boxes
// println's argument; get hands back the address of the stored cell since
// this codegen's `any` ABI is always a pointer (ctype.go's Any case).
func (fg *funcGen) listMethodExpr(field string, c *hir.CallExpr) string {
	switch field {
	case "push":
		if len(c.Args) != 2 {
			return "(void)0"
		}
		listPtr := fg.expr(c.Args[0])
		valTy, _ := fg.g.oracle.NodeType(c.Args[1].NodeID_())
		val := fg.expr(c.Args[1])
		cell := fg.temp()
		ct := fg.g.types.ref(fg.g.table.Get(valTy))
		fg.emit("  %s = %s;\n", declare(ct, cell), val)
		return fmt.Sprintf("capy_list_push(%s, (capy_any){.type_id = %d, .data = &%s})", listPtr, valTy, cell)
	case "len":
		if len(c.Args) != 1 {
			return "0ULL"
		}
		return fmt.Sprintf("((%s).len)", fg.expr(c.Args[0]))
	default: // get
		if len(c.Args) != 2 {
			return "((capy_any*)0)"
		}
		recv := fg.expr(c.Args[0])
		idx := fg.expr(c.Args[1])
		return fmt.Sprintf("(&(%s).buf[%s])", recv, idx)
	}
}

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

func isPrintln(fn hir.Expr) bool {
	v, ok := fn.(*hir.Var)
	return ok && !v.Resolved.Ok && v.Name == "println"
}

// intrinsicExpr computes size_of/align_of/stride_of/get_type_info directly
// from the shared internal/types layout arithmetic: these are always
// compile-time constants once the argument's type expression is resolved,
// so codegen never needs to emit a runtime call for them (Testable
// Property 6 — this value and the reflection table's own Size/Align for
// the same type id are computed by the identical function).
func (fg *funcGen) intrinsicExpr(name string, c *hir.CallExpr) string {
	if len(c.Args) != 1 {
		return "0"
	}
	argTy := fg.g.oracle.EvalTypeValue(c.Args[0])
	resolved := fg.g.table.Get(argTy)
	switch name {
	case "size_of":
		return fmt.Sprintf("%dULL", types.SizeOf(resolved))
	case "align_of":
		return fmt.Sprintf("%dULL", types.AlignOf(resolved))
	case "stride_of":
		return fmt.Sprintf("%dULL", types.StrideOf(resolved))
	default: // get_type_info: the type id itself, an opaque handle into
		// capy_typeinfo a later get_type_info-consuming call indexes with.
		return fmt.Sprintf("%dULL", argTy)
	}
}

// printlnExpr wraps the argument in an `any` compound literal (type id +
// address of a stable temporary holding the value) and hands it to the
// embedded runtime's reflection-driven formatter (§9 "Dynamic dispatch ...
// no v-tables"; see runtime.go's capy_print_any).
func (fg *funcGen) printlnExpr(c *hir.CallExpr) string {
	if len(c.Args) != 1 {
		return "(void)0"
	}
	arg := c.Args[0]
	argTy, _ := fg.g.oracle.NodeType(arg.NodeID_())
	resolved := fg.g.table.Get(argTy)
	v := fg.expr(arg)
	cell := fg.temp()
	if isListType(resolved) {
		// capy_print_any's reflection switch covers scalars, arrays and
		// slices but has no struct case (internal/codegen/runtime.go) — List
		// prints through its own dedicated helper instead of boxing into `any`.
		fg.emit("  capy_list %s = %s;\n", cell, v)
		fg.emit("  capy_list_print(&%s);\n", cell)
		fg.emit("  printf(\"\\n\");\n")
		return "(void)0"
	}
	ct := fg.g.types.ref(resolved)
	fg.emit("  %s = %s;\n", declare(ct, cell), v)
	return fmt.Sprintf("capy_println((capy_any){.type_id = %d, .data = &%s})", argTy, cell)
}

func (fg *funcGen) castExpr(c *hir.CastExpr) string {
	targetTy := fg.g.table.Get(fg.g.oracle.EvalTypeValue(c.Target))
	fromTy := fg.nodeType(c.Value)
	value := fg.expr(c.Value)
	ct := fg.g.types.ref(targetTy)

	if arr, ok := fromTy.(*types.Array); ok {
		if _, ok := targetTy.(*types.Slice); ok {
			// value already names addressable array storage (a Var/Field/
			// Index lvalue, the only shapes §4.3's [N]T->[]T conversion
			// accepts), so it decays to a pointer in the .ptr initializer
			// position without needing a separate backing copy.
			structName := ct.base[:len(ct.base)-1] // strip the trailing '*'
			return fmt.Sprintf("(&(%s){.ptr = %s, .len = %dULL})", structName, value, arr.Length)
		}
	}
	if _, ok := fromTy.(*types.Slice); ok {
		if targetArr, ok := targetTy.(*types.Array); ok {
			return fmt.Sprintf("(*(%s (*)[%d])(%s)->ptr)", ct.base, targetArr.Length, value)
		}
	}
	// Variant -> parent Enum: wrap the payload into the enum's union under
	// its own variant tag and set the discriminant (§4.5 enum layout).
	if variant, ok := fromTy.(*types.Variant); ok {
		if en, ok := targetTy.(*types.Enum); ok && en == variant.ParentEnum {
			if variant.Payload == nil {
				return fmt.Sprintf("(%s){.discriminant = %d}", ct.base, variant.Discriminant)
			}
			return fmt.Sprintf("(%s){.payload.as_%s = %s, .discriminant = %d}", ct.base, variant.Name, value, variant.Discriminant)
		}
	}
	return fmt.Sprintf("((%s)(%s))", ct.base, value)
}

func (fg *funcGen) fieldExpr(f *hir.FieldExpr) string {
	recvTy := fg.nodeType(f.Recv)
	op := "."
	if _, ok := recvTy.(*types.Pointer); ok {
		op = "->"
	}
	return fmt.Sprintf("(%s)%s%s", fg.expr(f.Recv), op, f.Field)
}

func (fg *funcGen) indexExpr(ix *hir.IndexExpr) string {
	recvTy := fg.nodeType(ix.Recv)
	idx := fg.expr(ix.Index)
	recv := fg.expr(ix.Recv)
	if _, ok := recvTy.(*types.Slice); ok {
		return fmt.Sprintf("(%s)->ptr[%s]", recv, idx)
	}
	return fmt.Sprintf("(%s)[%s]", recv, idx)
}

func (fg *funcGen) ifExpr(i *hir.IfExpr) string {
	resultTy := fg.nodeType(i)
	_, isVoid := resultTy.(*types.Void)
	cond := fg.expr(i.Cond)

	if isVoid || i.Else == nil {
		fg.emit("  if (%s) {\n", cond)
		fg.expr(i.Then)
		fg.emit("  }\n")
		if i.Else != nil {
			fg.emit("  else {\n")
			fg.expr(i.Else)
			fg.emit("  }\n")
		}
		return ""
	}

	tmp := fg.temp()
	ct := fg.g.types.ref(resultTy)
	fg.emit("  %s;\n", declare(ct, tmp))
	fg.emit("  if (%s) {\n", cond)
	thenV := fg.expr(i.Then)
	fg.emit("    %s = %s;\n", tmp, thenV)
	fg.emit("  } else {\n")
	elseV := fg.expr(i.Else)
	fg.emit("    %s = %s;\n", tmp, elseV)
	fg.emit("  }\n")
	return tmp
}

func (fg *funcGen) forExpr(f *hir.ForExpr) string {
	if f.Iterable != nil {
		return fg.forEachExpr(f)
	}

	cond := "true"
	if f.Cond != nil {
		cond = fg.expr(f.Cond)
	}
	fg.emit("  while (%s) {\n", cond)
	fg.loopMarks = append(fg.loopMarks, len(fg.deferStack))
	fg.expr(f.Body)
	fg.loopMarks = fg.loopMarks[:len(fg.loopMarks)-1]
	fg.emit("  }\n")
	return ""
}

func (fg *funcGen) forEachExpr(f *hir.ForExpr) string {
	iterTy := fg.nodeType(f.Iterable)
	iter := fg.expr(f.Iterable)
	idx := fg.temp()

	var length, access string
	switch t := iterTy.(type) {
	case *types.Slice:
		length = fmt.Sprintf("(%s)->len", iter)
		access = fmt.Sprintf("(%s)->ptr[%s]", iter, idx)
	case *types.Array:
		length = fmt.Sprintf("%d", t.Length)
		access = fmt.Sprintf("(%s)[%s]", iter, idx)
	default:
		length = "0"
		access = "0"
	}

	fg.emit("  for (size_t %s = 0; %s < %s; %s++) {\n", idx, idx, length, idx)
	if f.BinderDecl != nil {
		binderTy := fg.nodeType(f.BinderDecl)
		ct := fg.g.types.ref(binderTy)
		bname := fg.declareLocal(f.BinderDecl, f.Binder)
		fg.emit("    %s = %s;\n", declare(ct, bname), access)
	}
	fg.loopMarks = append(fg.loopMarks, len(fg.deferStack))
	fg.expr(f.Body)
	fg.loopMarks = fg.loopMarks[:len(fg.loopMarks)-1]
	fg.emit("  }\n")
	return ""
}

// switchExpr lowers an enum switch to a C switch over the discriminant
// byte, binding each case's payload variable (if any) from the matching
// union arm (§4.5 "Enum" layout: discriminant follows the payload union).
func (fg *funcGen) switchExpr(s *hir.SwitchExpr) string {
	resultTy := fg.nodeType(s)
	_, isVoid := resultTy.(*types.Void)
	scrutTy := fg.nodeType(s.Scrutinee)
	en, _ := scrutTy.(*types.Enum)
	scrut := fg.expr(s.Scrutinee)

	var tmp string
	if !isVoid {
		tmp = fg.temp()
		ct := fg.g.types.ref(resultTy)
		fg.emit("  %s;\n", declare(ct, tmp))
	}

	fg.emit("  switch ((%s).discriminant) {\n", scrut)
	for _, cs := range s.Cases {
		var disc uint8
		if en != nil {
			if v, ok := en.VariantByName(cs.VariantName); ok {
				disc = v.Discriminant
			}
		}
		fg.emit("  case %d: {\n", disc)
		if cs.BinderDecl != nil {
			binderTy := fg.nodeType(cs.BinderDecl)
			ct := fg.g.types.ref(binderTy)
			bname := fg.declareLocal(cs.BinderDecl, cs.BinderName)
			fg.emit("    %s = (%s).payload.as_%s;\n", declare(ct, bname), scrut, cs.VariantName)
		}
		v := fg.expr(cs.Body)
		if !isVoid && v != "" {
			fg.emit("    %s = %s;\n", tmp, v)
		}
		fg.emit("    break;\n  }\n")
	}
	fg.emit("  }\n")
	return tmp
}

// comptimeExpr replaces a `comptime { ... }` block remaining in a function
// body with a load from a uniquely named read-only symbol holding its
// evaluated bytes (§4.5 "Comptime integration").
func (fg *funcGen) comptimeExpr(c *hir.ComptimeExpr) string {
	resultID, ok := fg.g.oracle.NodeType(c.NodeID_())
	if !ok {
		resultID = 0
	}
	resultTy := fg.g.table.Get(resultID)
	if fg.g.comptimeOracle == nil {
		fg.g.diags.Add(diagnostics.New(diagnostics.PhaseCodegen, diagnostics.CDG002,
			"comptime block reached codegen with no evaluator wired in").WithSpan(c.Span()))
		return "0"
	}
	v, diag := fg.g.comptimeOracle.EvalForCodegen(c, resultID)
	if diag != nil {
		fg.g.diags.Add(diag)
		return "0"
	}
	sym := fg.g.emitComptimeConstant(v, resultTy)
	return sym
}

package comptime

import (
	"github.com/capy-lang/capyc/internal/diagnostics"
	"github.com/capy-lang/capyc/internal/hir"
	"github.com/capy-lang/capyc/internal/types"
)

// evalExpr walks any HIR expression to a Value. Every case also returns a
// signal so constructs that embed a BlockExpr (if/for/switch/nested
// comptime) can propagate an escaping return/break/continue up through an
// expression position exactly as they would through a statement position.
func (e *Engine) evalExpr(expr hir.Expr, env *Environment) (Value, signal, *diagnostics.Diagnostic) {
	switch n := expr.(type) {
	case *hir.Lit:
		v, diag := e.evalLit(n)
		return v, noSignal, diag
	case *hir.Var:
		v, diag := e.evalVar(n, env)
		return v, noSignal, diag
	case *hir.ArrayLit:
		return e.evalArrayLit(n, env)
	case *hir.StructLit:
		return e.evalStructLit(n, env)
	case *hir.BinaryExpr:
		return e.evalBinaryExpr(n, env)
	case *hir.UnaryExpr:
		return e.evalUnaryExpr(n, env)
	case *hir.DerefExpr:
		operand, sig, diag := e.evalExpr(n.Operand, env)
		if diag != nil || sig.kind != sigNone {
			return nil, sig, diag
		}
		pv, ok := operand.(*PointerValue)
		if !ok {
			return nil, noSignal, e.trap(diagnostics.INT001, n, "comptime: dereference of non-pointer value")
		}
		return *pv.Cell, noSignal, nil
	case *hir.CallExpr:
		return e.evalCall(n, env)
	case *hir.CastExpr:
		return e.evalCast(n, env)
	case *hir.FieldExpr:
		return e.evalField(n, env)
	case *hir.IndexExpr:
		return e.evalIndex(n, env)
	case *hir.IfExpr:
		return e.evalIf(n, env)
	case *hir.BlockExpr:
		return e.evalBlock(n, env)
	case *hir.ComptimeExpr:
		e.depth++
		defer func() { e.depth-- }()
		if e.depth > maxReentrancyDepth {
			return nil, noSignal, e.trap(diagnostics.CMT003, n, "comptime: reentrancy depth exceeded")
		}
		v, diag := e.evalBlockValue(n.Body, env.Child())
		return v, noSignal, diag
	case *hir.ForExpr:
		return e.evalFor(n, env)
	case *hir.SwitchExpr:
		return e.evalSwitch(n, env)
	case *hir.FuncLit:
		ty, _ := e.checker.NodeType(n.NodeID_())
		return &FuncValue{Ty: ty, Lit: n, Closure: env}, noSignal, nil
	case *hir.PointerTypeExpr, *hir.SliceTypeExpr, *hir.ArrayTypeExpr,
		*hir.DistinctTypeExpr, *hir.StructTypeExpr, *hir.EnumTypeExpr, *hir.FuncTypeExpr:
		return &TypeValue{Denotes: e.checker.EvalTypeValue(n)}, noSignal, nil
	default:
		return nil, noSignal, e.trap(diagnostics.INT001, expr, "comptime: unhandled expression %T", expr)
	}
}

func (e *Engine) evalLit(l *hir.Lit) (Value, *diagnostics.Diagnostic) {
	ty, ok := e.checker.NodeType(l.NodeID_())
	if !ok {
		ty = e.defaultLitType(l.Kind)
	}
	switch l.Kind {
	case hir.LitInt:
		return &IntValue{Ty: ty, Val: l.Value.(int64)}, nil
	case hir.LitFloat:
		return &FloatValue{Ty: ty, Val: l.Value.(float64)}, nil
	case hir.LitBool:
		return &BoolValue{Ty: ty, Val: l.Value.(bool)}, nil
	case hir.LitChar:
		return &CharValue{Ty: ty, Val: l.Value.(rune)}, nil
	case hir.LitString:
		return &StringValue{Ty: ty, Val: l.Value.(string)}, nil
	default:
		return &UnitValue{Ty: ty}, nil
	}
}

func (e *Engine) defaultLitType(k hir.LitKind) types.ID {
	switch k {
	case hir.LitInt:
		return e.table.IDOf(&types.Int{Bits: types.W32, Signed: true})
	case hir.LitFloat:
		return e.table.IDOf(&types.Float{Bits: types.W64})
	case hir.LitBool:
		return e.table.IDOf(&types.Bool{})
	case hir.LitChar:
		return e.table.IDOf(&types.Char{})
	case hir.LitString:
		return e.table.IDOf(&types.String{})
	default:
		return e.table.IDOf(&types.Void{})
	}
}

func (e *Engine) evalVar(v *hir.Var, env *Environment) (Value, *diagnostics.Diagnostic) {
	if val, ok := env.Get(v.Resolved.Name); v.Resolved.Ok && ok {
		return val, nil
	}
	if ty, ok := builtinTypeByName(v.Name); ok {
		return &TypeValue{Denotes: e.table.IDOf(ty)}, nil
	}
	if !v.Resolved.Ok {
		return nil, e.trap(diagnostics.NAM001, v, "comptime: unresolved reference to %q", v.Name)
	}
	if val, ok := e.bindingMemo[v.Resolved.Name]; ok {
		return val, nil
	}
	mod := e.checker.Module()
	if mod == nil {
		return nil, e.trap(diagnostics.INT001, v, "comptime: no module context for %q", v.Name)
	}
	for _, b := range mod.Decls {
		if b.InternedName != v.Resolved.Name {
			continue
		}
		if b.Init == nil {
			ty, _ := e.checker.NodeType(b.NodeID_())
			return e.zeroValue(ty), nil
		}
		val, _, diag := e.evalExpr(b.Init, NewEnvironment())
		if diag != nil {
			return nil, diag
		}
		e.bindingMemo[v.Resolved.Name] = val
		return val, nil
	}
	return nil, e.trap(diagnostics.NAM001, v, "comptime: %q does not resolve to a top-level binding", v.Name)
}

// builtinTypeByName mirrors hirty's own scalar-keyword table; comptime
// needs it directly because a bare `i32` appearing inside a comptime
// block as an ordinary expression lowers to a *hir.Var the same way any
// other identifier does (§3 "types are first-class values").
func builtinTypeByName(name string) (types.Type, bool) {
	switch name {
	case "i8":
		return &types.Int{Bits: types.W8, Signed: true}, true
	case "i16":
		return &types.Int{Bits: types.W16, Signed: true}, true
	case "i32":
		return &types.Int{Bits: types.W32, Signed: true}, true
	case "i64":
		return &types.Int{Bits: types.W64, Signed: true}, true
	case "i128":
		return &types.Int{Bits: types.W128, Signed: true}, true
	case "isize":
		return &types.Int{Bits: types.WSize, Signed: true}, true
	case "u8":
		return &types.Int{Bits: types.W8, Signed: false}, true
	case "u16":
		return &types.Int{Bits: types.W16, Signed: false}, true
	case "u32":
		return &types.Int{Bits: types.W32, Signed: false}, true
	case "u64":
		return &types.Int{Bits: types.W64, Signed: false}, true
	case "u128":
		return &types.Int{Bits: types.W128, Signed: false}, true
	case "usize":
		return &types.Int{Bits: types.WSize, Signed: false}, true
	case "f32":
		return &types.Float{Bits: types.W32}, true
	case "f64":
		return &types.Float{Bits: types.W64}, true
	case "bool":
		return &types.Bool{}, true
	case "char":
		return &types.Char{}, true
	case "str":
		return &types.String{}, true
	case "void":
		return &types.Void{}, true
	case "type":
		return &types.MetaType{}, true
	case "any":
		return &types.Any{}, true
	case "rawptr":
		return &types.RawPtr{Mutable: false}, true
	case "rawptr_mut":
		return &types.RawPtr{Mutable: true}, true
	case "rawslice":
		return &types.RawSlice{}, true
	default:
		return nil, false
	}
}

func (e *Engine) zeroValue(ty types.ID) Value {
	switch t := e.table.Get(ty).(type) {
	case *types.Int:
		return &IntValue{Ty: ty}
	case *types.Float:
		return &FloatValue{Ty: ty}
	case *types.Bool:
		return &BoolValue{Ty: ty}
	case *types.Char:
		return &CharValue{Ty: ty}
	case *types.String:
		return &StringValue{Ty: ty}
	case *types.Array:
		elems := make([]Value, t.Length)
		elemID := e.table.IDOf(t.Elem)
		for i := range elems {
			elems[i] = e.zeroValue(elemID)
		}
		return &ArrayValue{Ty: ty, Elem: elems}
	case *types.Struct:
		fields := make(map[string]*Value, len(t.Members))
		for _, m := range t.Members {
			cell := e.zeroValue(e.table.IDOf(m.Type))
			fields[m.Name] = &cell
		}
		return &StructValue{Ty: ty, Fields: fields}
	default:
		return &UnitValue{Ty: ty}
	}
}

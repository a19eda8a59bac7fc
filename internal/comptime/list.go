package comptime

import (
	"github.com/capy-lang/capyc/internal/diagnostics"
	"github.com/capy-lang/capyc/internal/hir"
	"github.com/capy-lang/capyc/internal/types"
)

// listCtorCallName mirrors internal/hirty/infer.go's function of the same
// name: `list.make` is only recognized while "list" is still the bare,
// unbound pseudo-module identifier. Once a local binding named "list" is
// in scope, ordinary scoping already makes later uses of the name resolve
// to that instance instead, and list.push/.len/.get reach the engine as
// field-style calls on a List-typed value (see listMethodName).
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

func (e *Engine) evalListCtorCall(call *hir.CallExpr, env *Environment) (Value, signal, *diagnostics.Diagnostic) {
	ty, ok := e.checker.NodeType(call.NodeID_())
	if !ok {
		ty = e.table.IDOf(types.ListType())
	}
	if len(call.Args) != 1 {
		return nil, noSignal, e.trap(diagnostics.INT001, call, "comptime: list.make expects exactly one type argument")
	}
	elemTy := e.checker.EvalTypeValue(call.Args[0])
	return &ListValue{Ty: ty, Elem: elemTy, Cap: 2}, noSignal, nil
}

func (e *Engine) evalListMethodCall(field string, call *hir.CallExpr, env *Environment) (Value, signal, *diagnostics.Diagnostic) {
	switch field {
	case "push":
		return e.evalListPush(call, env)
	case "len":
		return e.evalListLen(call, env)
	default:
		return e.evalListGet(call, env)
	}
}

// listValueOf unwraps expr down to its backing *ListValue, following
// through an address-of pointer the same way list.push's `^mut list`
// argument carries one.
func (e *Engine) listValueOf(expr hir.Expr, env *Environment) (*ListValue, signal, *diagnostics.Diagnostic) {
	v, sig, diag := e.evalExpr(expr, env)
	if diag != nil || sig.kind != sigNone {
		return nil, sig, diag
	}
	for {
		pv, ok := v.(*PointerValue)
		if !ok {
			break
		}
		v = *pv.Cell
	}
	lv, ok := v.(*ListValue)
	if !ok {
		return nil, noSignal, e.trap(diagnostics.INT001, expr, "comptime: expected a List value")
	}
	return lv, noSignal, nil
}

// evalListPush mutates the *ListValue in place — list values are always
// held behind a pointer indirection in Go (the interface wraps *ListValue),
// so growing Items here is visible through every alias of the same list,
// matching list.push's by-reference §9 semantics.
func (e *Engine) evalListPush(call *hir.CallExpr, env *Environment) (Value, signal, *diagnostics.Diagnostic) {
	if len(call.Args) != 2 {
		return nil, noSignal, e.trap(diagnostics.INT001, call, "comptime: list.push expects (^mut List, value)")
	}
	lv, sig, diag := e.listValueOf(call.Args[0], env)
	if diag != nil || sig.kind != sigNone {
		return nil, sig, diag
	}
	val, sig, diag := e.evalExpr(call.Args[1], env)
	if diag != nil || sig.kind != sigNone {
		return nil, sig, diag
	}
	lv.Items = append(lv.Items, val)
	// Capacity doubles from 2, matching capy_list_push's C counterpart in
	// internal/codegen/runtime.go so comptime-evaluated and compiled List
	// growth agree.
	for lv.Cap < len(lv.Items) {
		lv.Cap *= 2
	}
	return &UnitValue{Ty: e.table.IDOf(&types.Void{})}, noSignal, nil
}

func (e *Engine) evalListLen(call *hir.CallExpr, env *Environment) (Value, signal, *diagnostics.Diagnostic) {
	if len(call.Args) != 1 {
		return nil, noSignal, e.trap(diagnostics.INT001, call, "comptime: list.len expects one argument")
	}
	lv, sig, diag := e.listValueOf(call.Args[0], env)
	if diag != nil || sig.kind != sigNone {
		return nil, sig, diag
	}
	usize := e.table.IDOf(&types.Int{Bits: types.WSize, Signed: false})
	return &IntValue{Ty: usize, Val: int64(len(lv.Items))}, noSignal, nil
}

func (e *Engine) evalListGet(call *hir.CallExpr, env *Environment) (Value, signal, *diagnostics.Diagnostic) {
	if len(call.Args) != 2 {
		return nil, noSignal, e.trap(diagnostics.INT001, call, "comptime: list.get expects (List, index)")
	}
	lv, sig, diag := e.listValueOf(call.Args[0], env)
	if diag != nil || sig.kind != sigNone {
		return nil, sig, diag
	}
	idxVal, sig, diag := e.evalExpr(call.Args[1], env)
	if diag != nil || sig.kind != sigNone {
		return nil, sig, diag
	}
	idx, ok := idxVal.(*IntValue)
	if !ok || idx.Val < 0 || int(idx.Val) >= len(lv.Items) {
		return nil, noSignal, e.trap(diagnostics.CMT002, call, "comptime: list index out of bounds")
	}
	return lv.Items[idx.Val], noSignal, nil
}

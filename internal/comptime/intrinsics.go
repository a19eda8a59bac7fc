package comptime

import (
	"fmt"

	"github.com/capy-lang/capyc/internal/diagnostics"
	"github.com/capy-lang/capyc/internal/hir"
	"github.com/capy-lang/capyc/internal/types"
)

// intrinsicName mirrors hirty's intrinsicCallName: size_of/align_of/
// stride_of/get_type_info are never declared bindings, so they reach the
// engine as an unresolved *hir.Var in call position (§9.1 supplemented
// features).
func intrinsicName(fn hir.Expr) (string, bool) {
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

// evalIntrinsicCall computes one of the reflection builtins directly from
// the shared layout rules in internal/types, which is what keeps this
// result identical to what internal/codegen emits for the same type at
// runtime (Testable Property 6).
func (e *Engine) evalIntrinsicCall(name string, call *hir.CallExpr) (Value, signal, *diagnostics.Diagnostic) {
	resultTy, ok := e.checker.NodeType(call.NodeID_())
	if !ok {
		resultTy = e.table.IDOf(&types.Int{Bits: types.WSize, Signed: false})
	}
	if len(call.Args) != 1 {
		return nil, noSignal, e.trap(diagnostics.INT001, call, "comptime: %s expects exactly one argument", name)
	}
	argTy := e.checker.EvalTypeValue(call.Args[0])
	resolved := e.table.Get(argTy)
	switch name {
	case "size_of":
		return &IntValue{Ty: resultTy, Val: int64(types.SizeOf(resolved))}, noSignal, nil
	case "align_of":
		return &IntValue{Ty: resultTy, Val: int64(types.AlignOf(resolved))}, noSignal, nil
	case "stride_of":
		return &IntValue{Ty: resultTy, Val: int64(types.StrideOf(resolved))}, noSignal, nil
	default: // get_type_info
		return &IntValue{Ty: resultTy, Val: int64(argTy)}, noSignal, nil
	}
}

// runtimeIntrinsicName mirrors hirty's own of the same name: println
// reaches the engine as an unresolved *hir.Var in call position, same as
// the reflection intrinsics above.
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

// evalPrintlnCall performs the print immediately against the compiler
// host's own stdout (§4.4 "Side effects during comptime ... are observed
// by the compiler host; they do not propagate into the compiled program").
func (e *Engine) evalPrintlnCall(call *hir.CallExpr, env *Environment) (Value, signal, *diagnostics.Diagnostic) {
	if len(call.Args) != 1 {
		return nil, noSignal, e.trap(diagnostics.INT001, call, "comptime: println expects exactly one argument")
	}
	v, sig, diag := e.evalExpr(call.Args[0], env)
	if diag != nil || sig.kind != sigNone {
		return nil, sig, diag
	}
	fmt.Fprintln(e.Stdout(), v.String())
	return &UnitValue{Ty: e.table.IDOf(&types.Void{})}, noSignal, nil
}

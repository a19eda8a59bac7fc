package comptime

import (
	"github.com/capy-lang/capyc/internal/diagnostics"
	"github.com/capy-lang/capyc/internal/hir"
	"github.com/capy-lang/capyc/internal/types"
)

func (e *Engine) evalArrayLit(a *hir.ArrayLit, env *Environment) (Value, signal, *diagnostics.Diagnostic) {
	elems := make([]Value, len(a.Elems))
	for i, el := range a.Elems {
		v, sig, diag := e.evalExpr(el, env)
		if diag != nil || sig.kind != sigNone {
			return nil, sig, diag
		}
		elems[i] = v
	}
	ty, ok := e.checker.NodeType(a.NodeID_())
	if !ok {
		elemTy := e.checker.EvalTypeValue(a.ElemType)
		ty = e.table.IDOf(&types.Array{Elem: e.table.Get(elemTy), Length: uint64(len(elems))})
	}
	return &ArrayValue{Ty: ty, Elem: elems}, noSignal, nil
}

func (e *Engine) evalStructLit(s *hir.StructLit, env *Environment) (Value, signal, *diagnostics.Diagnostic) {
	ty, ok := e.checker.NodeType(s.NodeID_())
	if !ok {
		ty = e.checker.EvalTypeValue(s.StructType)
	}
	fields := make(map[string]*Value, len(s.Fields))
	for _, f := range s.Fields {
		v, sig, diag := e.evalExpr(f.Value, env)
		if diag != nil || sig.kind != sigNone {
			return nil, sig, diag
		}
		cell := v
		fields[f.Name] = &cell
	}
	return &StructValue{Ty: ty, Fields: fields}, noSignal, nil
}

func (e *Engine) evalCall(call *hir.CallExpr, env *Environment) (Value, signal, *diagnostics.Diagnostic) {
	if listCtorCallName(call.Func) {
		return e.evalListCtorCall(call, env)
	}
	if fe, ok := call.Func.(*hir.FieldExpr); ok && listMethodName(fe.Field) {
		if recvTy, ok := e.checker.NodeType(fe.Recv.NodeID_()); ok && e.table.Get(recvTy).Equals(types.ListType()) {
			return e.evalListMethodCall(fe.Field, call, env)
		}
	}
	if name, ok := intrinsicName(call.Func); ok {
		return e.evalIntrinsicCall(name, call)
	}
	if _, ok := runtimeIntrinsicName(call.Func); ok {
		return e.evalPrintlnCall(call, env)
	}

	fnVal, sig, diag := e.evalExpr(call.Func, env)
	if diag != nil || sig.kind != sigNone {
		return nil, sig, diag
	}
	fn, ok := fnVal.(*FuncValue)
	if !ok {
		return nil, noSignal, e.trap(diagnostics.INT001, call, "comptime: call target is not a function")
	}

	e.depth++
	defer func() { e.depth-- }()
	if e.depth > maxReentrancyDepth {
		return nil, noSignal, e.trap(diagnostics.CMT003, call, "comptime: reentrancy depth exceeded")
	}

	callEnv := fn.Closure.Child()
	for i, p := range fn.Lit.Params {
		if i >= len(call.Args) {
			break
		}
		argVal, sig, diag := e.evalExpr(call.Args[i], env)
		if diag != nil || sig.kind != sigNone {
			return nil, sig, diag
		}
		// Params aren't HIR Bindings, only Param{Name,Type} pairs, but the
		// lowerer declared them into the body's scope using this same
		// compilation's interner — re-interning the literal name here
		// yields the identical key the body's Var.Resolved.Name carries.
		callEnv.Set(e.interns.Intern(p.Name), argVal)
	}

	v, bsig, diag := e.evalBlock(fn.Lit.Body, callEnv)
	if diag != nil {
		return nil, noSignal, diag
	}
	if bsig.kind == sigReturn {
		return bsig.value, noSignal, nil
	}
	return v, noSignal, nil
}

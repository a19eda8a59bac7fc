package comptime

import (
	"github.com/capy-lang/capyc/internal/diagnostics"
	"github.com/capy-lang/capyc/internal/hir"
	"github.com/capy-lang/capyc/internal/types"
)

// evalIf evaluates the taken branch only — the other branch's side effects
// (including any println) must never run, mirroring an ordinary host-level
// if/else rather than evaluating both and discarding one.
func (e *Engine) evalIf(n *hir.IfExpr, env *Environment) (Value, signal, *diagnostics.Diagnostic) {
	cond, sig, diag := e.evalExpr(n.Cond, env)
	if diag != nil || sig.kind != sigNone {
		return nil, sig, diag
	}
	bv, ok := cond.(*BoolValue)
	if !ok {
		return nil, noSignal, e.trap(diagnostics.INT001, n, "comptime: if condition is not bool")
	}
	if bv.Val {
		return e.evalExpr(n.Then, env)
	}
	if n.Else == nil {
		return &UnitValue{Ty: e.table.IDOf(&types.Void{})}, noSignal, nil
	}
	return e.evalExpr(n.Else, env)
}

// evalFor implements both loop forms ForExpr carries: a while-style loop
// (Cond set, Iterable nil) and a for-in loop over an array or slice value
// (Binder/Iterable set). break/continue are consumed here; sigReturn keeps
// propagating to the enclosing block. The loop's own value is always unit
// (§9 — for is a statement-shaped construct, never a value producer).
func (e *Engine) evalFor(n *hir.ForExpr, env *Environment) (Value, signal, *diagnostics.Diagnostic) {
	unit := &UnitValue{Ty: e.table.IDOf(&types.Void{})}

	if n.Iterable != nil {
		iter, sig, diag := e.evalExpr(n.Iterable, env)
		if diag != nil || sig.kind != sigNone {
			return nil, sig, diag
		}
		var elems []Value
		switch v := iter.(type) {
		case *ArrayValue:
			elems = v.Elem
		case *ListValue:
			elems = v.Items
		default:
			return nil, noSignal, e.trap(diagnostics.INT001, n, "comptime: for-in over non-iterable value %T", iter)
		}
		for _, elem := range elems {
			child := env.Child()
			if n.BinderDecl != nil {
				child.Set(n.BinderDecl.InternedName, elem)
			}
			_, bodySig, diag := e.evalBlock(n.Body, child)
			if diag != nil {
				return nil, noSignal, diag
			}
			if bodySig.kind == sigBreak {
				break
			}
			if bodySig.kind == sigReturn {
				return bodySig.value, bodySig, nil
			}
		}
		return unit, noSignal, nil
	}

	for {
		cond, sig, diag := e.evalExpr(n.Cond, env)
		if diag != nil || sig.kind != sigNone {
			return nil, sig, diag
		}
		bv, ok := cond.(*BoolValue)
		if !ok {
			return nil, noSignal, e.trap(diagnostics.INT001, n, "comptime: for condition is not bool")
		}
		if !bv.Val {
			break
		}
		_, bodySig, diag := e.evalBlock(n.Body, env.Child())
		if diag != nil {
			return nil, noSignal, diag
		}
		if bodySig.kind == sigBreak {
			break
		}
		if bodySig.kind == sigReturn {
			return bodySig.value, bodySig, nil
		}
	}
	return unit, noSignal, nil
}

// evalSwitch matches the scrutinee's VariantValue against each case by
// name, binding the payload (if any) to the case's binder before running
// its body — mirroring hirty's own synthesizeSwitch, which records the
// same binder-to-payload-type association by NodeID during checking.
func (e *Engine) evalSwitch(n *hir.SwitchExpr, env *Environment) (Value, signal, *diagnostics.Diagnostic) {
	scrut, sig, diag := e.evalExpr(n.Scrutinee, env)
	if diag != nil || sig.kind != sigNone {
		return nil, sig, diag
	}
	vv, ok := scrut.(*VariantValue)
	if !ok {
		return nil, noSignal, e.trap(diagnostics.INT001, n, "comptime: switch scrutinee is not an enum value")
	}
	for _, cs := range n.Cases {
		if cs.VariantName != vv.Variant {
			continue
		}
		child := env.Child()
		if cs.BinderDecl != nil && vv.Payload != nil {
			child.Set(cs.BinderDecl.InternedName, vv.Payload)
		}
		return e.evalBlock(cs.Body, child)
	}
	return nil, noSignal, e.trap(diagnostics.INT001, n, "comptime: switch does not cover variant %q", vv.Variant)
}

// signalKind distinguishes normal fallthrough from a non-local exit inside
// a block (§9 "break/continue/return"), threaded explicitly through the
// statement walk rather than via Go panic/recover — traps are the only
// thing that short-circuits via the error return, control flow is plain
// data.
type signalKind int

const (
	sigNone signalKind = iota
	sigReturn
	sigBreak
	sigContinue
)

type signal struct {
	kind  signalKind
	value Value // meaningful only for sigReturn
}

var noSignal = signal{kind: sigNone}

package comptime

import (
	"github.com/capy-lang/capyc/internal/diagnostics"
	"github.com/capy-lang/capyc/internal/hir"
	"github.com/capy-lang/capyc/internal/types"
)

// evalBlockValue is the entry point used by Evaluate: it runs a block and
// collapses any escaping control signal (a bare `return` at the top of a
// comptime block is legal and just ends evaluation early) into a plain
// Value.
func (e *Engine) evalBlockValue(blk *hir.BlockExpr, env *Environment) (Value, *diagnostics.Diagnostic) {
	v, _, diag := e.evalBlock(blk, env)
	if diag != nil {
		return nil, diag
	}
	if v == nil {
		return &UnitValue{Ty: e.table.IDOf(&types.Void{})}, nil
	}
	return v, nil
}

func (e *Engine) evalBlock(blk *hir.BlockExpr, env *Environment) (Value, signal, *diagnostics.Diagnostic) {
	child := env.Child()

	var sig signal
	for _, s := range blk.Stmts {
		var diag *diagnostics.Diagnostic
		sig, diag = e.evalStmt(s, child)
		if diag != nil {
			return nil, noSignal, diag
		}
		if sig.kind != sigNone {
			break
		}
	}

	var result Value
	if sig.kind == sigNone && blk.Result != nil {
		var diag *diagnostics.Diagnostic
		result, sig, diag = e.evalExpr(blk.Result, child)
		if diag != nil {
			return nil, noSignal, diag
		}
	}

	// Defers run in reverse of declaration order on every exit edge of
	// this block, whatever that edge is (§9 "LIFO trailers").
	for i := len(blk.Defers) - 1; i >= 0; i-- {
		if _, _, diag := e.evalExpr(blk.Defers[i], child); diag != nil {
			return nil, noSignal, diag
		}
	}

	if sig.kind == sigReturn {
		return sig.value, sig, nil
	}
	return result, sig, nil
}

func (e *Engine) evalStmt(s hir.Stmt, env *Environment) (signal, *diagnostics.Diagnostic) {
	switch n := s.(type) {
	case *hir.ExprStmt:
		_, sig, diag := e.evalExpr(n.X, env)
		return sig, diag
	case *hir.BindStmt:
		var v Value
		if n.Binding.Init != nil {
			var sig signal
			var diag *diagnostics.Diagnostic
			v, sig, diag = e.evalExpr(n.Binding.Init, env)
			if diag != nil {
				return noSignal, diag
			}
			if sig.kind != sigNone {
				return sig, nil
			}
		} else {
			ty, ok := e.checker.NodeType(n.Binding.NodeID_())
			if !ok {
				return noSignal, e.trap(diagnostics.INT001, n, "comptime: binding %q has no recorded type", n.Binding.Name)
			}
			v = e.zeroValue(ty)
		}
		env.Set(n.Binding.InternedName, v)
		return noSignal, nil
	case *hir.AssignStmt:
		return e.evalAssign(n, env)
	case *hir.ReturnStmt:
		if n.Value == nil {
			return signal{kind: sigReturn, value: &UnitValue{Ty: e.table.IDOf(&types.Void{})}}, nil
		}
		v, sig, diag := e.evalExpr(n.Value, env)
		if diag != nil {
			return noSignal, diag
		}
		if sig.kind != sigNone {
			return sig, nil
		}
		return signal{kind: sigReturn, value: v}, nil
	case *hir.BreakStmt:
		return signal{kind: sigBreak}, nil
	case *hir.ContinueStmt:
		return signal{kind: sigContinue}, nil
	default:
		return noSignal, e.trap(diagnostics.INT001, s, "comptime: unhandled statement %T", s)
	}
}

func (e *Engine) evalAssign(a *hir.AssignStmt, env *Environment) (signal, *diagnostics.Diagnostic) {
	rhs, sig, diag := e.evalExpr(a.Value, env)
	if diag != nil {
		return noSignal, diag
	}
	if sig.kind != sigNone {
		return sig, nil
	}

	if a.Op != "" {
		cur, _, diag := e.evalExpr(a.Target, env)
		if diag != nil {
			return noSignal, diag
		}
		combined, diag := e.applyBinary(a.Op, cur, rhs, a)
		if diag != nil {
			return noSignal, diag
		}
		rhs = combined
	}

	switch target := a.Target.(type) {
	case *hir.Var:
		if !target.Resolved.Ok || !env.Assign(target.Resolved.Name, rhs) {
			return noSignal, e.trap(diagnostics.INT001, a, "comptime: cannot assign to unresolved name %q", target.Name)
		}
	case *hir.FieldExpr:
		recv, _, diag := e.evalExpr(target.Recv, env)
		if diag != nil {
			return noSignal, diag
		}
		sv, ok := recv.(*StructValue)
		if !ok {
			return noSignal, e.trap(diagnostics.INT001, a, "comptime: field assignment target is not a struct")
		}
		cell, ok := sv.Fields[target.Field]
		if !ok {
			return noSignal, e.trap(diagnostics.INT001, a, "comptime: struct has no field %q", target.Field)
		}
		*cell = rhs
	case *hir.IndexExpr:
		recv, _, diag := e.evalExpr(target.Recv, env)
		if diag != nil {
			return noSignal, diag
		}
		idxV, _, diag := e.evalExpr(target.Index, env)
		if diag != nil {
			return noSignal, diag
		}
		av, ok := recv.(*ArrayValue)
		if !ok {
			return noSignal, e.trap(diagnostics.INT001, a, "comptime: index assignment target is not an array")
		}
		idx := idxV.(*IntValue).Val
		if idx < 0 || int(idx) >= len(av.Elem) {
			return noSignal, e.trap(diagnostics.CMT002, a, "comptime: index %d out of bounds (len %d)", idx, len(av.Elem))
		}
		av.Elem[idx] = rhs
	case *hir.DerefExpr:
		ptrV, _, diag := e.evalExpr(target.Operand, env)
		if diag != nil {
			return noSignal, diag
		}
		pv, ok := ptrV.(*PointerValue)
		if !ok {
			return noSignal, e.trap(diagnostics.INT001, a, "comptime: assignment through non-pointer dereference")
		}
		*pv.Cell = rhs
	default:
		return noSignal, e.trap(diagnostics.INT001, a, "comptime: unsupported assignment target %T", a.Target)
	}
	return noSignal, nil
}

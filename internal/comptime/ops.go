package comptime

import (
	"github.com/capy-lang/capyc/internal/diagnostics"
	"github.com/capy-lang/capyc/internal/hir"
	"github.com/capy-lang/capyc/internal/types"
)

func (e *Engine) evalBinaryExpr(b *hir.BinaryExpr, env *Environment) (Value, signal, *diagnostics.Diagnostic) {
	l, sig, diag := e.evalExpr(b.Left, env)
	if diag != nil || sig.kind != sigNone {
		return nil, sig, diag
	}
	r, sig, diag := e.evalExpr(b.Right, env)
	if diag != nil || sig.kind != sigNone {
		return nil, sig, diag
	}
	v, diag := e.applyBinary(b.Op, l, r, b)
	return v, noSignal, diag
}

func (e *Engine) applyBinary(op string, l, r Value, span hir.Node) (Value, *diagnostics.Diagnostic) {
	switch op {
	case "&&":
		return &BoolValue{Ty: l.ValueType(), Val: asBool(l) && asBool(r)}, nil
	case "||":
		return &BoolValue{Ty: l.ValueType(), Val: asBool(l) || asBool(r)}, nil
	case "==":
		return &BoolValue{Ty: e.table.IDOf(&types.Bool{}), Val: valuesEqual(l, r)}, nil
	case "!=":
		return &BoolValue{Ty: e.table.IDOf(&types.Bool{}), Val: !valuesEqual(l, r)}, nil
	}

	if lf, ok := l.(*FloatValue); ok {
		rf := asFloat(r)
		switch op {
		case "+":
			return &FloatValue{Ty: lf.Ty, Val: lf.Val + rf}, nil
		case "-":
			return &FloatValue{Ty: lf.Ty, Val: lf.Val - rf}, nil
		case "*":
			return &FloatValue{Ty: lf.Ty, Val: lf.Val * rf}, nil
		case "/":
			if rf == 0 {
				return nil, e.trap(diagnostics.CMT001, span, "comptime: division by zero")
			}
			return &FloatValue{Ty: lf.Ty, Val: lf.Val / rf}, nil
		case "<":
			return &BoolValue{Ty: e.table.IDOf(&types.Bool{}), Val: lf.Val < rf}, nil
		case "<=":
			return &BoolValue{Ty: e.table.IDOf(&types.Bool{}), Val: lf.Val <= rf}, nil
		case ">":
			return &BoolValue{Ty: e.table.IDOf(&types.Bool{}), Val: lf.Val > rf}, nil
		case ">=":
			return &BoolValue{Ty: e.table.IDOf(&types.Bool{}), Val: lf.Val >= rf}, nil
		}
	}

	li, ok := l.(*IntValue)
	if !ok {
		return nil, e.trap(diagnostics.INT001, span, "comptime: binary operator %q on unsupported operand", op)
	}
	ri := asInt(r)
	switch op {
	case "+":
		return &IntValue{Ty: li.Ty, Val: li.Val + ri}, nil
	case "-":
		return &IntValue{Ty: li.Ty, Val: li.Val - ri}, nil
	case "*":
		return &IntValue{Ty: li.Ty, Val: li.Val * ri}, nil
	case "/":
		if ri == 0 {
			return nil, e.trap(diagnostics.CMT001, span, "comptime: division by zero")
		}
		return &IntValue{Ty: li.Ty, Val: li.Val / ri}, nil
	case "%":
		if ri == 0 {
			return nil, e.trap(diagnostics.CMT001, span, "comptime: division by zero")
		}
		return &IntValue{Ty: li.Ty, Val: li.Val % ri}, nil
	case "<":
		return &BoolValue{Ty: e.table.IDOf(&types.Bool{}), Val: li.Val < ri}, nil
	case "<=":
		return &BoolValue{Ty: e.table.IDOf(&types.Bool{}), Val: li.Val <= ri}, nil
	case ">":
		return &BoolValue{Ty: e.table.IDOf(&types.Bool{}), Val: li.Val > ri}, nil
	case ">=":
		return &BoolValue{Ty: e.table.IDOf(&types.Bool{}), Val: li.Val >= ri}, nil
	default:
		return nil, e.trap(diagnostics.INT001, span, "comptime: unknown binary operator %q", op)
	}
}

func (e *Engine) evalUnaryExpr(u *hir.UnaryExpr, env *Environment) (Value, signal, *diagnostics.Diagnostic) {
	// Address-of takes its operand's lvalue cell directly rather than its
	// value, since `^x` must alias x's storage (§4.1 "Pointers" — a comptime
	// pointer holds a handle into interpreter-local storage, §4.4).
	if u.Op == "^" {
		ty, _ := e.checker.NodeType(u.NodeID_())
		cell, diag := e.addressOf(u.Operand, env)
		if diag != nil {
			return nil, noSignal, diag
		}
		return &PointerValue{Ty: ty, Cell: cell}, noSignal, nil
	}

	operand, sig, diag := e.evalExpr(u.Operand, env)
	if diag != nil || sig.kind != sigNone {
		return nil, sig, diag
	}
	switch u.Op {
	case "-":
		switch v := operand.(type) {
		case *IntValue:
			return &IntValue{Ty: v.Ty, Val: -v.Val}, noSignal, nil
		case *FloatValue:
			return &FloatValue{Ty: v.Ty, Val: -v.Val}, noSignal, nil
		}
	case "!":
		return &BoolValue{Ty: e.table.IDOf(&types.Bool{}), Val: !asBool(operand)}, noSignal, nil
	}
	return nil, noSignal, e.trap(diagnostics.INT001, u, "comptime: unary operator %q on unsupported operand", u.Op)
}

// addressOf resolves expr's addressable storage cell. Only lvalue shapes
// (a local/param/binder Var, a struct field, an array element, or the
// operand of a dereference — `^(p.*)` cancels back to p) are addressable;
// anything else is an internal-invariant trap since HIR-Ty is expected to
// reject address-of on a non-lvalue before codegen/comptime ever sees it.
func (e *Engine) addressOf(expr hir.Expr, env *Environment) (*Value, *diagnostics.Diagnostic) {
	switch n := expr.(type) {
	case *hir.Var:
		if !n.Resolved.Ok {
			return nil, e.trap(diagnostics.NAM001, n, "comptime: unresolved reference to %q", n.Name)
		}
		cell, ok := env.Cell(n.Resolved.Name)
		if !ok {
			return nil, e.trap(diagnostics.INT001, n, "comptime: %q has no addressable storage", n.Name)
		}
		return cell, nil
	case *hir.FieldExpr:
		recv, _, diag := e.evalExpr(n.Recv, env)
		if diag != nil {
			return nil, diag
		}
		sv, ok := recv.(*StructValue)
		if !ok {
			return nil, e.trap(diagnostics.INT001, n, "comptime: address-of field on a non-struct value")
		}
		cell, ok := sv.Fields[n.Field]
		if !ok {
			return nil, e.trap(diagnostics.INT001, n, "comptime: struct has no field %q", n.Field)
		}
		return cell, nil
	case *hir.IndexExpr:
		recv, _, diag := e.evalExpr(n.Recv, env)
		if diag != nil {
			return nil, diag
		}
		idxV, _, diag := e.evalExpr(n.Index, env)
		if diag != nil {
			return nil, diag
		}
		av, ok := recv.(*ArrayValue)
		if !ok {
			return nil, e.trap(diagnostics.INT001, n, "comptime: address-of index on a non-array value")
		}
		idx := asInt(idxV)
		if idx < 0 || int(idx) >= len(av.Elem) {
			return nil, e.trap(diagnostics.CMT002, n, "comptime: index %d out of bounds (len %d)", idx, len(av.Elem))
		}
		return &av.Elem[idx], nil
	case *hir.DerefExpr:
		v, _, diag := e.evalExpr(n.Operand, env)
		if diag != nil {
			return nil, diag
		}
		pv, ok := v.(*PointerValue)
		if !ok {
			return nil, e.trap(diagnostics.INT001, n, "comptime: dereference of non-pointer value")
		}
		return pv.Cell, nil
	default:
		return nil, e.trap(diagnostics.INT001, expr, "comptime: %T is not addressable", expr)
	}
}

func asBool(v Value) bool {
	if b, ok := v.(*BoolValue); ok {
		return b.Val
	}
	return false
}

func asInt(v Value) int64 {
	switch t := v.(type) {
	case *IntValue:
		return t.Val
	case *CharValue:
		return int64(t.Val)
	default:
		return 0
	}
}

func asFloat(v Value) float64 {
	switch t := v.(type) {
	case *FloatValue:
		return t.Val
	case *IntValue:
		return float64(t.Val)
	default:
		return 0
	}
}

func valuesEqual(l, r Value) bool {
	switch lv := l.(type) {
	case *IntValue:
		return lv.Val == asInt(r)
	case *FloatValue:
		return lv.Val == asFloat(r)
	case *BoolValue:
		return lv.Val == asBool(r)
	case *CharValue:
		rv, ok := r.(*CharValue)
		return ok && lv.Val == rv.Val
	case *StringValue:
		rv, ok := r.(*StringValue)
		return ok && lv.Val == rv.Val
	case *UnitValue:
		_, ok := r.(*UnitValue)
		return ok
	case *TypeValue:
		rv, ok := r.(*TypeValue)
		return ok && lv.Denotes == rv.Denotes
	default:
		return false
	}
}

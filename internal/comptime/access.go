package comptime

import (
	"github.com/capy-lang/capyc/internal/diagnostics"
	"github.com/capy-lang/capyc/internal/hir"
	"github.com/capy-lang/capyc/internal/types"
)

// evalField resolves `.field` against either a struct instance (ordinary
// member access, following through any number of pointer indirections) or
// a first-class Enum type value (`E.Variant`, which denotes the Variant
// type itself, not an instance — constructing one is a following CastExpr,
// e.g. `E.B.("hi")`).
func (e *Engine) evalField(f *hir.FieldExpr, env *Environment) (Value, signal, *diagnostics.Diagnostic) {
	recv, sig, diag := e.evalExpr(f.Recv, env)
	if diag != nil || sig.kind != sigNone {
		return nil, sig, diag
	}
	for {
		pv, ok := recv.(*PointerValue)
		if !ok {
			break
		}
		recv = *pv.Cell
	}
	switch rv := recv.(type) {
	case *StructValue:
		cell, ok := rv.Fields[f.Field]
		if !ok {
			return nil, noSignal, e.trap(diagnostics.NAM002, f, "comptime: struct has no field %q", f.Field)
		}
		return *cell, noSignal, nil
	case *TypeValue:
		en, ok := e.table.Get(rv.Denotes).(*types.Enum)
		if !ok {
			return nil, noSignal, e.trap(diagnostics.INT001, f, "comptime: %s has no field %q", e.table.Get(rv.Denotes), f.Field)
		}
		v, ok := en.VariantByName(f.Field)
		if !ok {
			return nil, noSignal, e.trap(diagnostics.NAM002, f, "comptime: enum %q has no variant %q", en.Name, f.Field)
		}
		return &TypeValue{Denotes: e.table.Intern(v)}, noSignal, nil
	default:
		return nil, noSignal, e.trap(diagnostics.INT001, f, "comptime: cannot access field %q on %T", f.Field, recv)
	}
}

// evalIndex subscripts an array (comptime has no heap, so a slice value is
// the same ArrayValue its backing array is — value.go's ArrayValue doc
// comment).
func (e *Engine) evalIndex(ix *hir.IndexExpr, env *Environment) (Value, signal, *diagnostics.Diagnostic) {
	recv, sig, diag := e.evalExpr(ix.Recv, env)
	if diag != nil || sig.kind != sigNone {
		return nil, sig, diag
	}
	idxVal, sig, diag := e.evalExpr(ix.Index, env)
	if diag != nil || sig.kind != sigNone {
		return nil, sig, diag
	}
	arr, ok := recv.(*ArrayValue)
	if !ok {
		return nil, noSignal, e.trap(diagnostics.INT001, ix, "comptime: cannot index %T", recv)
	}
	idx, ok := idxVal.(*IntValue)
	if !ok || idx.Val < 0 || int(idx.Val) >= len(arr.Elem) {
		return nil, noSignal, e.trap(diagnostics.CMT002, ix, "comptime: index out of bounds")
	}
	return arr.Elem[idx.Val], noSignal, nil
}

// evalCast implements the explicit `Type.(value)` permission table's
// value-level semantics (hirty/convert.go's canCast is the matching
// type-level check already run during HIR-Ty, so this never needs to
// re-validate, only to convert).
func (e *Engine) evalCast(c *hir.CastExpr, env *Environment) (Value, signal, *diagnostics.Diagnostic) {
	targetID := e.checker.EvalTypeValue(c.Target)
	v, sig, diag := e.evalExpr(c.Value, env)
	if diag != nil || sig.kind != sigNone {
		return nil, sig, diag
	}
	return e.convertTo(v, targetID), noSignal, nil
}

func (e *Engine) convertTo(v Value, targetID types.ID) Value {
	switch t := e.table.Get(targetID).(type) {
	case *types.Variant:
		return &VariantValue{Ty: targetID, Variant: t.Name, Payload: v}
	case *types.Enum:
		if vv, ok := v.(*VariantValue); ok {
			return &VariantValue{Ty: targetID, Variant: vv.Variant, Payload: vv.Payload}
		}
	case *types.Int:
		return &IntValue{Ty: targetID, Val: asInt64(v)}
	case *types.Float:
		return &FloatValue{Ty: targetID, Val: asFloat64(v)}
	case *types.Bool:
		if bv, ok := v.(*BoolValue); ok {
			return &BoolValue{Ty: targetID, Val: bv.Val}
		}
	case *types.Char:
		return &CharValue{Ty: targetID, Val: rune(asInt64(v))}
	}
	return e.retag(v, targetID)
}

// retag reassigns a value's recorded type without touching its payload —
// used for the conversions that are pure bookkeeping at this interpreter's
// level (distinct<->underlying, array<->slice alias, pointer mutability).
func (e *Engine) retag(v Value, targetID types.ID) Value {
	switch t := v.(type) {
	case *IntValue:
		return &IntValue{Ty: targetID, Val: t.Val}
	case *FloatValue:
		return &FloatValue{Ty: targetID, Val: t.Val}
	case *BoolValue:
		return &BoolValue{Ty: targetID, Val: t.Val}
	case *CharValue:
		return &CharValue{Ty: targetID, Val: t.Val}
	case *StringValue:
		return &StringValue{Ty: targetID, Val: t.Val}
	case *ArrayValue:
		return &ArrayValue{Ty: targetID, Elem: t.Elem}
	case *StructValue:
		return &StructValue{Ty: targetID, Fields: t.Fields}
	case *PointerValue:
		return &PointerValue{Ty: targetID, Cell: t.Cell}
	default:
		return v
	}
}

func asInt64(v Value) int64 {
	switch t := v.(type) {
	case *IntValue:
		return t.Val
	case *FloatValue:
		return int64(t.Val)
	case *CharValue:
		return int64(t.Val)
	case *BoolValue:
		if t.Val {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func asFloat64(v Value) float64 {
	switch t := v.(type) {
	case *FloatValue:
		return t.Val
	case *IntValue:
		return float64(t.Val)
	default:
		return 0
	}
}

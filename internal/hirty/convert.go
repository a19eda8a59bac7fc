package hirty

import (
	"github.com/capy-lang/capyc/internal/hir"
	"github.com/capy-lang/capyc/internal/types"
)

// tryImplicitConvert checks whether a value of type `from` may stand in
// for `to` given the syntactic source expression src (needed because two
// of the four permitted directions are literal-shape-dependent), per
// §4.3's exact list:
//   - fixed [N]T -> []T
//   - integer literal -> any integer or float type whose range admits it
//   - T -> distinct T, accepted wherever an expected type is checked
//     (binding initializers, call arguments, assignments), not only at a
//     declaration
//   - mutable pointer ^mut T accepted where immutable ^T is expected
func (c *Checker) tryImplicitConvert(src hir.Expr, from, to types.ID) (types.ID, bool) {
	fromTy, toTy := c.table.Get(from), c.table.Get(to)
	if fromTy.Equals(toTy) {
		return to, true
	}

	if arr, ok := fromTy.(*types.Array); ok {
		if sl, ok := toTy.(*types.Slice); ok && arr.Elem.Equals(sl.Elem) {
			return to, true
		}
	}

	if lit, ok := src.(*hir.Lit); ok && lit.Kind == hir.LitInt {
		switch t := toTy.(type) {
		case *types.Int:
			if v, ok := lit.Value.(int64); ok && intLiteralFits(v, t) {
				return to, true
			}
		case *types.Float:
			return to, true
		}
	}

	if dist, ok := toTy.(*types.Distinct); ok && dist.Underlying.Equals(fromTy) {
		return to, true
	}

	if p1, ok := fromTy.(*types.Pointer); ok {
		if p2, ok := toTy.(*types.Pointer); ok && p1.Mutable && !p2.Mutable && p1.Pointee.Equals(p2.Pointee) {
			return to, true
		}
	}

	return from, false
}

func intLiteralFits(v int64, t *types.Int) bool {
	bits := int(t.Bits)
	if t.Bits == types.WSize {
		bits = 64
	}
	if t.Signed {
		if bits >= 64 {
			return true
		}
		max := int64(1)<<(bits-1) - 1
		min := -(int64(1) << (bits - 1))
		return v >= min && v <= max
	}
	if v < 0 {
		return false
	}
	if bits >= 64 {
		return true
	}
	max := int64(1)<<bits - 1
	return v <= max
}

// canCast implements the explicit `Type.(value)` permission table (§4.3):
// any scalar <-> any scalar, array<->slice, pointer<->pointer of a
// different pointee (unchecked), distinct T <-> T, enum variant <-> owning
// enum. Everything else is rejected.
func canCast(from, to types.Type) bool {
	if from.Equals(to) {
		return true
	}
	if isScalar(from) && isScalar(to) {
		return true
	}
	switch f := from.(type) {
	case *types.Array:
		if s, ok := to.(*types.Slice); ok {
			return f.Elem.Equals(s.Elem)
		}
	case *types.Slice:
		if a, ok := to.(*types.Array); ok {
			return f.Elem.Equals(a.Elem)
		}
	case *types.Pointer:
		_, ok := to.(*types.Pointer)
		return ok
	case *types.Distinct:
		return f.Underlying.Equals(to)
	case *types.Variant:
		return f.ParentEnum != nil && f.ParentEnum.Equals(to)
	case *types.Enum:
		if v, ok := to.(*types.Variant); ok {
			return v.ParentEnum != nil && v.ParentEnum.Equals(f)
		}
	}
	if d, ok := to.(*types.Distinct); ok {
		return d.Underlying.Equals(from)
	}
	return false
}

func isScalar(t types.Type) bool {
	switch t.(type) {
	case *types.Int, *types.Float, *types.Bool, *types.Char:
		return true
	default:
		return false
	}
}

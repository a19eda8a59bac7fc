package hirty

import (
	"github.com/capy-lang/capyc/internal/ast"
	"github.com/capy-lang/capyc/internal/hir"
	"github.com/capy-lang/capyc/internal/types"
)

// computeConstness implements §4.3 "Constness analysis": a binding is
// const if immutable AND its initializer is either a literal/const
// reference, or a comptime block.
func (c *Checker) computeConstness(b *hir.Binding) bool {
	if b.Kind == ast.Mutable {
		return false
	}
	return b.Init != nil && c.isConstExpr(b.Init)
}

func (c *Checker) isConstExpr(e hir.Expr) bool {
	switch n := e.(type) {
	case *hir.Lit:
		return true
	case *hir.Var:
		return n.Resolved.Ok && c.isConst[n.Resolved.Name]
	case *hir.ComptimeExpr:
		return true
	case *hir.UnaryExpr:
		return c.isConstExpr(n.Operand)
	case *hir.BinaryExpr:
		return c.isConstExpr(n.Left) && c.isConstExpr(n.Right)
	case *hir.StructTypeExpr, *hir.EnumTypeExpr, *hir.PointerTypeExpr,
		*hir.SliceTypeExpr, *hir.ArrayTypeExpr, *hir.DistinctTypeExpr, *hir.FuncTypeExpr:
		return true
	default:
		return false
	}
}

// foldConstInt evaluates a narrow constant-integer sub-language directly
// (literals, arithmetic over them, and references to already-const-typed
// int bindings) without invoking the full comptime engine — §4.3 "Const
// values are eligible as ... array lengths". Anything beyond this falls
// through to the injected ComptimeEvaluator if one was wired in, matching
// §4.4's contract that a comptime block may appear wherever a const value
// is required.
func (c *Checker) foldConstInt(e hir.Expr) (int64, bool) {
	switch n := e.(type) {
	case *hir.Lit:
		if n.Kind == hir.LitInt {
			if v, ok := n.Value.(int64); ok {
				return v, true
			}
		}
		return 0, false
	case *hir.Var:
		if !n.Resolved.Ok || c.mod == nil {
			return 0, false
		}
		for _, b := range c.mod.Decls {
			if b.InternedName == n.Resolved.Name {
				if !c.doneTyping[b.InternedName] {
					c.checkBinding(b)
				}
				if b.Init != nil {
					return c.foldConstInt(b.Init)
				}
			}
		}
		return 0, false
	case *hir.UnaryExpr:
		v, ok := c.foldConstInt(n.Operand)
		if !ok {
			return 0, false
		}
		if n.Op == "-" {
			return -v, true
		}
		return 0, false
	case *hir.BinaryExpr:
		l, lok := c.foldConstInt(n.Left)
		r, rok := c.foldConstInt(n.Right)
		if !lok || !rok {
			return 0, false
		}
		switch n.Op {
		case "+":
			return l + r, true
		case "-":
			return l - r, true
		case "*":
			return l * r, true
		case "/":
			if r == 0 {
				return 0, false
			}
			return l / r, true
		default:
			return 0, false
		}
	case *hir.ComptimeExpr:
		if c.comptime == nil {
			return 0, false
		}
		cv, diag := c.comptime.Evaluate(n, c.table.IDOf(&types.Int{Bits: types.W64, Signed: true}))
		if diag != nil {
			c.diags.Add(diag)
			return 0, false
		}
		if cv.IsInt {
			return cv.AsInt, true
		}
		return 0, false
	default:
		return 0, false
	}
}

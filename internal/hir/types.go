package hir

import "fmt"

// The following nodes are the HIR encoding of type syntax. Because types are
// first-class values in this language (§3 "First-class types"), every one
// of these also satisfies Expr: HIR-Ty evaluates them (at comptime, always)
// to a types.ID the same way it evaluates any other expression.

type PointerTypeExpr struct {
	NodeMeta
	Pointee Expr
	Mutable bool
}

func (p *PointerTypeExpr) exprNode() {}
func (p *PointerTypeExpr) String() string {
	if p.Mutable {
		return fmt.Sprintf("^mut %s", p.Pointee)
	}
	return fmt.Sprintf("^%s", p.Pointee)
}

type SliceTypeExpr struct {
	NodeMeta
	Elem Expr
}

func (s *SliceTypeExpr) exprNode()     {}
func (s *SliceTypeExpr) String() string { return fmt.Sprintf("[]%s", s.Elem) }

type ArrayTypeExpr struct {
	NodeMeta
	Length Expr
	Elem   Expr
}

func (a *ArrayTypeExpr) exprNode()     {}
func (a *ArrayTypeExpr) String() string { return fmt.Sprintf("[%s]%s", a.Length, a.Elem) }

type DistinctTypeExpr struct {
	NodeMeta
	Underlying Expr
}

func (d *DistinctTypeExpr) exprNode()     {}
func (d *DistinctTypeExpr) String() string { return fmt.Sprintf("distinct %s", d.Underlying) }

type StructMemberExpr struct {
	Name string
	Type Expr
}

type StructTypeExpr struct {
	NodeMeta
	Members []StructMemberExpr
}

func (s *StructTypeExpr) exprNode() {}
func (s *StructTypeExpr) String() string {
	return fmt.Sprintf("struct { %d members }", len(s.Members))
}

type EnumVariantExpr struct {
	Name         string
	Payload      Expr // nil => void payload
	Discriminant *int64
}

type EnumTypeExpr struct {
	NodeMeta
	Variants []EnumVariantExpr
}

func (e *EnumTypeExpr) exprNode() {}
func (e *EnumTypeExpr) String() string {
	return fmt.Sprintf("enum { %d variants }", len(e.Variants))
}

type FuncTypeExpr struct {
	NodeMeta
	Params []Expr
	Result Expr
}

func (f *FuncTypeExpr) exprNode() {}
func (f *FuncTypeExpr) String() string {
	return fmt.Sprintf("(%d params) -> %v", len(f.Params), f.Result)
}

package ast

import (
	"fmt"
	"strings"
)

// NamedType is a bare type name reference, e.g. `i32`, `str`, or a
// user-defined type binding name. Syntactically indistinguishable from an
// Ident at parse time; kept as a distinct constructor where the grammar
// is unambiguous (e.g. inside a `struct { ... }` member list) to simplify
// HIR lowering.
type NamedType struct {
	Name string
	Span Span
}

func (n *NamedType) Position() Pos  { return n.Span.Start }
func (n *NamedType) String() string { return n.Name }
func (*NamedType) typeExprNode()    {}
func (*NamedType) exprNode()        {}

// PointerType is `^T` (immutable pointee) or `^mut T` (mutable pointee).
type PointerType struct {
	Pointee TypeExpr
	Mutable bool
	Span    Span
}

func (p *PointerType) Position() Pos { return p.Span.Start }
func (p *PointerType) String() string {
	if p.Mutable {
		return fmt.Sprintf("^mut %s", p.Pointee)
	}
	return fmt.Sprintf("^%s", p.Pointee)
}
func (*PointerType) typeExprNode() {}
func (*PointerType) exprNode()     {}

// SliceType is `[]T`.
type SliceType struct {
	Elem TypeExpr
	Span Span
}

func (s *SliceType) Position() Pos  { return s.Span.Start }
func (s *SliceType) String() string { return fmt.Sprintf("[]%s", s.Elem) }
func (*SliceType) typeExprNode()    {}
func (*SliceType) exprNode()        {}

// ArrayType is `[N]T`, where N is itself an expression (must be const,
// checked in HIR-Ty).
type ArrayType struct {
	Length Expr
	Elem   TypeExpr
	Span   Span
}

func (a *ArrayType) Position() Pos  { return a.Span.Start }
func (a *ArrayType) String() string { return fmt.Sprintf("[%s]%s", a.Length, a.Elem) }
func (*ArrayType) typeExprNode()    {}
func (*ArrayType) exprNode()        {}

// DistinctType is `distinct T`.
type DistinctType struct {
	Underlying TypeExpr
	Span       Span
}

func (d *DistinctType) Position() Pos  { return d.Span.Start }
func (d *DistinctType) String() string { return fmt.Sprintf("distinct %s", d.Underlying) }
func (*DistinctType) typeExprNode()    {}
func (*DistinctType) exprNode()        {}

// StructType is `struct { name: Type, ... }`.
type StructType struct {
	Members []StructMember
	Span    Span
}

type StructMember struct {
	Name string
	Type TypeExpr
}

func (s *StructType) Position() Pos { return s.Span.Start }
func (s *StructType) String() string {
	parts := make([]string, len(s.Members))
	for i, m := range s.Members {
		parts[i] = fmt.Sprintf("%s: %s", m.Name, m.Type)
	}
	return fmt.Sprintf("struct { %s }", strings.Join(parts, ", "))
}
func (*StructType) typeExprNode() {}
func (*StructType) exprNode()     {}

// EnumType is `enum { Name: PayloadType [| N], ... }`. A variant with no
// payload (`Name` alone, or `Name | N`) has PayloadType == nil (void payload).
type EnumType struct {
	Variants []EnumVariant
	Span     Span
}

type EnumVariant struct {
	Name         string
	PayloadType  TypeExpr // nil => void payload
	Discriminant *int64   // nil => auto-assigned (0, 1, 2, ...)
}

func (e *EnumType) Position() Pos { return e.Span.Start }
func (e *EnumType) String() string {
	parts := make([]string, len(e.Variants))
	for i, v := range e.Variants {
		if v.PayloadType != nil {
			parts[i] = fmt.Sprintf("%s: %s", v.Name, v.PayloadType)
		} else {
			parts[i] = v.Name
		}
		if v.Discriminant != nil {
			parts[i] += fmt.Sprintf(" | %d", *v.Discriminant)
		}
	}
	return fmt.Sprintf("enum { %s }", strings.Join(parts, ", "))
}
func (*EnumType) typeExprNode() {}
func (*EnumType) exprNode()     {}

// FuncType is `(T1, T2) -> R`, used in declared-type position (e.g. a
// parameter of function-pointer type).
type FuncType struct {
	Params []TypeExpr
	Result TypeExpr
	Span   Span
}

func (f *FuncType) Position() Pos { return f.Span.Start }
func (f *FuncType) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), f.Result)
}
func (*FuncType) typeExprNode() {}
func (*FuncType) exprNode()     {}

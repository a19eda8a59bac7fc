package hir

import (
	"fmt"
	"strings"

	"github.com/capy-lang/capyc/internal/interner"
)

// Symbol identifies a resolved binding: the module it lives in and its
// interned name. A zero Symbol means resolution failed (§4.2 "Unresolved
// names emit a diagnostic ... but do not abort lowering").
type Symbol struct {
	Module ModuleID
	Name   interner.Key
	Ok     bool
	// Decl is the exact Binding instance the lowerer's scope chain found,
	// when resolution succeeded. Two bindings can share Name (the interner
	// dedups by string content, not by declaration site), so HIR-Ty and
	// codegen key a binding's inferred type by this pointer's NodeID rather
	// than by Name whenever Decl is present — the only way to keep shadowed
	// locals and reused parameter names (very common: "x", "i", "n") from
	// aliasing each other's types.
	Decl *Binding
}

type Var struct {
	NodeMeta
	Name     string
	Resolved Symbol
}

func (v *Var) exprNode()     {}
func (v *Var) String() string { return v.Name }

type LitKind int

const (
	LitInt LitKind = iota
	LitFloat
	LitBool
	LitChar
	LitString
	LitUnit
)

type Lit struct {
	NodeMeta
	Kind  LitKind
	Value interface{}
}

func (l *Lit) exprNode()     {}
func (l *Lit) String() string { return fmt.Sprintf("%v", l.Value) }

type ArrayLit struct {
	NodeMeta
	ElemType Expr
	Elems    []Expr
}

func (a *ArrayLit) exprNode() {}
func (a *ArrayLit) String() string {
	parts := make([]string, len(a.Elems))
	for i, e := range a.Elems {
		parts[i] = e.String()
	}
	return fmt.Sprintf("%s.[%s]", a.ElemType, strings.Join(parts, ", "))
}

type StructLitField struct {
	Name  string
	Value Expr
}

type StructLit struct {
	NodeMeta
	StructType Expr
	Fields     []StructLitField
}

func (s *StructLit) exprNode() {}
func (s *StructLit) String() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = fmt.Sprintf("%s=%s", f.Name, f.Value)
	}
	return fmt.Sprintf("%s.{%s}", s.StructType, strings.Join(parts, ", "))
}

type BinaryExpr struct {
	NodeMeta
	Op          string
	Left, Right Expr
}

func (b *BinaryExpr) exprNode()     {}
func (b *BinaryExpr) String() string { return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right) }

type UnaryExpr struct {
	NodeMeta
	Op      string
	Operand Expr
}

func (u *UnaryExpr) exprNode()     {}
func (u *UnaryExpr) String() string { return fmt.Sprintf("%s%s", u.Op, u.Operand) }

type DerefExpr struct {
	NodeMeta
	Operand Expr
}

func (d *DerefExpr) exprNode()     {}
func (d *DerefExpr) String() string { return fmt.Sprintf("%s.*", d.Operand) }

type CallExpr struct {
	NodeMeta
	Func Expr
	Args []Expr
}

func (c *CallExpr) exprNode() {}
func (c *CallExpr) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Func, strings.Join(parts, ", "))
}

type CastExpr struct {
	NodeMeta
	Target Expr
	Value  Expr
}

func (c *CastExpr) exprNode()     {}
func (c *CastExpr) String() string { return fmt.Sprintf("%s.(%s)", c.Target, c.Value) }

type FieldExpr struct {
	NodeMeta
	Recv  Expr
	Field string
}

func (f *FieldExpr) exprNode()     {}
func (f *FieldExpr) String() string { return fmt.Sprintf("%s.%s", f.Recv, f.Field) }

type IndexExpr struct {
	NodeMeta
	Recv  Expr
	Index Expr
}

func (i *IndexExpr) exprNode()     {}
func (i *IndexExpr) String() string { return fmt.Sprintf("%s[%s]", i.Recv, i.Index) }

type IfExpr struct {
	NodeMeta
	Cond       Expr
	Then, Else Expr // Else nil or *BlockExpr/*IfExpr
}

func (i *IfExpr) exprNode()     {}
func (i *IfExpr) String() string { return fmt.Sprintf("if %s %s", i.Cond, i.Then) }

// BlockExpr carries its own DeferredTrailers: expressions scheduled to run
// on every exit edge of this scope in LIFO order (§9 "Defer",
// SPEC_FULL.md §9.1).
type BlockExpr struct {
	NodeMeta
	Stmts    []Stmt
	Result   Expr
	Defers   []Expr
}

func (b *BlockExpr) exprNode()     {}
func (b *BlockExpr) String() string { return fmt.Sprintf("{ %d stmts }", len(b.Stmts)) }

type ComptimeExpr struct {
	NodeMeta
	Body *BlockExpr
}

func (c *ComptimeExpr) exprNode()     {}
func (c *ComptimeExpr) String() string { return fmt.Sprintf("comptime %s", c.Body) }

type ForExpr struct {
	NodeMeta
	Cond     Expr
	Binder   string
	// BinderDecl is the synthetic Binding the lowerer declared for Binder
	// into the loop body's scope, shared with any Var inside Body that
	// resolves to it — HIR-Ty records the binder's element type directly
	// onto this node (by NodeID) since a bare name has no stable identity
	// across the interner the way a types.ID lookup needs (§4.2, §4.3).
	BinderDecl *Binding
	Iterable   Expr
	Body       *BlockExpr
}

func (f *ForExpr) exprNode()     {}
func (f *ForExpr) String() string { return "for " + f.Body.String() }

type SwitchCase struct {
	VariantName string
	BinderName  string
	// BinderDecl mirrors ForExpr.BinderDecl: the synthetic Binding declared
	// for BinderName into this case's body scope, used by HIR-Ty to record
	// the variant's payload type by NodeID instead of by name.
	BinderDecl *Binding
	Body       *BlockExpr
}

type SwitchExpr struct {
	NodeMeta
	Scrutinee Expr
	Cases     []SwitchCase
}

func (s *SwitchExpr) exprNode()     {}
func (s *SwitchExpr) String() string { return fmt.Sprintf("switch %s", s.Scrutinee) }

type Param struct {
	Name string
	Type Expr
	// Decl is the synthetic Binding the lowerer declares into the function
	// body's scope for Name, shared with Symbol.Decl on every Var in Body
	// that resolves to this parameter. HIR-Ty records the inferred param
	// type directly onto it (by NodeID) once, at FuncLit check time.
	Decl *Binding
}

type FuncLit struct {
	NodeMeta
	Params []Param
	Result Expr // nil => void
	Body   *BlockExpr
	// Captures is never populated. No pass lifts a nested function literal
	// to top level or checks what it captures: codegen rejects a nested
	// literal with CDG002, and the comptime engine evaluates one as a
	// closure over the environment it appears in.
	Captures []string
}

func (f *FuncLit) exprNode()     {}
func (f *FuncLit) String() string { return fmt.Sprintf("func(%d params)", len(f.Params)) }

// ---- statements ----

type Stmt interface {
	Node
	stmtNode()
}

type ExprStmt struct {
	NodeMeta
	X Expr
}

func (e *ExprStmt) stmtNode()     {}
func (e *ExprStmt) String() string { return e.X.String() }

type BindStmt struct {
	NodeMeta
	Binding *Binding
}

func (b *BindStmt) stmtNode()     {}
func (b *BindStmt) String() string { return b.Binding.String() }

type AssignStmt struct {
	NodeMeta
	Op     string // "" for plain `=`, else "+", "-", "*", "/"
	Target Expr
	Value  Expr
}

func (a *AssignStmt) stmtNode() {}
func (a *AssignStmt) String() string {
	if a.Op == "" {
		return fmt.Sprintf("%s = %s", a.Target, a.Value)
	}
	return fmt.Sprintf("%s %s= %s", a.Target, a.Op, a.Value)
}

type ReturnStmt struct {
	NodeMeta
	Value Expr
}

func (r *ReturnStmt) stmtNode() {}
func (r *ReturnStmt) String() string {
	if r.Value == nil {
		return "return"
	}
	return fmt.Sprintf("return %s", r.Value)
}

type BreakStmt struct{ NodeMeta }

func (b *BreakStmt) stmtNode()     {}
func (b *BreakStmt) String() string { return "break" }

type ContinueStmt struct{ NodeMeta }

func (c *ContinueStmt) stmtNode()     {}
func (c *ContinueStmt) String() string { return "continue" }

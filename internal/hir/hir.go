// Package hir implements §4.2 HIR lowering: a name-resolved, module-aware
// tree where each node carries its origin span and module id. It is the
// direct descendant of the teacher's internal/core (A-Normal Form lowering)
// and internal/module + internal/loader (module graph, import resolution),
// generalized from AILANG's functional core to this Language's imperative,
// pointer-and-struct surface.
package hir

import (
	"github.com/capy-lang/capyc/internal/ast"
)

// NodeID is a process-wide unique identifier minted during lowering. It is
// distinct from types.ID: a NodeID identifies a *syntactic occurrence*,
// while a types.ID identifies a *type value*.
type NodeID uint64

// ModuleID identifies one source file's module within a compilation.
type ModuleID uint32

// idGen is a monotonic NodeID allocator, one per Lowerer (never shared
// across compilations, matching §3 "HIR trees live per compilation").
type idGen struct{ next NodeID }

func (g *idGen) next_() NodeID {
	g.next++
	return g.next
}

// NodeMeta is embedded in every HIR node: origin span for diagnostics plus
// the node's own stable id (§3 "HIR node").
type NodeMeta struct {
	ID       NodeID
	Module   ModuleID
	OrigSpan ast.Span
}

func (m NodeMeta) NodeID_() NodeID   { return m.ID }
func (m NodeMeta) Span() ast.Span    { return m.OrigSpan }

// Node is satisfied by every HIR expression/type node.
type Node interface {
	NodeID_() NodeID
	Span() ast.Span
	String() string
}

// Expr is any HIR expression.
type Expr interface {
	Node
	exprNode()
}

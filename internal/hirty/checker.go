// Package hirty implements §4.3 HIR-Ty: bidirectional type inference and
// checking over a lowered hir.Module, producing a (node -> type) map, a
// (binding -> is_const) map, and a diagnostic bag. It is grounded on the
// teacher's internal/types package (typechecker.go/unification.go/
// inference.go/defaulting.go): the same on-demand, definition-order
// resolution strategy, adapted from Hindley-Milner unification to this
// language's simpler synthesize-or-check bidirectional walk over a fixed,
// already-resolved type grammar (no type variables survive past HIR-Ty).
package hirty

import (
	"fmt"

	"github.com/capy-lang/capyc/internal/ast"
	"github.com/capy-lang/capyc/internal/diagnostics"
	"github.com/capy-lang/capyc/internal/hir"
	"github.com/capy-lang/capyc/internal/interner"
	"github.com/capy-lang/capyc/internal/types"
)

// ConstValue is the minimal payload the comptime engine hands back to
// HIR-Ty when asked to evaluate a `comptime { ... }` block used in a
// const-required position (array length, enum discriminant, type
// expression). It mirrors the "caller-supplied buffer" contract of §4.4
// with the two fields HIR-Ty actually consumes pulled out for convenience.
type ConstValue struct {
	Type   types.ID
	Bytes  []byte
	IsType bool
	AsType types.ID // valid when IsType
	IsInt  bool
	AsInt  int64 // valid when IsInt
}

// ComptimeEvaluator is the narrow interface HIR-Ty needs from
// internal/comptime to resolve a `comptime { ... }` block appearing in a
// position that requires a compile-time-known value (§4.3 "Constness
// analysis"). Kept separate from the comptime package's full API so hirty
// never imports comptime (comptime imports hirty's typed output instead,
// avoiding a cycle); the driver wires the concrete evaluator in.
type ComptimeEvaluator interface {
	Evaluate(block *hir.ComptimeExpr, expected types.ID) (ConstValue, *diagnostics.Diagnostic)
}

// Checker holds the shared state for one module's type-checking pass.
type Checker struct {
	table    *types.Table
	comptime ComptimeEvaluator

	nodeTypes map[hir.NodeID]types.ID
	isConst   map[interner.Key]bool

	// typeExprMemo caches evalTypeExpr's result by node identity. Struct/
	// Enum/Distinct types carry identity rather than structural dedup
	// (Table.isStructurallyShareable), so evaluating the same syntactic
	// type expression twice — once during ordinary expression synthesis,
	// once from typeValueOf when recording a type-valued binding — must
	// yield the same types.ID both times, not two distinct Enum/Distinct
	// instances for one declaration.
	typeExprMemo map[hir.NodeID]types.ID

	// bindingTypeValue records, for a binding whose *value* is itself a
	// type (`Point :: struct { ... }`), the types.ID that value denotes —
	// this is what lets a later `p : Point` resolve `Point` to a concrete
	// type without re-running comptime evaluation.
	bindingTypeValue map[interner.Key]types.ID

	// inProgress / done implement the on-demand, cycle-detecting inference
	// described in §4.3 ("encountering a reference to a not-yet-typed
	// binding triggers inference of that binding; cycles ... reported").
	inProgress map[interner.Key]bool
	doneTyping map[interner.Key]bool

	diags diagnostics.Bag

	mod *hir.Module
}

func NewChecker(table *types.Table, comptime ComptimeEvaluator) *Checker {
	return &Checker{
		table:            table,
		comptime:         comptime,
		nodeTypes:        make(map[hir.NodeID]types.ID),
		isConst:          make(map[interner.Key]bool),
		typeExprMemo:     make(map[hir.NodeID]types.ID),
		bindingTypeValue: make(map[interner.Key]types.ID),
		inProgress:       make(map[interner.Key]bool),
		doneTyping:       make(map[interner.Key]bool),
	}
}

// Table exposes the shared type table so an injected ComptimeEvaluator can
// intern/compare types without hirty needing to re-export every types.*
// helper through its own API.
func (c *Checker) Table() *types.Table { return c.table }

// EvalTypeValue resolves a HIR expression known to denote a type (a
// PointerTypeExpr, StructTypeExpr, a Var naming a type binding, ...) to
// its types.ID, memoized by node identity. Exported so an injected
// ComptimeEvaluator can resolve the same type-expression nodes it
// encounters inside a `comptime { ... }` block without hirty needing to
// expose its whole internal evaluation surface.
func (c *Checker) EvalTypeValue(e hir.Expr) types.ID { return c.evalTypeExpr(e) }

// Module exposes the module currently being checked so an injected
// ComptimeEvaluator can resolve a Var inside a comptime block to the
// top-level Binding it names (and recursively evaluate that binding's own
// Init, memoized on node identity).
func (c *Checker) Module() *hir.Module { return c.mod }

// SetComptime wires the evaluator after construction. The comptime engine
// itself is built from a *Checker (it reads the shared type table and
// calls back into EvalTypeValue/Module), so the driver constructs the
// Checker with a nil evaluator, builds the Engine from it, then calls
// SetComptime — breaking the otherwise-circular construction order.
func (c *Checker) SetComptime(ev ComptimeEvaluator) { c.comptime = ev }

func (c *Checker) Diagnostics() *diagnostics.Bag { return &c.diags }
func (c *Checker) NodeType(id hir.NodeID) (types.ID, bool) {
	t, ok := c.nodeTypes[id]
	return t, ok
}
func (c *Checker) IsConst(name interner.Key) bool { return c.isConst[name] }

func (c *Checker) record(n hir.Node, id types.ID) types.ID {
	c.nodeTypes[n.NodeID_()] = id
	return id
}

func (c *Checker) errorf(phase diagnostics.Phase, code string, span ast.Span, format string, args ...interface{}) {
	c.diags.Add(diagnostics.New(phase, code, fmt.Sprintf(format, args...)).WithSpan(span))
}

// Check runs inference over every top-level declaration in mod, in
// declaration order, resolving forward references on demand.
func (c *Checker) Check(mod *hir.Module) {
	c.mod = mod
	for _, b := range mod.Decls {
		c.checkBinding(b)
	}
}

// checkBinding infers b's type if it hasn't been already, detecting
// self-referential cycles among const bindings (§4.3 "type depends on
// itself").
func (c *Checker) checkBinding(b *hir.Binding) types.ID {
	if c.doneTyping[b.InternedName] {
		if id, ok := c.bindingTypeValue[b.InternedName]; ok {
			return id
		}
		if id, ok := c.NodeType(b.NodeID_()); ok {
			return id
		}
	}
	if c.inProgress[b.InternedName] {
		c.errorf(diagnostics.PhaseNames, diagnostics.NAM003, b.Span(),
			"%q: type depends on itself", b.Name)
		return c.table.IDOf(&types.Void{})
	}
	c.inProgress[b.InternedName] = true
	defer delete(c.inProgress, b.InternedName)

	var expected *types.ID
	if b.DeclaredType != nil {
		declID := c.evalTypeExpr(b.DeclaredType)
		expected = &declID
	}

	var gotID types.ID
	if b.Init != nil {
		gotID = c.infer(b.Init, expected)
	} else if expected != nil {
		gotID = *expected
	} else {
		gotID = c.table.IDOf(&types.Void{})
	}

	if expected != nil && !c.table.Get(*expected).Equals(c.table.Get(gotID)) {
		converted, ok := c.tryImplicitConvert(b.Init, gotID, *expected)
		if !ok {
			c.errorf(diagnostics.PhaseTypes, diagnostics.TYP001, b.Span(),
				"binding %q: expected %s, found %s", b.Name, c.table.Get(*expected), c.table.Get(gotID))
		} else {
			gotID = converted
		}
	}

	c.record(b, gotID)
	c.isConst[b.InternedName] = c.computeConstness(b)
	if c.table.Get(gotID).Equals(&types.MetaType{}) {
		if tv, ok := c.typeValueOf(b.Init); ok {
			c.bindingTypeValue[b.InternedName] = tv
		}
	}
	c.doneTyping[b.InternedName] = true
	return gotID
}

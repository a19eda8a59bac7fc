package comptime

import (
	"fmt"
	"io"
	"os"

	"github.com/capy-lang/capyc/internal/diagnostics"
	"github.com/capy-lang/capyc/internal/hir"
	"github.com/capy-lang/capyc/internal/hirty"
	"github.com/capy-lang/capyc/internal/interner"
	"github.com/capy-lang/capyc/internal/types"
)

// maxReentrancyDepth bounds how deeply one comptime evaluation may call
// into another (comptime function calling a comptime function, a nested
// `comptime { ... }` block, ...) before the engine traps instead of
// overflowing the Go stack (§4.4 "reentrancy stack depth 64").
const maxReentrancyDepth = 64

// state is the engine's per-evaluation lifecycle (§4.4 "PENDING ->
// LOWERING -> JIT_COMPILING -> EXECUTING -> {DONE|TRAPPED|DIAGNOSED}").
// capyc's comptime tier is a tree-walking interpreter rather than a real
// JIT, so LOWERING/JIT_COMPILING collapse into a single "prepare" step.
// The current state is recorded on the Engine only; diagnostics and cache
// entries do not carry it.
type state int

const (
	statePending state = iota
	statePreparing
	stateExecuting
	stateDone
	stateTrapped
	stateDiagnosed
)

// Engine evaluates comptime blocks against a type-checked (so far as
// in-progress) hir.Module. Grounded on the teacher's internal/eval
// tree-walking Evaluator, generalized to carry types.ID alongside every
// Value and to report traps as Diagnostics instead of panicking.
type Engine struct {
	checker *hirty.Checker
	table   *types.Table
	interns *interner.Interner

	// memo caches a fully-evaluated node's Value by node identity (§4.4
	// "memoization"): re-evaluating the same comptime block (e.g. because
	// two array-length positions reference the same named constant) must
	// not re-run side-effect-free but potentially expensive computation.
	memo map[hir.NodeID]Value

	// bindingMemo caches a top-level binding's Init once evaluated, keyed
	// by interned name, mirroring hirty.Checker's own doneTyping table.
	bindingMemo map[interner.Key]Value

	depth int
	state state

	// stdout is where evalPrintlnCall writes (§4.4 "side effects during
	// comptime ... are observed by the compiler host"). Defaults to the
	// process's real stdout; SetOutput lets a driver-level test capture it
	// instead of shelling out to a linked executable just to assert on
	// printed text.
	stdout io.Writer
}

// NewEngine builds an Engine sharing the Checker's type table and the
// compilation's single Interner — comptime re-interns FuncLit parameter
// names (composite.go's evalCall) to resolve them against the same keys
// the body's Var.Resolved.Name nodes carry.
func NewEngine(checker *hirty.Checker, interns *interner.Interner) *Engine {
	return &Engine{
		checker:     checker,
		table:       checker.Table(),
		interns:     interns,
		memo:        make(map[hir.NodeID]Value),
		bindingMemo: make(map[interner.Key]Value),
		stdout:      os.Stdout,
	}
}

// SetOutput redirects println's output from the process's real stdout to
// w — used by driver-level tests that interpret a module's main via
// RunMain and assert on what it printed.
func (e *Engine) SetOutput(w io.Writer) { e.stdout = w }

// Stdout is the writer evalPrintlnCall should use.
func (e *Engine) Stdout() io.Writer { return e.stdout }

// Evaluate implements hirty.ComptimeEvaluator. expected is the type the
// caller needs the block's result coerced to (MetaType when a type value
// is wanted, otherwise the concrete scalar/composite type of the position
// the block appears in — an array length, an enum discriminant, an
// initializer).
func (e *Engine) Evaluate(block *hir.ComptimeExpr, expected types.ID) (hirty.ConstValue, *diagnostics.Diagnostic) {
	e.state = statePreparing
	if v, ok := e.memo[block.NodeID_()]; ok {
		e.state = stateDone
		return e.toConstValue(v), nil
	}

	e.state = stateExecuting
	v, diag := e.evalBlockValue(block.Body, NewEnvironment())
	if diag != nil {
		e.state = stateDiagnosed
		return hirty.ConstValue{}, diag
	}
	e.state = stateDone
	e.memo[block.NodeID_()] = v
	return e.toConstValue(v), nil
}

// EvalForCodegen evaluates block the same way Evaluate does (sharing its
// memo table, so a block already forced during type-checking is not
// re-run) but hands back the raw Value instead of projecting it through
// hirty.ConstValue, which only carries the int/type-id cases HIR-Ty's own
// inference needs. Codegen needs the full composite value to serialize a
// surviving comptime block into a read-only C global.
func (e *Engine) EvalForCodegen(block *hir.ComptimeExpr, expected types.ID) (Value, *diagnostics.Diagnostic) {
	if v, ok := e.memo[block.NodeID_()]; ok {
		return v, nil
	}
	e.state = statePreparing
	e.state = stateExecuting
	v, diag := e.evalBlockValue(block.Body, NewEnvironment())
	if diag != nil {
		e.state = stateDiagnosed
		return nil, diag
	}
	e.state = stateDone
	e.memo[block.NodeID_()] = v
	return v, nil
}

func (e *Engine) toConstValue(v Value) hirty.ConstValue {
	cv := hirty.ConstValue{Type: v.ValueType()}
	switch tv := v.(type) {
	case *TypeValue:
		cv.IsType = true
		cv.AsType = tv.Denotes
	case *IntValue:
		cv.IsInt = true
		cv.AsInt = tv.Val
	case *BoolValue:
		cv.IsInt = true
		if tv.Val {
			cv.AsInt = 1
		}
	}
	return cv
}

// RunMain interprets mod's "main" binding as a nullary function and
// discards its result. This is the interpret-only execution path: the
// driver-level integration tests exercising §8's S1-S6 scenarios assert on
// captured stdout from this call rather than shelling out to a linked
// executable (per SPEC_FULL §8, the same way the teacher's own
// integration tests call eval.Eval directly instead of invoking a
// compiled binary).
func (e *Engine) RunMain(mod *hir.Module) *diagnostics.Diagnostic {
	for _, b := range mod.Decls {
		if b.Name != "main" {
			continue
		}
		fl, ok := b.Init.(*hir.FuncLit)
		if !ok {
			return e.trap(diagnostics.INT001, b, "comptime: %q is not a function", b.Name)
		}
		ty, _ := e.checker.NodeType(fl.NodeID_())
		fn := &FuncValue{Ty: ty, Lit: fl, Closure: NewEnvironment()}
		e.depth++
		defer func() { e.depth-- }()
		_, _, diag := e.evalBlock(fn.Lit.Body, fn.Closure.Child())
		return diag
	}
	return diagnostics.New(diagnostics.PhaseInternal, diagnostics.INT001, `no "main" binding in module`)
}

func (e *Engine) trap(code string, span hir.Node, format string, args ...interface{}) *diagnostics.Diagnostic {
	e.state = stateTrapped
	return diagnostics.New(diagnostics.PhaseComptime, code, fmt.Sprintf(format, args...)).WithSpan(span.Span())
}

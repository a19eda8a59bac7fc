// Package driver wires the pipeline stages — HIR lowering, HIR-Ty checking,
// comptime evaluation, codegen, and the linker — into the single entry
// point cmd/capyc calls. Nothing here owns a stage's own logic; it only
// constructs each stage's collaborators in the order the late-binding
// interfaces (hirty.ComptimeEvaluator, codegen.ComptimeOracle) require and
// forwards diagnostics.
//
// Grounded on the teacher's own cmd/ailang wiring: a Pipeline struct built
// once per compilation unit, threading a shared symbol table between
// otherwise-decoupled passes.
package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/capy-lang/capyc/internal/ast"
	"github.com/capy-lang/capyc/internal/cache"
	"github.com/capy-lang/capyc/internal/codegen"
	"github.com/capy-lang/capyc/internal/comptime"
	"github.com/capy-lang/capyc/internal/diagnostics"
	"github.com/capy-lang/capyc/internal/hir"
	"github.com/capy-lang/capyc/internal/hirty"
	"github.com/capy-lang/capyc/internal/interner"
	"github.com/capy-lang/capyc/internal/types"
)

// Result is the outcome of compiling one module all the way to C source.
type Result struct {
	Program *codegen.Program
	Diags   *diagnostics.Bag
}

// Options configures one CompileFile run. The zero value disables
// cross-run comptime caching.
type Options struct {
	// Source is the exact bytes f was parsed from. Required for Cache to
	// have any effect: it anchors the content hash a cache entry is keyed
	// on, so a cache built against one version of a file is never reused
	// for an edited one.
	Source []byte
	// Cache, if set, is consulted before and populated after every
	// surviving `comptime { ... }` block codegen evaluates (§6 "on-disk
	// comptime cache").
	Cache *cache.Cache
}

// CheckResult is the outcome of running the pipeline through HIR-Ty only,
// without codegen — what the `typecheck` CLI subcommand and editor-style
// tooling want: diagnostics and the inferred types, without paying for (or
// risking a CDG### from) lowering to C.
type CheckResult struct {
	Module *hir.Module
	Table  *types.Table
	Diags  *diagnostics.Bag
}

// CheckFile runs lowering and HIR-Ty over f, stopping before codegen.
func CheckFile(f *ast.File, modID hir.ModuleID) *CheckResult {
	interns := interner.New()
	table := types.NewTable()

	lowerer := hir.NewLowerer(interns, modID, f.Path)
	mod := lowerer.LowerFile(f)

	diags := &diagnostics.Bag{}
	for _, d := range lowerer.Diagnostics().All() {
		diags.Add(d)
	}
	if diags.HasErrors() {
		return &CheckResult{Diags: diags}
	}

	checker := hirty.NewChecker(table, nil)
	engine := comptime.NewEngine(checker, interns)
	checker.SetComptime(engine)

	checker.Check(mod)
	for _, d := range checker.Diagnostics().All() {
		diags.Add(d)
	}
	return &CheckResult{Module: mod, Table: table, Diags: diags}
}

// CompileFile runs the full front-to-back pipeline over an already-parsed
// file. CompileFile does not parse: callers hand in an *ast.File
// (cmd/capyc builds it with internal/parser).
func CompileFile(f *ast.File, modID hir.ModuleID, opts Options) *Result {
	interns := interner.New()
	table := types.NewTable()

	lowerer := hir.NewLowerer(interns, modID, f.Path)
	mod := lowerer.LowerFile(f)

	diags := &diagnostics.Bag{}
	for _, d := range lowerer.Diagnostics().All() {
		diags.Add(d)
	}
	if diags.HasErrors() {
		return &Result{Diags: diags}
	}

	checker := hirty.NewChecker(table, nil)
	engine := comptime.NewEngine(checker, interns)
	checker.SetComptime(engine)

	checker.Check(mod)
	for _, d := range checker.Diagnostics().All() {
		diags.Add(d)
	}
	if diags.HasErrors() {
		return &Result{Diags: diags}
	}

	gen := codegen.NewGenerator(table, interns, checker)
	var oracle codegen.ComptimeOracle = newComptimeAdapter(engine, table)
	if opts.Cache != nil && len(opts.Source) > 0 {
		oracle = newCachingComptimeAdapter(oracle, opts.Cache, opts.Source)
	}
	gen.SetComptimeOracle(oracle)

	prog := gen.Generate(mod)
	for _, d := range gen.Diagnostics().All() {
		diags.Add(d)
	}

	return &Result{Program: prog, Diags: diags}
}

// comptimeAdapter satisfies codegen.ComptimeOracle by composing
// comptime.Engine.EvalForCodegen with comptime.SerializeValue — the glue
// deliberately lives here rather than in internal/codegen or
// internal/comptime, so neither package needs to import the other.
type comptimeAdapter struct {
	engine *comptime.Engine
	table  *types.Table
}

func newComptimeAdapter(engine *comptime.Engine, table *types.Table) *comptimeAdapter {
	return &comptimeAdapter{engine: engine, table: table}
}

// EvalForCodegen implements codegen.ComptimeOracle. A comptime result whose
// type is `str` gets special-cased: SerializeValue reports any StringValue
// as a bare pointer (§9 "Comptime limitation" — a string has no safe byte
// representation to embed), but the underlying Go string is otherwise
// perfectly renderable as a C string literal, so codegen does not need to
// reject every string-typed comptime block, only ones buried inside a
// composite that SerializeValue can't unwrap a literal out of.
func (a *comptimeAdapter) EvalForCodegen(block *hir.ComptimeExpr, expected types.ID) (codegen.ComptimeResult, *diagnostics.Diagnostic) {
	v, diag := a.engine.EvalForCodegen(block, expected)
	if diag != nil {
		return codegen.ComptimeResult{}, diag
	}

	if sv, ok := v.(*comptime.StringValue); ok {
		return codegen.ComptimeResult{
			Type:       sv.ValueType(),
			Bytes:      []byte(fmt.Sprintf("%q", sv.Val)),
			HasPointer: false,
		}, nil
	}

	bytes, hasPointer := comptime.SerializeValue(v, a.table)
	return codegen.ComptimeResult{
		Type:       v.ValueType(),
		Bytes:      bytes,
		HasPointer: hasPointer,
	}, nil
}

// cachingComptimeAdapter wraps a codegen.ComptimeOracle with an on-disk
// lookaside (§6): a block whose source bytes are unchanged between runs
// skips re-evaluation entirely, not just re-evaluation within one process
// (comptime.Engine's own memo already covers that narrower case). Only
// pointer-free results are ever persisted — a HasPointer result embeds a
// run-local address that the next process cannot reuse.
type cachingComptimeAdapter struct {
	next       codegen.ComptimeOracle
	cache      *cache.Cache
	sourceHash string
}

func newCachingComptimeAdapter(next codegen.ComptimeOracle, c *cache.Cache, source []byte) *cachingComptimeAdapter {
	sum := sha256.Sum256(source)
	return &cachingComptimeAdapter{next: next, cache: c, sourceHash: hex.EncodeToString(sum[:])}
}

// key combines the file's content hash with the block's byte span, so two
// distinct comptime blocks in the same file never collide, and any edit
// upstream of a block shifts its span and invalidates the entry.
func (a *cachingComptimeAdapter) key(block *hir.ComptimeExpr) string {
	span := block.Span()
	return fmt.Sprintf("%s:%d:%d", a.sourceHash, span.Start.Offset, span.End.Offset)
}

func (a *cachingComptimeAdapter) EvalForCodegen(block *hir.ComptimeExpr, expected types.ID) (codegen.ComptimeResult, *diagnostics.Diagnostic) {
	key := a.key(block)
	if entry, ok := a.cache.Get(key); ok {
		return codegen.ComptimeResult{Type: entry.TypeID, Bytes: entry.Bytes, HasPointer: false}, nil
	}

	result, diag := a.next.EvalForCodegen(block, expected)
	if diag != nil {
		return result, diag
	}
	if !result.HasPointer {
		_ = a.cache.Put(key, cache.Entry{TypeID: result.Type, Bytes: result.Bytes})
	}
	return result, nil
}

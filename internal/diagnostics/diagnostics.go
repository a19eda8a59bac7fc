// Package diagnostics is the structured error type shared by every compiler
// phase (§7). It is the direct descendant of the teacher's internal/errors:
// the same Report/Encoded split (a phase-tagged structured record plus a
// deterministic JSON encoding), with the error code taxonomy renamed to this
// pipeline's own phases.
package diagnostics

import (
	"errors"
	"fmt"

	"github.com/capy-lang/capyc/internal/ast"
	"github.com/capy-lang/capyc/internal/schema"
)

// Phase identifies which pipeline stage raised a Diagnostic.
type Phase string

const (
	PhaseParser    Phase = "parser"
	PhaseNames     Phase = "names"
	PhaseTypes     Phase = "types"
	PhaseConst     Phase = "const"
	PhaseComptime  Phase = "comptime"
	PhaseCodegen   Phase = "codegen"
	PhaseLink      Phase = "link"
	PhaseInternal  Phase = "internal"
)

// Severity distinguishes hard failures from advisory notes (§7 "warnings
// never block codegen; errors always do").
type Severity int

const (
	SevError Severity = iota
	SevWarning
)

// Code taxonomy (§7): PAR/NAM/TYP/CNS/CMT/CDG/LNK/INT, one flat namespace
// per phase, mirroring the teacher's PAR/TC/ELB/LNK/RT families.
const (
	// Parser errors (external collaborator; this taxonomy only covers
	// Diagnostics produced by re-validating parser output, e.g. a
	// duplicate top-level binding name).
	PAR001 = "PAR001" // duplicate top-level binding
	PAR002 = "PAR002" // malformed import path

	// Name resolution (NAM###)
	NAM001 = "NAM001" // unresolved identifier
	NAM002 = "NAM002" // unresolved field/variant name
	NAM003 = "NAM003" // circular const binding (SCC)

	// Type checking (TYP###)
	TYP001 = "TYP001" // type mismatch, no implicit conversion available
	TYP002 = "TYP002" // operation not supported on this type (field/index/struct-literal target)
	TYP003 = "TYP003" // no such struct field
	TYP004 = "TYP004" // cannot dereference non-pointer type
	TYP005 = "TYP005" // call target is not a function
	TYP006 = "TYP006" // arity mismatch in call
	TYP007 = "TYP007" // cast not permitted between these types

	// Constness analysis (CNS###)
	CNS001 = "CNS001" // comptime context requires a compile-time-known value
	CNS002 = "CNS002" // mutable binding used where a const is required

	// Comptime execution (CMT###)
	CMT001 = "CMT001" // trap: division by zero
	CMT002 = "CMT002" // trap: index out of bounds
	CMT003 = "CMT003" // trap: reentrancy depth exceeded
	CMT004 = "CMT004" // trap: unreachable code executed

	// Codegen (CDG###)
	CDG001 = "CDG001" // layout computation failed
	CDG002 = "CDG002" // unsupported construct reached codegen

	// Link (LNK###)
	LNK001 = "LNK001" // external toolchain not found
	LNK002 = "LNK002" // external toolchain exited non-zero
	LNK003 = "LNK003" // missing libc dependency

	// Internal (INT###)
	INT001 = "INT001" // invariant violation
)

// Fix is an optional suggested remediation, scored the way the teacher's
// does (a bare suggestion plus a confidence in [0,1]).
type Fix struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// Diagnostic is the canonical structured error/warning value threaded
// through every phase (§7 "Diagnostic").
type Diagnostic struct {
	Schema   string         `json:"schema"`
	Code     string         `json:"code"`
	Phase    Phase          `json:"phase"`
	Severity Severity       `json:"-"`
	Message  string         `json:"message"`
	Span     *ast.Span      `json:"span,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	Fix      *Fix           `json:"fix,omitempty"`
}

func New(phase Phase, code, message string) *Diagnostic {
	return &Diagnostic{Schema: schema.ErrorV1, Phase: phase, Code: code, Message: message}
}

func (d *Diagnostic) WithSpan(span ast.Span) *Diagnostic {
	d.Span = &span
	return d
}

func (d *Diagnostic) WithData(key string, value any) *Diagnostic {
	if d.Data == nil {
		d.Data = make(map[string]any)
	}
	d.Data[key] = value
	return d
}

func (d *Diagnostic) WithFix(suggestion string, confidence float64) *Diagnostic {
	d.Fix = &Fix{Suggestion: suggestion, Confidence: confidence}
	return d
}

func (d *Diagnostic) AsWarning() *Diagnostic {
	d.Severity = SevWarning
	return d
}

func (d *Diagnostic) Error() string {
	if d.Span != nil {
		return fmt.Sprintf("%s: %s: %s", d.Span.Start, d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Code, d.Message)
}

// ToJSON renders the Diagnostic with deterministic (sorted-key) JSON,
// matching the teacher's schema.MarshalDeterministic convention so machine
// consumers get a stable diff-friendly encoding.
func (d *Diagnostic) ToJSON() (string, error) {
	data, err := schema.MarshalDeterministic(d)
	if err != nil {
		return "", err
	}
	if err := schema.MustValidate(d.Schema, data); err != nil {
		return "", err
	}
	out, err := schema.FormatJSON(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Bag accumulates diagnostics across a phase. Lowering and type-checking
// never abort on the first error (§4.2 "does not abort lowering"); they
// collect into a Bag and the driver decides whether to proceed.
type Bag struct {
	items []*Diagnostic
}

func (b *Bag) Add(d *Diagnostic) { b.items = append(b.items, d) }

func (b *Bag) Errors() []*Diagnostic {
	var out []*Diagnostic
	for _, d := range b.items {
		if d.Severity == SevError {
			out = append(out, d)
		}
	}
	return out
}

func (b *Bag) Warnings() []*Diagnostic {
	var out []*Diagnostic
	for _, d := range b.items {
		if d.Severity == SevWarning {
			out = append(out, d)
		}
	}
	return out
}

func (b *Bag) All() []*Diagnostic { return b.items }

func (b *Bag) HasErrors() bool { return len(b.Errors()) > 0 }

// wrapped lets a *Diagnostic survive errors.As() unwrapping, mirroring the
// teacher's ReportError.
type wrapped struct{ d *Diagnostic }

func (w *wrapped) Error() string { return w.d.Error() }

func Wrap(d *Diagnostic) error {
	if d == nil {
		return nil
	}
	return &wrapped{d: d}
}

func As(err error) (*Diagnostic, bool) {
	var w *wrapped
	if errors.As(err, &w) {
		return w.d, true
	}
	return nil, false
}

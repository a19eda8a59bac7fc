package diagnostics

import (
	"errors"
	"strings"
	"testing"

	"github.com/capy-lang/capyc/internal/ast"
	"github.com/capy-lang/capyc/internal/schema"
)

func TestNewDiagnosticCarriesSchemaPhaseAndCode(t *testing.T) {
	d := New(PhaseTypes, TYP001, "type mismatch")
	if d.Schema != schema.ErrorV1 {
		t.Errorf("Schema = %q, want %q", d.Schema, schema.ErrorV1)
	}
	if d.Phase != PhaseTypes {
		t.Errorf("Phase = %q, want %q", d.Phase, PhaseTypes)
	}
	if d.Code != TYP001 {
		t.Errorf("Code = %q, want %q", d.Code, TYP001)
	}
	if d.Severity != SevError {
		t.Errorf("a freshly-built Diagnostic should default to SevError, got %v", d.Severity)
	}
}

func TestBuilderChainIsFluent(t *testing.T) {
	span := ast.Span{Start: ast.Pos{File: "t.capy", Line: 2, Column: 5}}
	d := New(PhaseNames, NAM001, "unresolved identifier").
		WithSpan(span).
		WithData("name", "foo").
		WithFix("did you mean `bar`?", 0.7)

	if d.Span == nil || d.Span.Start.Line != 2 {
		t.Fatalf("expected WithSpan to record the given span, got %+v", d.Span)
	}
	if d.Data["name"] != "foo" {
		t.Fatalf("expected WithData to record name=foo, got %+v", d.Data)
	}
	if d.Fix == nil || d.Fix.Suggestion != "did you mean `bar`?" || d.Fix.Confidence != 0.7 {
		t.Fatalf("expected WithFix to record suggestion+confidence, got %+v", d.Fix)
	}
}

func TestAsWarningDoesNotCountAsError(t *testing.T) {
	var bag Bag
	bag.Add(New(PhaseTypes, TYP002, "surprising but not fatal").AsWarning())
	if bag.HasErrors() {
		t.Fatalf("a warning-only Bag must not report HasErrors")
	}
	if len(bag.Warnings()) != 1 {
		t.Fatalf("expected exactly one warning, got %d", len(bag.Warnings()))
	}
	if len(bag.Errors()) != 0 {
		t.Fatalf("expected zero errors, got %d", len(bag.Errors()))
	}
}

func TestBagAccumulatesAcrossMultiplePhasesWithoutAborting(t *testing.T) {
	var bag Bag
	bag.Add(New(PhaseNames, NAM001, "unresolved identifier"))
	bag.Add(New(PhaseTypes, TYP001, "type mismatch"))
	bag.Add(New(PhaseConst, CNS002, "mutable binding used as const").AsWarning())

	if !bag.HasErrors() {
		t.Fatalf("expected HasErrors true with two error-severity diagnostics")
	}
	if len(bag.All()) != 3 {
		t.Fatalf("All() = %d entries, want 3", len(bag.All()))
	}
	if len(bag.Errors()) != 2 {
		t.Fatalf("Errors() = %d, want 2", len(bag.Errors()))
	}
}

func TestErrorStringIncludesSpanWhenPresent(t *testing.T) {
	withSpan := New(PhaseTypes, TYP001, "boom").WithSpan(ast.Span{Start: ast.Pos{File: "t.capy", Line: 3, Column: 1}})
	if !strings.Contains(withSpan.Error(), "t.capy:3:1") {
		t.Fatalf("expected Error() to include the span, got %q", withSpan.Error())
	}

	withoutSpan := New(PhaseTypes, TYP001, "boom")
	if strings.Contains(withoutSpan.Error(), ":") && strings.HasPrefix(withoutSpan.Error(), "t.capy") {
		t.Fatalf("did not expect a span prefix without WithSpan, got %q", withoutSpan.Error())
	}
}

func TestWrapAndAsRoundTripThroughErrorsAs(t *testing.T) {
	d := New(PhaseInternal, INT001, "invariant violated")
	err := Wrap(d)

	got, ok := As(err)
	if !ok {
		t.Fatalf("expected As to unwrap the Diagnostic")
	}
	if got != d {
		t.Fatalf("As returned a different *Diagnostic than was wrapped")
	}

	// A plain errors.New should not unwrap as a Diagnostic.
	if _, ok := As(errors.New("plain")); ok {
		t.Fatalf("did not expect a plain error to unwrap as a Diagnostic")
	}
}

func TestWrapNilReturnsNilError(t *testing.T) {
	if err := Wrap(nil); err != nil {
		t.Fatalf("Wrap(nil) = %v, want nil", err)
	}
}

func TestToJSONIsDeterministicAcrossCalls(t *testing.T) {
	d := New(PhaseTypes, TYP001, "type mismatch").
		WithData("expected", "i32").
		WithData("found", "str")

	first, err := d.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	second, err := d.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if first != second {
		t.Fatalf("ToJSON is not deterministic across calls:\n%s\nvs\n%s", first, second)
	}
	if !strings.Contains(first, `"code"`) || !strings.Contains(first, TYP001) {
		t.Fatalf("expected the rendered JSON to carry the diagnostic code, got %s", first)
	}
}

package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/capy-lang/capyc/internal/ast"
	"github.com/capy-lang/capyc/internal/diagnostics"
	"github.com/capy-lang/capyc/internal/schema"
)

// TestErrorSchemaIntegration verifies diagnostic JSON schemas work end-to-end.
func TestErrorSchemaIntegration(t *testing.T) {
	d := diagnostics.New(diagnostics.PhaseTypes, diagnostics.TYP001, "type mismatch").
		WithSpan(ast.Span{Start: ast.Pos{Line: 1, Column: 1}, End: ast.Pos{Line: 1, Column: 2}})

	jsonData, err := d.ToJSON()
	if err != nil {
		t.Fatalf("Failed to convert diagnostic to JSON: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(jsonData), &parsed); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	schemaField, ok := parsed["schema"].(string)
	if !ok {
		t.Fatal("Missing or invalid schema field")
	}

	if !schema.Accepts(schemaField, schema.ErrorV1) {
		t.Errorf("Schema %q not accepted by %q", schemaField, schema.ErrorV1)
	}

	requiredFields := []string{"schema", "phase", "code", "message"}
	for _, field := range requiredFields {
		if _, ok := parsed[field]; !ok {
			t.Errorf("Missing required field: %s", field)
		}
	}
}

// TestCompactModeIntegration verifies compact mode works with real diagnostics.
func TestCompactModeIntegration(t *testing.T) {
	d := diagnostics.New(diagnostics.PhaseLink, diagnostics.LNK001, "external toolchain not found")

	schema.SetCompactMode(false)
	prettyJSON, err := d.ToJSON()
	if err != nil {
		t.Fatalf("Failed to generate pretty JSON: %v", err)
	}

	schema.SetCompactMode(true)
	compactJSON, err := d.ToJSON()
	if err != nil {
		t.Fatalf("Failed to generate compact JSON: %v", err)
	}

	if len(prettyJSON) <= len(compactJSON) {
		t.Error("Pretty JSON should be longer than compact JSON")
	}

	var prettyParsed, compactParsed interface{}
	if err := json.Unmarshal([]byte(prettyJSON), &prettyParsed); err != nil {
		t.Fatalf("Failed to parse pretty JSON: %v", err)
	}
	if err := json.Unmarshal([]byte(compactJSON), &compactParsed); err != nil {
		t.Fatalf("Failed to parse compact JSON: %v", err)
	}

	schema.SetCompactMode(false)
}

// TestDeterministicOutput verifies JSON output is deterministic across runs.
func TestDeterministicOutput(t *testing.T) {
	outputs := make([]string, 3)

	for i := 0; i < 3; i++ {
		d := diagnostics.New(diagnostics.PhaseComptime, diagnostics.CMT001, "division by zero").
			WithData("lhs", 1).WithData("rhs", 0)

		jsonData, err := d.ToJSON()
		if err != nil {
			t.Fatalf("Failed to generate JSON (iteration %d): %v", i, err)
		}

		outputs[i] = jsonData
	}

	for i := 1; i < len(outputs); i++ {
		if outputs[i] != outputs[0] {
			t.Errorf("Output %d differs from output 0:\nOutput 0:\n%s\nOutput %d:\n%s",
				i, outputs[0], i, outputs[i])
		}
	}
}

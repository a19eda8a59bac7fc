package schema

import (
	"encoding/json"
	"strings"
	"testing"
)

// TestGoldenErrorJSON tests that diagnostic JSON is deterministic and matches schema
func TestGoldenErrorJSON(t *testing.T) {
	tests := []struct {
		name     string
		err      map[string]interface{}
		wantJSON string // Exact expected JSON output
	}{
		{
			name: "type_mismatch_error",
			err: map[string]interface{}{
				"schema":  ErrorV1,
				"phase":   "types",
				"code":    "TYP001",
				"message": "binding \"x\": expected i32, found bool",
				"fix": map[string]interface{}{
					"suggestion": "",
					"confidence": 0.0,
				},
			},
			wantJSON: `{
  "code": "TYP001",
  "fix": {
    "confidence": 0,
    "suggestion": ""
  },
  "message": "binding \"x\": expected i32, found bool",
  "phase": "types",
  "schema": "capy.error/v1"
}`,
		},
		{
			name: "linker_error_with_fix",
			err: map[string]interface{}{
				"schema":  ErrorV1,
				"phase":   "link",
				"code":    "LNK001",
				"message": "external C toolchain not found on PATH",
				"fix": map[string]interface{}{
					"suggestion": "install a C compiler (cc, gcc, or clang) and retry",
					"confidence": 0.85,
				},
			},
			wantJSON: `{
  "code": "LNK001",
  "fix": {
    "confidence": 0.85,
    "suggestion": "install a C compiler (cc, gcc, or clang) and retry"
  },
  "message": "external C toolchain not found on PATH",
  "phase": "link",
  "schema": "capy.error/v1"
}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalDeterministic(tt.err)
			if err != nil {
				t.Fatalf("MarshalDeterministic() error = %v", err)
			}

			formatted, err := FormatJSON(got)
			if err != nil {
				t.Fatalf("FormatJSON() error = %v", err)
			}

			wantNorm := normalizeJSON(t, tt.wantJSON)
			gotNorm := normalizeJSON(t, string(formatted))

			if gotNorm != wantNorm {
				t.Errorf("JSON mismatch:\nGot:\n%s\nWant:\n%s", gotNorm, wantNorm)
			}

			var parsed map[string]interface{}
			if err := json.Unmarshal(got, &parsed); err != nil {
				t.Fatalf("Failed to parse JSON: %v", err)
			}

			if schemaField, ok := parsed["schema"].(string); ok {
				if !Accepts(schemaField, ErrorV1) {
					t.Errorf("Schema %q does not accept %q", schemaField, ErrorV1)
				}
			} else {
				t.Error("Missing schema field in JSON output")
			}
		})
	}
}

// TestGoldenCompactMode tests that compact mode works correctly
func TestGoldenCompactMode(t *testing.T) {
	data := map[string]interface{}{
		"schema": ErrorV1,
		"code":   "TYP001",
	}

	// Test pretty mode
	SetCompactMode(false)
	pretty, err := MarshalDeterministic(data)
	if err != nil {
		t.Fatalf("MarshalDeterministic error = %v", err)
	}
	prettyFormatted, err := FormatJSON(pretty)
	if err != nil {
		t.Fatalf("FormatJSON error = %v", err)
	}

	if !strings.Contains(string(prettyFormatted), "\n") {
		t.Error("Pretty mode should contain newlines")
	}

	// Test compact mode
	SetCompactMode(true)
	compact, err := MarshalDeterministic(data)
	if err != nil {
		t.Fatalf("MarshalDeterministic error = %v", err)
	}
	compactFormatted, err := FormatJSON(compact)
	if err != nil {
		t.Fatalf("FormatJSON error = %v", err)
	}

	if strings.Contains(string(compactFormatted), "\n") {
		t.Error("Compact mode should not contain newlines")
	}

	wantCompact := `{"code":"TYP001","schema":"capy.error/v1"}`
	if string(compactFormatted) != wantCompact {
		t.Errorf("Compact JSON mismatch:\nGot:  %s\nWant: %s", string(compactFormatted), wantCompact)
	}

	SetCompactMode(false)
}

// TestAcceptsCompatibility tests schema version compatibility
func TestAcceptsCompatibility(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		want     string
		expected bool
	}{
		{"exact error v1", "capy.error/v1", ErrorV1, true},
		{"exact manifest v1", "capy.manifest/v1", ManifestV1, true},

		{"error v1.1", "capy.error/v1.1", ErrorV1, true},
		{"manifest v1.2.3", "capy.manifest/v1.2.3", ManifestV1, true},

		{"error v2", "capy.error/v2", ErrorV1, false},
		{"manifest v2", "capy.manifest/v2", ManifestV1, false},

		{"wrong schema", "capy.manifest/v1", ErrorV1, false},
		{"wrong schema 2", "capy.error/v1", ManifestV1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Accepts(tt.got, tt.want); got != tt.expected {
				t.Errorf("Accepts(%q, %q) = %v, want %v", tt.got, tt.want, got, tt.expected)
			}
		})
	}
}

// normalizeJSON normalizes JSON for comparison by parsing and re-formatting
func normalizeJSON(t *testing.T, jsonStr string) string {
	var data interface{}
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		t.Fatalf("Invalid JSON: %v\nJSON: %s", err, jsonStr)
	}

	normalized, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		t.Fatalf("Failed to normalize JSON: %v", err)
	}

	return string(normalized)
}

package linker

import (
	"path/filepath"
	"testing"

	"github.com/capy-lang/capyc/internal/codegen"
	"github.com/capy-lang/capyc/internal/diagnostics"
)

func TestLinkMissingOutputPath(t *testing.T) {
	prog := &codegen.Program{Source: "int main(void) { return 0; }\n"}
	_, diag := Link(prog, Options{})
	if diag == nil {
		t.Fatal("expected a diagnostic for an empty OutputPath")
	}
	if diag.Code != diagnostics.INT001 {
		t.Fatalf("code = %s, want %s", diag.Code, diagnostics.INT001)
	}
}

func TestLinkMissingToolchain(t *testing.T) {
	prog := &codegen.Program{Source: "int main(void) { return 0; }\n"}
	dir := t.TempDir()
	_, diag := Link(prog, Options{CC: "capyc-no-such-cc-binary", OutputPath: filepath.Join(dir, "a.out")})
	if diag == nil {
		t.Fatal("expected a diagnostic for a missing toolchain")
	}
	if diag.Code != diagnostics.LNK001 {
		t.Fatalf("code = %s, want %s", diag.Code, diagnostics.LNK001)
	}
}

func TestCCArgsThreadsTargetTriple(t *testing.T) {
	args := ccArgs("/tmp/prog.capyobj.c", Options{OutputPath: "/tmp/prog", Target: "wasm32-unknown-wasi"})
	want := []string{"/tmp/prog.capyobj.c", "-o", "/tmp/prog", "-lc", "-target", "wasm32-unknown-wasi"}
	if len(args) != len(want) {
		t.Fatalf("ccArgs = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Fatalf("ccArgs = %v, want %v", args, want)
		}
	}
}

func TestCCArgsOmitsTargetWhenUnset(t *testing.T) {
	args := ccArgs("/tmp/prog.capyobj.c", Options{OutputPath: "/tmp/prog"})
	for _, a := range args {
		if a == "-target" {
			t.Fatalf("ccArgs = %v, did not expect -target with an empty Options.Target", args)
		}
	}
}

func TestDefaultOutputPath(t *testing.T) {
	cases := map[string]string{
		"/tmp/hello.capy":   "/tmp/hello",
		"main.capy":         "main",
		"/tmp/.hidden.capy": "/tmp/.hidden",
	}
	for in, want := range cases {
		if got := DefaultOutputPath(in); got != want {
			t.Errorf("DefaultOutputPath(%q) = %q, want %q", in, got, want)
		}
	}
}

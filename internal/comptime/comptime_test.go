package comptime

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/capy-lang/capyc/internal/hir"
	"github.com/capy-lang/capyc/internal/hirty"
	"github.com/capy-lang/capyc/internal/interner"
	"github.com/capy-lang/capyc/internal/parser"
	"github.com/capy-lang/capyc/internal/types"
)

// runMain parses, lowers, checks and interprets src's "main" binding,
// returning whatever it printed. Exercises evalIf/evalFor/evalSwitch
// directly rather than through internal/driver's own end-to-end tests,
// since those don't happen to touch loops or multi-case switches.
func runMain(t *testing.T, src string) string {
	t.Helper()
	p := parser.New(src, "t.capy")
	f := p.ParseFile()
	if len(p.Errors()) != 0 {
		t.Fatalf("parse errors: %v", p.Errors())
	}
	interns := interner.New()
	table := types.NewTable()
	l := hir.NewLowerer(interns, 0, "t.capy")
	mod := l.LowerFile(f)
	if l.Diagnostics().HasErrors() {
		t.Fatalf("lowering errors: %v", l.Diagnostics().Errors())
	}
	checker := hirty.NewChecker(table, nil)
	engine := NewEngine(checker, interns)
	checker.SetComptime(engine)
	checker.Check(mod)
	if checker.Diagnostics().HasErrors() {
		t.Fatalf("type errors: %v", checker.Diagnostics().Errors())
	}
	var out bytes.Buffer
	engine.SetOutput(&out)
	if diag := engine.RunMain(mod); diag != nil {
		t.Fatalf("runtime trap: %v", diag)
	}
	return out.String()
}

func TestEvalIfTakesTakenBranchOnly(t *testing.T) {
	got := runMain(t, `main :: () {
	if true {
		println(1)
	} else {
		println(2)
	}
}`)
	if got != "1\n" {
		t.Fatalf("got %q, want %q", got, "1\n")
	}
}

func TestEvalForWhileLoopAccumulates(t *testing.T) {
	got := runMain(t, `main :: () {
	i := 0
	n := 0
	for i < 5 {
		n += i
		i += 1
	}
	println(n)
}`)
	if got != "10\n" {
		t.Fatalf("got %q, want %q", got, "10\n")
	}
}

func TestEvalForInOverArraySumsElements(t *testing.T) {
	got := runMain(t, `main :: () {
	xs := i32.[1, 2, 3, 4]
	n := 0
	for x in xs {
		n += x
	}
	println(n)
}`)
	if got != "10\n" {
		t.Fatalf("got %q, want %q", got, "10\n")
	}
}

func TestEvalForBreakStopsLoop(t *testing.T) {
	got := runMain(t, `main :: () {
	i := 0
	for true {
		if i == 3 {
			break
		}
		i += 1
	}
	println(i)
}`)
	require.Equal(t, "3\n", got)
}

func TestEvalDeferRunsAfterReturnValueIsComputed(t *testing.T) {
	got := runMain(t, `f :: () i32 {
	defer println(2)
	println(1)
	return 0
}
main :: () {
	f()
}`)
	require.Equal(t, "1\n2\n", got, "a defer must run after the returning statement's own side effects, never before")
}

func TestEvalSwitchMatchesVariantAndBindsPayload(t *testing.T) {
	got := runMain(t, `E :: enum { A: i32, B: str }
main :: () {
	v := E.A.(7)
	switch v {
	case A(n) {
		println(n)
	}
	case B(s) {
		println(s)
	}
	}
}`)
	if got != "7\n" {
		t.Fatalf("got %q, want %q", got, "7\n")
	}
}

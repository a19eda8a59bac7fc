package hirty

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/capy-lang/capyc/internal/hir"
	"github.com/capy-lang/capyc/internal/interner"
	"github.com/capy-lang/capyc/internal/parser"
	"github.com/capy-lang/capyc/internal/types"
)

func mustCheck(t *testing.T, src string) (*Checker, *hir.Module) {
	t.Helper()
	p := parser.New(src, "t.capy")
	f := p.ParseFile()
	if len(p.Errors()) != 0 {
		t.Fatalf("parse errors: %v", p.Errors())
	}
	l := hir.NewLowerer(interner.New(), 0, "t.capy")
	mod := l.LowerFile(f)
	if l.Diagnostics().HasErrors() {
		t.Fatalf("lowering errors: %v", l.Diagnostics().Errors())
	}
	c := NewChecker(types.NewTable(), nil)
	c.Check(mod)
	return c, mod
}

func TestCheckInfersIntLiteralBinding(t *testing.T) {
	c, mod := mustCheck(t, `x :: 5`)
	if c.Diagnostics().HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", c.Diagnostics().Errors())
	}
	id, ok := c.NodeType(mod.Decls[0].NodeID_())
	if !ok {
		t.Fatalf("expected a recorded type for x")
	}
	if _, ok := c.table.Get(id).(*types.Int); !ok {
		t.Fatalf("expected x to infer as an int type, got %s", c.table.Get(id))
	}
}

func TestCheckForwardReferenceResolvesType(t *testing.T) {
	c, mod := mustCheck(t, `b :: a
a :: 5`)
	if c.Diagnostics().HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", c.Diagnostics().Errors())
	}
	bID, ok := c.NodeType(mod.Decls[0].NodeID_())
	if !ok {
		t.Fatalf("expected a recorded type for b")
	}
	if _, ok := c.table.Get(bID).(*types.Int); !ok {
		t.Fatalf("expected b to infer as an int type, got %s", c.table.Get(bID))
	}
}

func TestCheckCircularBindingReportsNAM003(t *testing.T) {
	c, _ := mustCheck(t, `a :: b
b :: a`)
	errs := c.Diagnostics().Errors()
	found := false
	for _, d := range errs {
		if d.Code == "NAM003" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a NAM003 diagnostic, got %v", errs)
	}
}

func TestCheckStructBindingRecordsTypeValue(t *testing.T) {
	c, mod := mustCheck(t, `Point :: struct { x: i32, y: i32 }
p : Point = Point.{ x = 1, y = 2 }`)
	if c.Diagnostics().HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", c.Diagnostics().Errors())
	}
	pointBinding := mod.Decls[0]
	if _, ok := c.bindingTypeValue[pointBinding.InternedName]; !ok {
		t.Fatalf("expected Point to be recorded as a type-valued binding")
	}
	pID, ok := c.NodeType(mod.Decls[1].NodeID_())
	if !ok {
		t.Fatalf("expected a recorded type for p")
	}
	if _, ok := c.table.Get(pID).(*types.Struct); !ok {
		t.Fatalf("expected p to infer as a struct type, got %s", c.table.Get(pID))
	}
}

func TestCheckArrayLengthFoldsConstInt(t *testing.T) {
	c, mod := mustCheck(t, `n :: 3
xs : [n]i32 = i32.[1, 2, 3]`)
	if c.Diagnostics().HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", c.Diagnostics().Errors())
	}
	xsID, ok := c.NodeType(mod.Decls[1].NodeID_())
	if !ok {
		t.Fatalf("expected a recorded type for xs")
	}
	arr, ok := c.table.Get(xsID).(*types.Array)
	if !ok {
		t.Fatalf("expected xs to infer as an array type, got %s", c.table.Get(xsID))
	}
	if arr.Length != 3 {
		t.Fatalf("expected array length 3, got %d", arr.Length)
	}
}

func TestCheckArgsGlobalInfersStringSlice(t *testing.T) {
	c, mod := mustCheck(t, `a :: args`)
	require.False(t, c.Diagnostics().HasErrors(), "did not expect diagnostics for the runtime args global: %v", c.Diagnostics().Errors())

	id, ok := c.NodeType(mod.Decls[0].NodeID_())
	require.True(t, ok, "expected a recorded type for a")

	sl, ok := c.table.Get(id).(*types.Slice)
	require.True(t, ok, "expected args to infer as a slice type, got %s", c.table.Get(id))
	_, ok = sl.Elem.(*types.String)
	require.True(t, ok, "expected args element type to be str, got %s", sl.Elem)
}

func TestCheckTypeMismatchReportsTYP001(t *testing.T) {
	c, _ := mustCheck(t, `x : bool = 5`)
	errs := c.Diagnostics().Errors()
	found := false
	for _, d := range errs {
		if d.Code == "TYP001" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a TYP001 diagnostic, got %v", errs)
	}
}

package codegen

import (
	"fmt"
	"strings"

	"github.com/capy-lang/capyc/internal/hir"
)

// expr renders b's initializer as a C expression for use in a top-level
// `static TYPE name = EXPR;` declaration. Literal/compound-literal shapes
// render as pure C constant expressions and return ok=true; anything that
// needs statements first (a call, an if-as-expression, a remaining
// comptime block materializing to a non-trivial load) instead renders its
// helper statements into a scratch buffer, which writeGlobal discards by
// falling back to a deferred initializer queued via queueInit — run by
// the synthesized capy_init() the entry trampoline calls before `main`
// (§4.5: module initialization proceeds in declaration order, matching
// mod.Decls).
func (g *Generator) expr(e hir.Expr) (string, bool) {
	var scratch strings.Builder
	fg := &funcGen{g: g, body: &scratch, locals: make(map[hir.NodeID]string)}
	result := fg.expr(e)
	if scratch.Len() == 0 {
		return result, true
	}
	return "", false
}

// queueInit lowers e into g.inits, the body of capy_init(), assigning the
// result to the already-declared global cname.
func (g *Generator) queueInit(cname string, e hir.Expr) {
	fg := &funcGen{g: g, body: &g.inits, locals: make(map[hir.NodeID]string)}
	v := fg.expr(e)
	fmt.Fprintf(&g.inits, "  %s = %s;\n", cname, v)
}

package hir

import (
	"fmt"

	"github.com/capy-lang/capyc/internal/ast"
	"github.com/capy-lang/capyc/internal/interner"
)

// ImportKind mirrors ast.ImportKind but resolved: a FileImport carries the
// lowered Module it points to, a RegistryImport carries the registry name
// the module resolver (internal/module) will fetch.
type ImportKind int

const (
	RegistryImport ImportKind = iota
	FileImport
)

type ImportSpec struct {
	Kind ImportKind
	Path string
	// Target is set once the module graph is resolved (§6); nil while an
	// import is still pending resolution.
	Target *Module
	Span   ast.Span
}

// Binding is a name-resolved top-level or block-local declaration. Unlike
// ast.Binding, DeclaredType and Init are already HIR expressions and the
// binding carries the interned Name for O(1) scope lookups.
type Binding struct {
	NodeMeta
	Name         string
	InternedName interner.Key
	Kind         ast.BindingKind
	DeclaredType Expr
	Init         Expr
}

func (b *Binding) String() string {
	op := "::"
	if b.Kind == ast.Mutable {
		op = ":="
	}
	return fmt.Sprintf("%s %s %s", b.Name, op, b.Init)
}

// Module is one lowered `.capy` source file: its own top-level scope plus
// the imports it depends on (§6 "Module graph").
type Module struct {
	ID      ModuleID
	Path    string
	Imports []*ImportSpec
	Decls   []*Binding

	// scope is the top-level name -> Binding map, used both during lowering
	// (for forward references between top-level decls, which this language
	// permits since order-independence is required of `::` bindings) and by
	// later passes resolving Var.Resolved.
	scope map[string]*Binding
}

func NewModule(id ModuleID, path string) *Module {
	return &Module{ID: id, Path: path, scope: make(map[string]*Binding)}
}

func (m *Module) Declare(b *Binding) {
	m.Decls = append(m.Decls, b)
	m.scope[b.Name] = b
}

func (m *Module) Lookup(name string) (*Binding, bool) {
	b, ok := m.scope[name]
	return b, ok
}

package hirty

import (
	"github.com/capy-lang/capyc/internal/diagnostics"
	"github.com/capy-lang/capyc/internal/hir"
	"github.com/capy-lang/capyc/internal/types"
)

// evalTypeExpr resolves a HIR expression known (by grammar position) to
// denote a type into a concrete types.ID. Struct/Enum/Pointer/Slice/Array/
// Distinct/Func forms are structural and resolved directly; a bare Var
// resolves through bindingTypeValue (the type-valued binding it names);
// an ArrayTypeExpr's Length must be a compile-time-known integer, folded
// via foldConstInt or, failing that, the injected ComptimeEvaluator.
func (c *Checker) evalTypeExpr(e hir.Expr) types.ID {
	if id, ok := c.typeExprMemo[e.NodeID_()]; ok {
		return id
	}
	id := c.evalTypeExprUncached(e)
	c.typeExprMemo[e.NodeID_()] = id
	return id
}

func (c *Checker) evalTypeExprUncached(e hir.Expr) types.ID {
	switch n := e.(type) {
	case *hir.Var:
		return c.resolveNamedType(n)
	case *hir.PointerTypeExpr:
		pointee := c.table.Get(c.evalTypeExpr(n.Pointee))
		return c.table.Intern(&types.Pointer{Pointee: pointee, Mutable: n.Mutable})
	case *hir.SliceTypeExpr:
		elem := c.table.Get(c.evalTypeExpr(n.Elem))
		return c.table.Intern(&types.Slice{Elem: elem})
	case *hir.ArrayTypeExpr:
		elem := c.table.Get(c.evalTypeExpr(n.Elem))
		length, ok := c.foldConstInt(n.Length)
		if !ok {
			c.errorf(diagnostics.PhaseConst, diagnostics.CNS001, n.Span(),
				"array length must be a compile-time-known integer")
			length = 0
		}
		return c.table.Intern(&types.Array{Elem: elem, Length: uint64(length)})
	case *hir.DistinctTypeExpr:
		underlying := c.table.Get(c.evalTypeExpr(n.Underlying))
		return c.table.Intern(&types.Distinct{Underlying: underlying, Tag: c.table.NewDistinctTag(), Name: "distinct"})
	case *hir.StructTypeExpr:
		members := make([]types.Member, len(n.Members))
		for i, m := range n.Members {
			members[i] = types.Member{Name: m.Name, Type: c.table.Get(c.evalTypeExpr(m.Type))}
		}
		st := types.LayoutStruct("anonymous", members)
		return c.table.Intern(st)
	case *hir.EnumTypeExpr:
		variants := make([]*types.Variant, len(n.Variants))
		nextDisc := uint8(0)
		for i, v := range n.Variants {
			var payload types.Type
			if v.Payload != nil {
				payload = c.table.Get(c.evalTypeExpr(v.Payload))
			}
			disc := nextDisc
			if v.Discriminant != nil {
				disc = uint8(*v.Discriminant)
			}
			variants[i] = &types.Variant{Name: v.Name, Payload: payload, Discriminant: disc}
			nextDisc = disc + 1
		}
		et := types.LayoutEnum("anonymous", variants)
		id := c.table.Intern(et)
		for _, v := range variants {
			c.table.Intern(v)
		}
		return id
	case *hir.FuncTypeExpr:
		params := make([]types.Type, len(n.Params))
		for i, p := range n.Params {
			params[i] = c.table.Get(c.evalTypeExpr(p))
		}
		var result types.Type = &types.Void{}
		if n.Result != nil {
			result = c.table.Get(c.evalTypeExpr(n.Result))
		}
		return c.table.Intern(&types.Function{Params: params, Result: result})
	case *hir.FieldExpr:
		return c.resolveEnumVariantType(n)
	default:
		c.errorf(diagnostics.PhaseTypes, diagnostics.TYP001, e.Span(), "expression is not usable as a type")
		return c.table.IDOf(&types.Void{})
	}
}

// resolveNamedType resolves a bare identifier in type position: first the
// fixed scalar built-ins, then a bound type-valued binding.
func (c *Checker) resolveNamedType(v *hir.Var) types.ID {
	if id, ok := builtinTypeByName(v.Name); ok {
		return c.table.IDOf(id)
	}
	if !v.Resolved.Ok {
		return c.table.IDOf(&types.Void{})
	}
	if id, ok := c.bindingTypeValue[v.Resolved.Name]; ok {
		return id
	}
	// Not yet typed: force inference of the referenced binding (on-demand
	// resolution, §4.3). Only the module's top-level declarations are
	// searched here, by interned name (Resolved.Decl is not consulted);
	// local (non-top-level) type bindings are expected to already be typed
	// by the time they're referenced, since HIR lowering processes a block
	// top-to-bottom.
	if c.mod != nil {
		for _, b := range c.mod.Decls {
			if b.InternedName == v.Resolved.Name {
				c.checkBinding(b)
				if id, ok := c.bindingTypeValue[v.Resolved.Name]; ok {
					return id
				}
			}
		}
	}
	c.errorf(diagnostics.PhaseTypes, diagnostics.TYP001, v.Span(), "%q does not name a type", v.Name)
	return c.table.IDOf(&types.Void{})
}

func (c *Checker) resolveEnumVariantType(f *hir.FieldExpr) types.ID {
	recvID := c.evalTypeExpr(f.Recv)
	en, ok := c.table.Get(recvID).(*types.Enum)
	if !ok {
		c.errorf(diagnostics.PhaseTypes, diagnostics.NAM002, f.Span(), "%q is not an enum", f.Recv)
		return c.table.IDOf(&types.Void{})
	}
	variant, ok := en.VariantByName(f.Field)
	if !ok {
		c.errorf(diagnostics.PhaseTypes, diagnostics.NAM002, f.Span(), "enum %q has no variant %q", en.Name, f.Field)
		return c.table.IDOf(&types.Void{})
	}
	return c.table.Intern(variant)
}

// typeValueOf reports whether e's evaluated *value* is itself a type (a
// struct/enum/pointer/etc. literal description or a reference to one),
// returning the types.ID it denotes. This is how a binding like
// `Point :: struct { x: i32, y: i32 }` gets recorded in bindingTypeValue.
func (c *Checker) typeValueOf(e hir.Expr) (types.ID, bool) {
	switch n := e.(type) {
	case *hir.StructTypeExpr, *hir.EnumTypeExpr, *hir.PointerTypeExpr,
		*hir.SliceTypeExpr, *hir.ArrayTypeExpr, *hir.DistinctTypeExpr, *hir.FuncTypeExpr:
		return c.evalTypeExpr(n), true
	case *hir.Var:
		if n.Resolved.Ok {
			if id, ok := c.bindingTypeValue[n.Resolved.Name]; ok {
				return id, true
			}
		}
		if id, ok := builtinTypeByName(n.Name); ok {
			return c.table.IDOf(id), true
		}
	case *hir.ComptimeExpr:
		if c.comptime == nil {
			return 0, false
		}
		cv, diag := c.comptime.Evaluate(n, c.table.IDOf(&types.MetaType{}))
		if diag != nil {
			c.diags.Add(diag)
			return 0, false
		}
		if cv.IsType {
			return cv.AsType, true
		}
	}
	return 0, false
}

func builtinTypeByName(name string) (types.Type, bool) {
	switch name {
	case "i8":
		return &types.Int{Bits: types.W8, Signed: true}, true
	case "i16":
		return &types.Int{Bits: types.W16, Signed: true}, true
	case "i32":
		return &types.Int{Bits: types.W32, Signed: true}, true
	case "i64":
		return &types.Int{Bits: types.W64, Signed: true}, true
	case "i128":
		return &types.Int{Bits: types.W128, Signed: true}, true
	case "isize":
		return &types.Int{Bits: types.WSize, Signed: true}, true
	case "u8":
		return &types.Int{Bits: types.W8, Signed: false}, true
	case "u16":
		return &types.Int{Bits: types.W16, Signed: false}, true
	case "u32":
		return &types.Int{Bits: types.W32, Signed: false}, true
	case "u64":
		return &types.Int{Bits: types.W64, Signed: false}, true
	case "u128":
		return &types.Int{Bits: types.W128, Signed: false}, true
	case "usize":
		return &types.Int{Bits: types.WSize, Signed: false}, true
	case "f32":
		return &types.Float{Bits: types.W32}, true
	case "f64":
		return &types.Float{Bits: types.W64}, true
	case "bool":
		return &types.Bool{}, true
	case "char":
		return &types.Char{}, true
	case "str":
		return &types.String{}, true
	case "void":
		return &types.Void{}, true
	case "type":
		return &types.MetaType{}, true
	case "any":
		return &types.Any{}, true
	case "rawptr":
		return &types.RawPtr{Mutable: false}, true
	case "rawptr_mut":
		return &types.RawPtr{Mutable: true}, true
	case "rawslice":
		return &types.RawSlice{}, true
	default:
		return nil, false
	}
}

package types

// ListType returns the canonical shape backing the stdlib List container
// (§9 "runtime polymorphism ... exclusively through any plus reflection
// (see List)"): a length/capacity pair over a raw pointer to a run of
// boxed `any` cells. One shape serves every element type — list.make(T)
// only remembers T for the comptime interpreter's own formatting, never
// for struct layout, since every element crosses the ABI boxed through
// Any. Table.Intern dedups structs by member shape, so every call site
// that asks for ListType gets back the same types.ID.
func ListType() *Struct {
	usize := &Int{Bits: WSize, Signed: false}
	return &Struct{
		Name: "List",
		Members: []Member{
			{Name: "len", Type: usize, Offset: 0},
			{Name: "cap", Type: usize, Offset: 8},
			{Name: "buf", Type: &RawPtr{Mutable: true}, Offset: 16},
		},
		Size:  24,
		Align: 8,
	}
}

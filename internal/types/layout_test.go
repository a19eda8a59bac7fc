package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSizeOfScalars(t *testing.T) {
	cases := []struct {
		ty   Type
		want uint64
	}{
		{&Int{Bits: W32, Signed: true}, 4},
		{&Int{Bits: W64, Signed: false}, 8},
		{&Bool{}, 1},
		{&Char{}, 4},
		{&String{}, 8},
		{&Void{}, 0},
	}
	for _, c := range cases {
		if got := SizeOf(c.ty); got != c.want {
			t.Errorf("SizeOf(%s) = %d, want %d", c.ty, got, c.want)
		}
	}
}

func TestStructLayoutOrderAndAlignment(t *testing.T) {
	s := LayoutStruct("Point", []Member{
		{Name: "x", Type: &Int{Bits: W32, Signed: true}},
		{Name: "y", Type: &Int{Bits: W32, Signed: true}},
	})
	if s.Size != 8 || s.Align != 4 {
		t.Fatalf("unexpected layout: size=%d align=%d", s.Size, s.Align)
	}
	want := []Member{
		{Name: "x", Type: &Int{Bits: W32, Signed: true}, Offset: 0},
		{Name: "y", Type: &Int{Bits: W32, Signed: true}, Offset: 4},
	}
	if diff := cmp.Diff(want, s.Members); diff != "" {
		t.Fatalf("member layout mismatch (-want +got):\n%s", diff)
	}
}

func TestStructLayoutPadding(t *testing.T) {
	s := LayoutStruct("Mixed", []Member{
		{Name: "a", Type: &Bool{}},
		{Name: "b", Type: &Int{Bits: W64, Signed: true}},
	})
	if s.Members[1].Offset != 8 {
		t.Fatalf("expected padding before 8-byte field, got offset %d", s.Members[1].Offset)
	}
	if s.Size != 16 {
		t.Fatalf("expected size rounded to align 8, got %d", s.Size)
	}
}

func TestEnumLayoutDiscriminantFollowsPayload(t *testing.T) {
	a := &Variant{Name: "A", Payload: &Int{Bits: W32, Signed: true}}
	b := &Variant{Name: "B", Payload: &String{}}
	e := LayoutEnum("E", []*Variant{a, b})
	if e.DiscriminantOffset != 8 {
		t.Fatalf("expected discriminant at offset 8 (max payload size), got %d", e.DiscriminantOffset)
	}
	if a.ParentEnum != e || b.ParentEnum != e {
		t.Fatalf("variants must point back to their owning enum")
	}
}

func TestTypeIdentityStructural(t *testing.T) {
	tbl := NewTable()
	a := tbl.Intern(&Slice{Elem: &Int{Bits: W32, Signed: true}})
	b := tbl.Intern(&Slice{Elem: &Int{Bits: W32, Signed: true}})
	if a != b {
		t.Fatalf("expected structurally-equal slice types to share an id")
	}
}

func TestDistinctTypesNeverCollapse(t *testing.T) {
	tbl := NewTable()
	tagA := tbl.NewDistinctTag()
	tagB := tbl.NewDistinctTag()
	a := tbl.Intern(&Distinct{Underlying: &Int{Bits: W32, Signed: true}, Tag: tagA, Name: "UserId"})
	b := tbl.Intern(&Distinct{Underlying: &Int{Bits: W32, Signed: true}, Tag: tagB, Name: "OrderId"})
	if a == b {
		t.Fatalf("two distinct declarations must never share an id even with identical underlying types")
	}
}

func TestArraySliceRoundTripByteLength(t *testing.T) {
	arr := &Array{Elem: &Int{Bits: W32, Signed: true}, Length: 6}
	sl := &Slice{Elem: &Int{Bits: W32, Signed: true}}
	if SizeOf(arr) != 24 {
		t.Fatalf("expected array size 24, got %d", SizeOf(arr))
	}
	// The slice *header* size is independent of the array's backing size;
	// round-trip fidelity (Testable Property 3) is about element bytes,
	// checked at the comptime/runtime value level, not here.
	if SizeOf(sl) != 16 {
		t.Fatalf("expected slice header size 16, got %d", SizeOf(sl))
	}
}

func TestReflectTableConsistency(t *testing.T) {
	tbl := NewTable()
	id := tbl.Intern(&Struct{Name: "Point", Members: []Member{
		{Name: "x", Type: &Int{Bits: W32, Signed: true}, Offset: 0},
		{Name: "y", Type: &Int{Bits: W32, Signed: true}, Offset: 4},
	}, Size: 8, Align: 4})
	rt := NewReflectTable(tbl)
	rec := rt.Get(id)
	if rec.Kind != RKStruct || rec.Size != 8 {
		t.Fatalf("unexpected reflect record: %+v", rec)
	}
}

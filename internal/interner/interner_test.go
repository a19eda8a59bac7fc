package interner

import "testing"

func TestInternDedup(t *testing.T) {
	in := New()
	a := in.Intern("hello")
	b := in.Intern("hello")
	if a != b {
		t.Fatalf("expected same key for repeated intern, got %d and %d", a, b)
	}
	if in.Lookup(a) != "hello" {
		t.Fatalf("lookup mismatch: %q", in.Lookup(a))
	}
}

func TestInternDistinct(t *testing.T) {
	in := New()
	a := in.Intern("foo")
	b := in.Intern("bar")
	if a == b {
		t.Fatalf("expected distinct keys, got %d for both", a)
	}
	if in.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", in.Len())
	}
}

func TestInternNormalizesUnicode(t *testing.T) {
	in := New()
	// "é" as a single NFC codepoint vs "e" + combining acute (NFD)
	nfc := in.Intern("éclair")
	nfd := in.Intern("éclair")
	if nfc != nfd {
		t.Fatalf("expected NFC-normalized identifiers to collide")
	}
}

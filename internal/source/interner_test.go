package source

import "testing"

func TestInternerReturnsStableIDs(t *testing.T) {
	in := NewInterner()
	a := in.Intern("prototype")
	b := in.Intern("default")
	if a == b {
		t.Fatalf("distinct strings share id %d", a)
	}
	if again := in.Intern("prototype"); again != a {
		t.Fatalf("re-intern changed id: %d != %d", again, a)
	}
	if in.Intern("") != NoStringID {
		t.Fatalf("empty string must map to NoStringID")
	}
	if s := in.MustLookup(b); s != "default" {
		t.Fatalf("MustLookup = %q", s)
	}
	if _, ok := in.Lookup(StringID(99)); ok {
		t.Fatalf("lookup of unknown id succeeded")
	}
	if id, ok := in.Find("default"); !ok || id != b {
		t.Fatalf("Find = %d,%v", id, ok)
	}
	if _, ok := in.Find("missing"); ok {
		t.Fatalf("Find interned a new string")
	}
	if in.Len() != 3 {
		t.Fatalf("Len = %d, want 3", in.Len())
	}
}

func TestInternerCopiesInput(t *testing.T) {
	in := NewInterner()
	buf := []byte("eval")
	id := in.Intern(string(buf))
	buf[0] = 'x'
	if got := in.MustLookup(id); got != "eval" {
		t.Fatalf("interned string changed to %q", got)
	}
}

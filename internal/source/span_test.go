package source

import "testing"

func TestSpanCover(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want Span
	}{
		{"disjoint", Span{File: 1, Start: 2, End: 4}, Span{File: 1, Start: 8, End: 9}, Span{File: 1, Start: 2, End: 9}},
		{"nested", Span{File: 1, Start: 2, End: 10}, Span{File: 1, Start: 4, End: 5}, Span{File: 1, Start: 2, End: 10}},
		{"other file", Span{File: 1, Start: 2, End: 4}, Span{File: 2, Start: 0, End: 9}, Span{File: 1, Start: 2, End: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.want {
				t.Fatalf("Cover() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpanContainsAndLen(t *testing.T) {
	outer := Span{File: 3, Start: 10, End: 20}
	if !outer.Contains(Span{File: 3, Start: 12, End: 20}) {
		t.Fatalf("expected inner span to be contained")
	}
	if outer.Contains(Span{File: 4, Start: 12, End: 13}) {
		t.Fatalf("span from another file must not be contained")
	}
	if outer.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", outer.Len())
	}
	if (Span{Start: 5, End: 5}).Empty() != true {
		t.Fatalf("expected empty span")
	}
}

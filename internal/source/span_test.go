package source

import (
	"testing"
)

func TestSpanCover(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Span
		expected Span
	}{
		{
			name:     "disjoint spans",
			a:        Span{File: 1, Start: 10, End: 20},
			b:        Span{File: 1, Start: 30, End: 40},
			expected: Span{File: 1, Start: 10, End: 40},
		},
		{
			name:     "nested span",
			a:        Span{File: 1, Start: 10, End: 40},
			b:        Span{File: 1, Start: 15, End: 20},
			expected: Span{File: 1, Start: 10, End: 40},
		},
		{
			name:     "other file is ignored",
			a:        Span{File: 1, Start: 10, End: 20},
			b:        Span{File: 2, Start: 0, End: 50},
			expected: Span{File: 1, Start: 10, End: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.expected {
				t.Errorf("Cover() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSpanHeadTail(t *testing.T) {
	sp := Span{File: 3, Start: 4, End: 9}
	if h := sp.Head(); h != (Span{File: 3, Start: 4, End: 4}) || !h.Empty() {
		t.Errorf("Head() = %v", h)
	}
	if tl := sp.Tail(); tl != (Span{File: 3, Start: 9, End: 9}) || !tl.Empty() {
		t.Errorf("Tail() = %v", tl)
	}
	if sp.Len() != 5 {
		t.Errorf("Len() = %d, want 5", sp.Len())
	}
	if !sp.Contains(4) || sp.Contains(9) {
		t.Errorf("Contains() is not half-open for %v", sp)
	}
	if sp.String() != "3:4-9" {
		t.Errorf("String() = %q", sp.String())
	}
}

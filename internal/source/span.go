package source

import "fmt"

// Span is the half-open byte range [Start, End) of one file.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) Empty() bool { return s.Start == s.End }

func (s Span) Len() uint32 { return s.End - s.Start }

func (s Span) String() string { return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End) }

// Cover widens s to include other. A span of another file leaves s as is.
func (s Span) Cover(other Span) Span {
	if s.File == other.File {
		s.Start = min(s.Start, other.Start)
		s.End = max(s.End, other.End)
	}
	return s
}

// Head is the empty span where s begins.
func (s Span) Head() Span {
	s.End = s.Start
	return s
}

// Tail is the empty span where s ends.
func (s Span) Tail() Span {
	s.Start = s.End
	return s
}

// Contains reports whether off lies inside s.
func (s Span) Contains(off uint32) bool { return s.Start <= off && off < s.End }

package source

import "fmt"

// Span is the half-open byte range [Start, End) of one file.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) Empty() bool { return s.End <= s.Start }

func (s Span) Len() uint32 {
	if s.Empty() {
		return 0
	}
	return s.End - s.Start
}

func (s Span) String() string { return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End) }

// Within reports whether s lies entirely inside outer.
func (s Span) Within(outer Span) bool {
	return s.File == outer.File && s.Start >= outer.Start && s.End <= outer.End
}

// Cover grows s to include other. Spans of different files do not merge.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	s.Start = min(s.Start, other.Start)
	s.End = max(s.End, other.End)
	return s
}

// Text returns the bytes under s, clamped to the content of f.
func (s Span) Text(f *File) string {
	if f == nil || s.File != f.ID {
		return ""
	}
	end := min(int(s.End), len(f.Content))
	start := min(int(s.Start), end)
	return string(f.Content[start:end])
}

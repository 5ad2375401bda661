// Package docpath models logical document paths such as
// `author.tags[_key=="t1"].label` or `body[2].text`.
package docpath

import (
	"fmt"
	"strconv"
	"strings"
)

// SegmentKind distinguishes the three addressing forms of a path segment.
type SegmentKind int

const (
	// FieldSegment addresses an object member by name.
	FieldSegment SegmentKind = iota
	// IndexSegment addresses an array element by position.
	IndexSegment
	// KeyedSegment addresses an array element by its stable _key.
	KeyedSegment
)

// Segment is one step of a Path.
type Segment struct {
	Kind  SegmentKind
	Name  string // field name for FieldSegment, key for KeyedSegment
	Index int    // position for IndexSegment
}

// Field returns a field segment.
func Field(name string) Segment { return Segment{Kind: FieldSegment, Name: name} }

// Index returns a positional array segment.
func Index(i int) Segment { return Segment{Kind: IndexSegment, Index: i} }

// Key returns a keyed array segment.
func Key(key string) Segment { return Segment{Kind: KeyedSegment, Name: key} }

// IsKeyed reports whether the segment addresses an array item by key.
func (s Segment) IsKeyed() bool { return s.Kind == KeyedSegment }

func (s Segment) String() string {
	switch s.Kind {
	case IndexSegment:
		return "[" + strconv.Itoa(s.Index) + "]"
	case KeyedSegment:
		return `[_key==` + strconv.Quote(s.Name) + `]`
	default:
		return s.Name
	}
}

// Path is an ordered sequence of segments. Paths are treated as immutable;
// Append always returns a fresh slice.
type Path []Segment

// String renders the canonical form used in tracker ids.
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if seg.Kind == FieldSegment && i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.String())
	}
	return b.String()
}

// Append returns a new path with segs added.
func (p Path) Append(segs ...Segment) Path {
	out := make(Path, 0, len(p)+len(segs))
	out = append(out, p...)
	return append(out, segs...)
}

// Last returns the final segment and false for an empty path.
func (p Path) Last() (Segment, bool) {
	if len(p) == 0 {
		return Segment{}, false
	}
	return p[len(p)-1], true
}

// HasPrefix reports whether every segment of prefix leads p.
func (p Path) HasPrefix(prefix Path) bool {
	return len(prefix) <= len(p) && NumEqualSegments(p, prefix) == len(prefix)
}

// Equal reports segment-wise equality.
func (p Path) Equal(other Path) bool {
	return len(p) == len(other) && NumEqualSegments(p, other) == len(p)
}

// NumEqualSegments counts the exactly equal leading segments of a and b.
func NumEqualSegments(a, b Path) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// Parse reads a path string. The empty string is the empty path.
// Keyed segments accept `[_key=="x"]`, `[_key=='x']`, `[_key==x]` and `[_key=x]`.
func Parse(s string) (Path, error) {
	var p Path
	i := 0
	for i < len(s) {
		switch c := s[i]; {
		case c == '.':
			if i == 0 || i+1 >= len(s) || s[i+1] == '.' || s[i+1] == '[' {
				return nil, fmt.Errorf("docpath: unexpected '.' at offset %d in %q", i, s)
			}
			i++
		case c == '[':
			end := closingBracket(s[i:])
			if end < 0 {
				return nil, fmt.Errorf("docpath: unterminated '[' at offset %d in %q", i, s)
			}
			seg, err := parseBracket(s[i+1 : i+end])
			if err != nil {
				return nil, fmt.Errorf("docpath: %w in %q", err, s)
			}
			p = append(p, seg)
			i += end + 1
			continue
		}

		start := i
		for i < len(s) && s[i] != '.' && s[i] != '[' {
			if s[i] == ']' {
				return nil, fmt.Errorf("docpath: unexpected ']' at offset %d in %q", i, s)
			}
			i++
		}
		if start == i {
			continue
		}
		p = append(p, Field(s[start:i]))
	}
	return p, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// closingBracket returns the offset of the ']' closing the '[' at s[0], or
// -1. Brackets inside a quoted key do not count, and a backslash escapes the
// next byte within quotes.
func closingBracket(s string) int {
	var quote byte
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0 && c == '\\':
			i++
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == ']':
			return i
		}
	}
	return -1
}

func parseBracket(inner string) (Segment, error) {
	inner = strings.TrimSpace(inner)
	if rest, ok := strings.CutPrefix(inner, "_key"); ok {
		rest = strings.TrimSpace(rest)
		if r, ok := strings.CutPrefix(rest, "=="); ok {
			rest = r
		} else if r, ok := strings.CutPrefix(rest, "="); ok {
			rest = r
		} else {
			return Segment{}, fmt.Errorf("malformed key segment [%s]", inner)
		}
		key := unquote(strings.TrimSpace(rest))
		if key == "" {
			return Segment{}, fmt.Errorf("empty key in [%s]", inner)
		}
		return Key(key), nil
	}
	n, err := strconv.Atoi(inner)
	if err != nil || n < 0 {
		return Segment{}, fmt.Errorf("invalid index [%s]", inner)
	}
	return Index(n), nil
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			if s[0] == '"' {
				if u, err := strconv.Unquote(s); err == nil {
					return u
				}
			}
			return s[1 : len(s)-1]
		}
	}
	return s
}

package docpath

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Path
	}{
		{name: "empty", input: "", want: nil},
		{name: "single field", input: "title", want: Path{Field("title")}},
		{name: "nested fields", input: "a.b.c", want: Path{Field("a"), Field("b"), Field("c")}},
		{name: "index", input: "body[2].text", want: Path{Field("body"), Index(2), Field("text")}},
		{name: "leading index", input: "[0].x", want: Path{Index(0), Field("x")}},
		{name: "keyed double quotes", input: `tags[_key=="t1"]`, want: Path{Field("tags"), Key("t1")}},
		{name: "keyed single quotes", input: `tags[_key=='t1']`, want: Path{Field("tags"), Key("t1")}},
		{name: "keyed bare", input: `tags[_key==t1]`, want: Path{Field("tags"), Key("t1")}},
		{name: "keyed single equals", input: `a.b[_key=x]`, want: Path{Field("a"), Field("b"), Key("x")}},
		{name: "keyed then field", input: `a[_key=="k"].label`, want: Path{Field("a"), Key("k"), Field("label")}},
		{name: "bracket inside quoted key", input: `tags[_key=="x]y"]`, want: Path{Field("tags"), Key("x]y")}},
		{name: "bracket inside single quoted key", input: `tags[_key=='a]b'].c`, want: Path{Field("tags"), Key("a]b"), Field("c")}},
		{name: "escaped quote in key", input: `tags[_key=="a\"]b"]`, want: Path{Field("tags"), Key(`a"]b`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, input := range []string{".a", "a.", "a..b", "a[", "a[x]", "a[-1]", "a]", "a[_key==]", "a[_key>x]", `a[_key=="x]`} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			require.Error(t, err)
		})
	}
}

func TestPath_String(t *testing.T) {
	p := Path{Field("a"), Key("x"), Index(3), Field("b")}
	require.Equal(t, `a[_key=="x"][3].b`, p.String())
	require.Equal(t, "", Path(nil).String())
}

func TestNumEqualSegments(t *testing.T) {
	a := MustParse(`a.b[_key=="x"].c`)

	require.Equal(t, 4, NumEqualSegments(a, a))
	require.Equal(t, 2, NumEqualSegments(a, MustParse("a.b")))
	require.Equal(t, 2, NumEqualSegments(a, MustParse(`a.b[_key=="y"].c`)))
	require.Equal(t, 0, NumEqualSegments(a, MustParse("z.b")))
	require.Equal(t, 0, NumEqualSegments(a, nil))
	require.Equal(t, 1, NumEqualSegments(MustParse("a[0]"), MustParse("a[1]")))
}

func TestPath_AppendDoesNotAlias(t *testing.T) {
	base := make(Path, 1, 4)
	base[0] = Field("a")

	left := base.Append(Field("b"))
	right := base.Append(Field("c"))

	require.Equal(t, "a.b", left.String())
	require.Equal(t, "a.c", right.String())
}

func TestPath_HasPrefix(t *testing.T) {
	p := MustParse("a.b.c")
	require.True(t, p.HasPrefix(MustParse("a.b")))
	require.True(t, p.HasPrefix(nil))
	require.False(t, p.HasPrefix(MustParse("a.c")))
	require.False(t, MustParse("a").HasPrefix(p))
}

func segmentGen() *rapid.Generator[Segment] {
	return rapid.Custom(func(t *rapid.T) Segment {
		switch rapid.IntRange(0, 2).Draw(t, "kind") {
		case 0:
			return Field(rapid.StringMatching(`[a-z][a-zA-Z0-9_]{0,6}`).Draw(t, "field"))
		case 1:
			return Index(rapid.IntRange(0, 500).Draw(t, "index"))
		default:
			return Key(rapid.OneOf(
				rapid.StringMatching(`[a-zA-Z0-9\[\]"'\\.= _-]{1,8}`),
				rapid.StringN(1, 8, -1),
			).Draw(t, "key"))
		}
	})
}

// TestPath_RoundTrip checks that the canonical string form parses back to
// the same path.
func TestPath_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := Path(rapid.SliceOfN(segmentGen(), 0, 8).Draw(t, "path"))

		got, err := Parse(p.String())
		if err != nil {
			t.Fatalf("parse %q: %v", p.String(), err)
		}
		if !got.Equal(p) {
			t.Fatalf("round trip mismatch: %q -> %q", p.String(), got.String())
		}
	})
}

func TestCache_Parse(t *testing.T) {
	c := NewCache(DefaultExpiration, DefaultCleanupInterval)

	first, err := c.Parse("a.b")
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	second, err := c.Parse("a.b")
	require.NoError(t, err)
	require.Equal(t, first, second)

	_, err = c.Parse("a[")
	require.Error(t, err)
	require.Equal(t, 1, c.Len(), "failed parses are not cached")

	c.Flush()
	require.Equal(t, 0, c.Len())
}

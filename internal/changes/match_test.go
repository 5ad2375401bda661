package changes

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/tether/internal/docpath"
	"github.com/zjrosen/tether/internal/layout"
)

func field(path string) Entry {
	p := docpath.MustParse(path)
	return Entry{ID: FieldID(p), Value: TrackedChange{Element: layout.NewBox(path), Path: p}}
}

func change(path string) Entry {
	p := docpath.MustParse(path)
	return Entry{ID: ChangeID(p), Value: TrackedChange{Element: layout.NewBox(path), Path: p}}
}

func findID(t *testing.T, kind, id string, entries ...Entry) string {
	t.Helper()
	got, ok := FindMostSpecificTarget(kind, id, entries)
	if !ok {
		return ""
	}
	return got.ID
}

func TestFindMostSpecificTarget_ExactWins(t *testing.T) {
	entries := []Entry{field("a"), field("a.b"), field("a.b.c")}
	require.Equal(t, "field-a.b", findID(t, FieldKind, "field-a.b", entries...))
}

func TestFindMostSpecificTarget_ExactMatchUsesCanonicalForm(t *testing.T) {
	entries := []Entry{field(`tags[_key=="x"]`)}
	require.Equal(t, `field-tags[_key=="x"]`, findID(t, FieldKind, "field-tags[_key=x]", entries...))
}

func TestFindMostSpecificTarget_KeyWithBracket(t *testing.T) {
	p := docpath.Path{docpath.Field("tags"), docpath.Key("x]y")}
	entries := []Entry{field("tags"), {ID: FieldID(p), Value: TrackedChange{Element: layout.NewBox("item"), Path: p}}}
	require.Equal(t, FieldID(p), findID(t, FieldKind, FieldID(p), entries...))
}

func TestFindMostSpecificTarget_KeyedItemFallsBackToArray(t *testing.T) {
	entries := []Entry{field("a.b")}
	require.Equal(t, "field-a.b", findID(t, FieldKind, "field-a.b[_key=x]", entries...))
}

func TestFindMostSpecificTarget_ArrayResolvesToKeyedItem(t *testing.T) {
	entries := []Entry{change(`a.b[_key=="x"]`)}
	require.Equal(t, `change-a.b[_key=="x"]`, findID(t, ChangeKind, "change-a.b", entries...))
}

func TestFindMostSpecificTarget_DeepestAncestor(t *testing.T) {
	entries := []Entry{field("a.b"), field("a"), field("z")}
	require.Equal(t, "field-a.b", findID(t, FieldKind, "field-a.b.c.d", entries...))
}

func TestFindMostSpecificTarget_PartialDivergenceIsNoMatch(t *testing.T) {
	entries := []Entry{field("a.c"), field("a[1]")}
	require.Equal(t, "", findID(t, FieldKind, "field-a.b", entries...))
	require.Equal(t, "", findID(t, FieldKind, "field-a[0]", entries...))
}

func TestFindMostSpecificTarget_NoRelatedEntries(t *testing.T) {
	entries := []Entry{change("a.b"), field("x.y")}
	require.Equal(t, "", findID(t, FieldKind, "field-a.b", entries...))
	require.Equal(t, "", findID(t, FieldKind, "field-a.b"))
}

func TestFindMostSpecificTarget_IgnoresOtherKindsAndAreas(t *testing.T) {
	p := docpath.MustParse("a")
	entries := []Entry{
		{ID: "fieldset-a", Value: TrackedChange{Path: p}},
		{ID: "field-area", Value: TrackedArea{}},
		{ID: ChangesPanelID, Value: TrackedArea{}},
	}
	require.Equal(t, "", findID(t, FieldKind, "field-a.b", entries...))
}

func TestFindMostSpecificTarget_TieGoesToNewest(t *testing.T) {
	entries := []Entry{field(`a[_key=="x"]`), field(`a[_key=="y"]`)}
	require.Equal(t, `field-a[_key=="y"]`, findID(t, FieldKind, "field-a", entries...))

	entries = []Entry{change("list"), change("other"), change("list.sub")}
	require.Equal(t, "change-list.sub", findID(t, ChangeKind, "change-list.sub.leaf", entries...))
}

func TestFindMostSpecificTarget_InvalidOrEmpty(t *testing.T) {
	entries := []Entry{field("a")}
	require.Equal(t, "", findID(t, FieldKind, "field-a[", entries...))
	require.Equal(t, "", findID(t, FieldKind, "field-", entries...))
}

// TestFindMostSpecificTarget_ExactAlwaysWins checks that whatever else the
// table holds, an entry with exactly the requested path is returned.
func TestFindMostSpecificTarget_ExactAlwaysWins(t *testing.T) {
	segment := rapid.Custom(func(t *rapid.T) docpath.Segment {
		switch rapid.IntRange(0, 2).Draw(t, "kind") {
		case 0:
			return docpath.Field(rapid.SampledFrom([]string{"a", "b", "c"}).Draw(t, "field"))
		case 1:
			return docpath.Index(rapid.IntRange(0, 2).Draw(t, "index"))
		default:
			return docpath.Key(rapid.SampledFrom([]string{"x", "y"}).Draw(t, "key"))
		}
	})
	pathGen := rapid.Custom(func(t *rapid.T) docpath.Path {
		return docpath.Path(rapid.SliceOfN(segment, 1, 4).Draw(t, "segments"))
	})

	rapid.Check(t, func(t *rapid.T) {
		requested := pathGen.Draw(t, "requested")
		others := rapid.SliceOfN(pathGen, 0, 8).Draw(t, "others")

		seen := map[string]bool{FieldID(requested): true}
		var entries []Entry
		for _, p := range others {
			if seen[FieldID(p)] {
				continue
			}
			seen[FieldID(p)] = true
			entries = append(entries, Entry{ID: FieldID(p), Value: TrackedChange{Path: p}})
		}
		pos := rapid.IntRange(0, len(entries)).Draw(t, "position")
		exact := Entry{ID: FieldID(requested), Value: TrackedChange{Path: requested}}
		entries = append(entries[:pos], append([]Entry{exact}, entries[pos:]...)...)

		got, ok := FindMostSpecificTarget(FieldKind, FieldID(requested), entries)
		if !ok || got.ID != exact.ID {
			t.Fatalf("expected %q, got %q (ok=%v)", exact.ID, got.ID, ok)
		}
	})
}

func TestEqual(t *testing.T) {
	box := layout.NewBox("row")
	a := TrackedChange{Element: box, Path: docpath.MustParse("a.b"), IsChanged: true}
	b := TrackedChange{Element: box, Path: docpath.MustParse("a.b"), IsChanged: true}
	require.True(t, Equal(a, b))

	b.HasHover = true
	require.False(t, Equal(a, b))

	require.True(t, Equal(TrackedArea{Element: box}, TrackedArea{Element: box}))
	require.False(t, Equal(TrackedArea{Element: box}, a))
	require.False(t, Equal(a, TrackedArea{Element: box}))
	require.True(t, Equal(nil, nil))
}

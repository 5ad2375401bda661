package changes

import (
	"strings"

	"github.com/zjrosen/tether/internal/docpath"
	"github.com/zjrosen/tether/internal/log"
)

// FindMostSpecificTarget resolves requestedID to the tracked entry of the
// given kind that best represents it.
//
// An entry with exactly the requested path wins outright. Otherwise an entry
// matches when its path is a prefix of the requested path, or when it is one
// keyed array item below the requested path (a new array item exists as a
// change before it exists as a field, and the reverse). Among matches the
// one sharing the most leading segments wins; ties go to the most recently
// registered entry. The second result is false when nothing matches.
func FindMostSpecificTarget(kind, requestedID string, entries []Entry) (Entry, bool) {
	prefix := kind + "-"
	requested, err := docpath.ParseCached(strings.TrimPrefix(requestedID, prefix))
	if err != nil {
		log.Debug(log.CatOverlay, "unparseable tracker id", "id", requestedID, "error", err)
		return Entry{}, false
	}

	exact := prefix + requested.String()
	for _, e := range entries {
		if e.ID == exact {
			return e, true
		}
	}

	var best Entry
	bestCount := 0
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if !strings.HasPrefix(e.ID, prefix) {
			continue
		}
		tc, ok := e.Value.(TrackedChange)
		if !ok || len(tc.Path) == 0 {
			continue
		}

		n := docpath.NumEqualSegments(requested, tc.Path)
		if n == 0 {
			continue
		}
		if n != len(tc.Path) && !isKeyedChildOf(tc.Path, n) {
			continue
		}
		if n == len(requested) {
			return e, true
		}
		if n > bestCount {
			best, bestCount = e, n
		}
	}
	return best, bestCount > 0
}

// isKeyedChildOf reports whether p ends in a keyed segment directly below
// its first n segments.
func isKeyedChildOf(p docpath.Path, n int) bool {
	last, ok := p.Last()
	return ok && last.IsKeyed() && n == len(p)-1
}

// Package changes defines the change-indicator scope: the values form rows
// and change rows report, and the path matcher that pairs them.
package changes

import (
	"github.com/zjrosen/tether/internal/docpath"
	"github.com/zjrosen/tether/internal/layout"
	"github.com/zjrosen/tether/internal/tracker"
)

// Id prefixes. Ids are "<kind>-<path>", e.g. `field-author.name`.
const (
	FieldKind  = "field"
	ChangeKind = "change"
)

// ChangesPanelID is the id the changes panel area registers under.
const ChangesPanelID = "changesPanel"

// Reported is a value registered in the change-indicator scope: either a
// TrackedChange or a TrackedArea.
type Reported interface {
	Handle() *layout.Box
}

// TrackedChange is reported by every form field row and change row.
type TrackedChange struct {
	Element        *layout.Box
	Path           docpath.Path
	IsChanged      bool
	HasFocus       bool
	HasHover       bool
	HasRevertHover bool
	ZIndex         int
}

// Handle implements Reported.
func (c TrackedChange) Handle() *layout.Box { return c.Element }

// TrackedArea is reported by containers the overlay positions itself against.
type TrackedArea struct {
	Element *layout.Box
}

// Handle implements Reported.
func (a TrackedArea) Handle() *layout.Box { return a.Element }

// Entry and Snapshot specialize the tracker types for this scope.
type (
	Entry    = tracker.Entry[Reported]
	Snapshot = tracker.Snapshot[Reported]
	Binding  = tracker.Binding[Reported]
)

// Indicators is the change-indicator scope factory.
var Indicators = tracker.NewFactory[Reported]("change-indicators")

// Equal is the registration equality for Reported values.
func Equal(prev, next Reported) bool {
	switch p := prev.(type) {
	case TrackedChange:
		n, ok := next.(TrackedChange)
		return ok &&
			p.Element == n.Element &&
			p.Path.Equal(n.Path) &&
			p.IsChanged == n.IsChanged &&
			p.HasFocus == n.HasFocus &&
			p.HasHover == n.HasHover &&
			p.HasRevertHover == n.HasRevertHover &&
			p.ZIndex == n.ZIndex
	case TrackedArea:
		n, ok := next.(TrackedArea)
		return ok && p.Element == n.Element
	default:
		return prev == nil && next == nil
	}
}

// FieldID returns the form-side id for p.
func FieldID(p docpath.Path) string { return FieldKind + "-" + p.String() }

// ChangeID returns the changes-side id for p.
func ChangeID(p docpath.Path) string { return ChangeKind + "-" + p.String() }

package tracker

import "reflect"

// Equal decides whether a newly computed value differs from the one last
// written. Returning true suppresses the write.
type Equal[V any] func(prev, next V) bool

// Identity compares with ==. Values whose dynamic type is not comparable
// are always treated as changed.
func Identity[V any](prev, next V) bool {
	a, b := any(prev), any(next)
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if !reflect.TypeOf(a).Comparable() || !reflect.TypeOf(b).Comparable() {
		return false
	}
	return a == b
}

type writer[V any] interface {
	Add(id string, value V)
	Update(id string, value V)
	Remove(id string)
}

// Registration keeps one leaf's entry in sync with the table: add on the
// first report, update when the value changes, remove on Close.
//
// Report must be called after the layout pass committed geometry, since
// values routinely carry element handles whose positions are read later.
type Registration[V any] struct {
	w       writer[V]
	isEqual Equal[V]

	id      string
	prev    V
	mounted bool
}

func newRegistration[V any](w writer[V], isEqual Equal[V]) *Registration[V] {
	if isEqual == nil {
		isEqual = Identity[V]
	}
	return &Registration[V]{w: w, isEqual: isEqual}
}

// Report registers value under id. An empty id opts out and removes any
// previous entry. The thunk is only invoked when id is non-empty.
func (r *Registration[V]) Report(id string, value func() V) {
	if r == nil || r.w == nil {
		return
	}

	if r.mounted && id != r.id {
		r.w.Remove(r.id)
		r.mounted = false
		var zero V
		r.prev = zero
	}
	r.id = id
	if id == "" {
		return
	}

	next := value()
	if !r.mounted {
		r.w.Add(id, next)
		r.prev = next
		r.mounted = true
		return
	}
	if !r.isEqual(r.prev, next) {
		r.w.Update(id, next)
		r.prev = next
	}
}

// ReportValue is Report with an already computed value.
func (r *Registration[V]) ReportValue(id string, value V) {
	r.Report(id, func() V { return value })
}

// ID returns the id currently registered, or "" when not mounted.
func (r *Registration[V]) ID() string {
	if r == nil || !r.mounted {
		return ""
	}
	return r.id
}

// Close removes the entry. The registration can be reused by calling Report again.
func (r *Registration[V]) Close() {
	if r == nil || r.w == nil {
		return
	}
	if r.mounted {
		r.w.Remove(r.id)
	}
	r.mounted = false
	r.id = ""
	var zero V
	r.prev = zero
}

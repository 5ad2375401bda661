package tracker

import (
	"strconv"
	"sync/atomic"
)

// SequentialIDs hands out synthetic ids for leaves that have no natural
// identity ("tracked-1", "tracked-2", ...).
type SequentialIDs struct {
	prefix string
	n      atomic.Uint64
}

// NewSequentialIDs creates a generator. The prefix is used verbatim.
func NewSequentialIDs(prefix string) *SequentialIDs {
	return &SequentialIDs{prefix: prefix}
}

// Next returns the next id.
func (s *SequentialIDs) Next() string {
	return s.prefix + strconv.FormatUint(s.n.Add(1), 10)
}

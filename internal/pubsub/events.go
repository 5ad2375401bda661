// Package pubsub carries coalesced snapshots and log entries from
// background goroutines into the Bubble Tea loop.
package pubsub

import "time"

// EventType tags what a published payload is.
type EventType string

const (
	// SnapshotEvent carries a full point-in-time copy of a table.
	SnapshotEvent EventType = "snapshot"
	// EntryEvent carries one appended record, such as a log line.
	EntryEvent EventType = "entry"
)

// Event is one delivery to a subscriber.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Overflow decides what happens when a subscriber channel is full.
type Overflow int

const (
	// DropNewest discards the event being published.
	DropNewest Overflow = iota
	// DropOldest discards the oldest buffered event to make room, so a slow
	// subscriber always ends up holding the most recent state.
	DropOldest
)

package tracker

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/tether/internal/pubsub"
)

// SnapshotMsg delivers a coalesced publish into the Bubble Tea loop.
type SnapshotMsg[V any] struct {
	Source   string
	Snapshot Snapshot[V]
}

// Consumer bridges a scope's debounced publishes into tea messages. Only
// the newest pending snapshot is kept, so a slow update loop never works
// through a backlog of stale tables.
type Consumer[V any] struct {
	source      string
	broker      *pubsub.Broker[Snapshot[V]]
	listener    *pubsub.ContinuousListener[Snapshot[V]]
	unsubscribe func()
	current     Snapshot[V]
}

// NewConsumer subscribes to b. The current table is read synchronously so
// the first frame does not wait for a publish. Cancel ctx or call Close to stop.
func NewConsumer[V any](ctx context.Context, b Binding[V]) *Consumer[V] {
	c := &Consumer[V]{
		source:  b.ID(),
		broker:  pubsub.NewLatestBroker[Snapshot[V]](),
		current: b.Snapshot(),
	}
	c.listener = pubsub.NewMappedListener(ctx, c.broker, func(e pubsub.Event[Snapshot[V]]) tea.Msg {
		return SnapshotMsg[V]{Source: c.source, Snapshot: e.Payload}
	})
	c.unsubscribe = b.Subscribe(func(s Snapshot[V]) {
		c.broker.Publish(pubsub.SnapshotEvent, s)
	})
	return c
}

// Listen returns a command waiting for the next publish. Issue it again
// after every SnapshotMsg.
func (c *Consumer[V]) Listen() tea.Cmd {
	return c.listener.Listen()
}

// Accept records msg if it belongs to this consumer and is newer than the
// snapshot already held. It reports whether the caller should re-render.
func (c *Consumer[V]) Accept(msg SnapshotMsg[V]) bool {
	if msg.Source != c.source || msg.Snapshot.Generation <= c.current.Generation {
		return false
	}
	c.current = msg.Snapshot
	return true
}

// Source returns the id of the scope this consumer reads.
func (c *Consumer[V]) Source() string { return c.source }

// Current returns the latest accepted snapshot.
func (c *Consumer[V]) Current() Snapshot[V] { return c.current }

// Refresh replaces the held snapshot with a synchronous read.
func (c *Consumer[V]) Refresh(b Binding[V]) {
	c.current = b.Snapshot()
}

// Close unsubscribes from the scope.
func (c *Consumer[V]) Close() {
	c.unsubscribe()
	c.broker.Close()
}

package pubsub

import (
	"context"
	"sync"
	"time"
)

const defaultBufferSize = 64

// Broker fans published events out to every subscriber. Publish never
// blocks; a full subscriber loses an event according to the Overflow policy.
type Broker[T any] struct {
	mu       sync.Mutex
	subs     map[chan Event[T]]func() bool
	closed   bool
	buffer   int
	overflow Overflow
}

// NewBroker creates a broker whose subscribers buffer 64 events and drop
// new ones when full.
func NewBroker[T any]() *Broker[T] {
	return NewBrokerWithBuffer[T](defaultBufferSize)
}

// NewBrokerWithBuffer creates a broker with a custom per-subscriber buffer.
func NewBrokerWithBuffer[T any](size int) *Broker[T] {
	return &Broker[T]{
		subs:   make(map[chan Event[T]]func() bool),
		buffer: max(size, 1),
	}
}

// NewLatestBroker creates a broker for state snapshots: each subscriber holds
// at most one pending event and a newer publish replaces it.
func NewLatestBroker[T any]() *Broker[T] {
	b := NewBrokerWithBuffer[T](1)
	b.overflow = DropOldest
	return b
}

// Subscribe returns a channel of events. It is closed when ctx is done or
// the broker is closed; subscribing to a closed broker yields a closed
// channel.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := make(chan Event[T], b.buffer)
	if b.closed {
		close(sub)
		return sub
	}
	b.subs[sub] = context.AfterFunc(ctx, func() { b.unsubscribe(sub) })
	return sub
}

func (b *Broker[T]) unsubscribe(sub chan Event[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[sub]; !ok {
		return
	}
	delete(b.subs, sub)
	close(sub)
}

// Publish stamps payload and delivers it to all subscribers.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	// DropOldest receives from subscriber channels, so delivery holds the
	// lock for the whole fan-out.
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	event := Event[T]{Type: eventType, Payload: payload, Timestamp: time.Now()}
	for sub := range b.subs {
		b.deliver(sub, event)
	}
}

func (b *Broker[T]) deliver(sub chan Event[T], event Event[T]) {
	select {
	case sub <- event:
		return
	default:
	}
	if b.overflow != DropOldest {
		return
	}
	select {
	case <-sub:
	default:
	}
	select {
	case sub <- event:
	default:
	}
}

// Close closes every subscriber channel. Later calls are no-ops.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for sub, stop := range b.subs {
		stop()
		close(sub)
	}
	clear(b.subs)
}

// SubscriberCount returns the number of open subscriptions.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

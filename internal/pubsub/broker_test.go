package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func recv[T any](t *testing.T, ch <-chan Event[T]) Event[T] {
	t.Helper()
	select {
	case e, ok := <-ch:
		require.True(t, ok, "channel closed")
		return e
	case <-time.After(time.Second):
		require.Fail(t, "timeout waiting for event")
		return Event[T]{}
	}
}

func requireEmpty[T any](t *testing.T, ch <-chan Event[T]) {
	t.Helper()
	select {
	case e, ok := <-ch:
		require.False(t, ok, "unexpected event %+v", e)
	default:
	}
}

func requireClosed[T any](t *testing.T, ch <-chan Event[T]) {
	t.Helper()
	select {
	case _, ok := <-ch:
		require.False(t, ok, "channel should be closed")
	case <-time.After(time.Second):
		require.Fail(t, "channel was not closed")
	}
}

func TestBroker_FansOutToEverySubscriber(t *testing.T) {
	b := NewBroker[string]()
	defer b.Close()

	subs := []<-chan Event[string]{
		b.Subscribe(context.Background()),
		b.Subscribe(context.Background()),
	}
	require.Equal(t, 2, b.SubscriberCount())

	b.Publish(EntryEvent, "tracker ready")

	for _, ch := range subs {
		e := recv(t, ch)
		require.Equal(t, "tracker ready", e.Payload)
		require.Equal(t, EntryEvent, e.Type)
		require.False(t, e.Timestamp.IsZero())
	}
}

func TestBroker_KeepsPublishOrder(t *testing.T) {
	b := NewBroker[int]()
	defer b.Close()
	ch := b.Subscribe(context.Background())

	for i := 1; i <= 5; i++ {
		b.Publish(EntryEvent, i)
	}
	for i := 1; i <= 5; i++ {
		require.Equal(t, i, recv(t, ch).Payload)
	}
}

func TestBroker_CancelledContextUnsubscribes(t *testing.T) {
	b := NewBroker[string]()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := b.Subscribe(ctx)
	require.Equal(t, 1, b.SubscriberCount())

	cancel()
	requireClosed(t, ch)
	require.Eventually(t, func() bool { return b.SubscriberCount() == 0 }, time.Second, time.Millisecond)

	b.Publish(EntryEvent, "after cancel") // no panic on the closed channel
}

func TestBroker_FullSubscriberDropsNewest(t *testing.T) {
	b := NewBrokerWithBuffer[int](1)
	defer b.Close()
	ch := b.Subscribe(context.Background())

	done := make(chan struct{})
	go func() {
		b.Publish(EntryEvent, 1)
		b.Publish(EntryEvent, 2)
		b.Publish(EntryEvent, 3)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		require.Fail(t, "Publish blocked on a full subscriber")
	}

	require.Equal(t, 1, recv(t, ch).Payload)
	requireEmpty(t, ch)
}

func TestLatestBroker_KeepsMostRecent(t *testing.T) {
	b := NewLatestBroker[uint64]()
	defer b.Close()
	ch := b.Subscribe(context.Background())

	for gen := uint64(1); gen <= 3; gen++ {
		b.Publish(SnapshotEvent, gen)
	}

	e := recv(t, ch)
	require.Equal(t, uint64(3), e.Payload)
	require.Equal(t, SnapshotEvent, e.Type)
	requireEmpty(t, ch)
}

func TestBroker_Close(t *testing.T) {
	b := NewBroker[string]()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch1 := b.Subscribe(ctx)
	ch2 := b.Subscribe(context.Background())

	b.Close()
	b.Close()

	requireClosed(t, ch1)
	requireClosed(t, ch2)
	require.Zero(t, b.SubscriberCount())

	// Cancelling after close must not close ch1 twice.
	cancel()

	requireClosed(t, b.Subscribe(context.Background()))
	b.Publish(EntryEvent, "ignored")
}

package pubsub

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// ListenCmd waits for the next event on ch and returns it as the message.
// The command yields nil once ctx is done or ch is closed.
func ListenCmd[T any](ctx context.Context, ch <-chan Event[T]) tea.Cmd {
	return MapCmd(ctx, ch, func(e Event[T]) tea.Msg { return e })
}

// MapCmd is ListenCmd with a conversion from the event to the message the
// receiving model switches on.
func MapCmd[T any](ctx context.Context, ch <-chan Event[T], toMsg func(Event[T]) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			return toMsg(event)
		}
	}
}

// ContinuousListener holds one subscription across Update calls. Call
// Listen again after handling each message to keep receiving.
type ContinuousListener[T any] struct {
	ctx   context.Context
	ch    <-chan Event[T]
	toMsg func(Event[T]) tea.Msg
}

// NewContinuousListener subscribes to broker and delivers raw events.
func NewContinuousListener[T any](ctx context.Context, broker *Broker[T]) *ContinuousListener[T] {
	return NewMappedListener(ctx, broker, func(e Event[T]) tea.Msg { return e })
}

// NewMappedListener subscribes to broker and converts each event with toMsg.
func NewMappedListener[T any](ctx context.Context, broker *Broker[T], toMsg func(Event[T]) tea.Msg) *ContinuousListener[T] {
	return &ContinuousListener[T]{ctx: ctx, ch: broker.Subscribe(ctx), toMsg: toMsg}
}

// Listen returns a command that waits for the next event.
func (l *ContinuousListener[T]) Listen() tea.Cmd {
	return MapCmd(l.ctx, l.ch, l.toMsg)
}

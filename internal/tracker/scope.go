package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/tether/internal/log"
)

// Binding is what components see of a scope: the consumer side (Snapshot,
// Subscribe) and the provider side (Register).
type Binding[V any] interface {
	Snapshot() Snapshot[V]
	Subscribe(fn func(Snapshot[V])) func()
	Register(isEqual Equal[V]) *Registration[V]
	// Active is false for the inert fallback binding.
	Active() bool
	// ID identifies the scope instance.
	ID() string
}

// Factory produces isolated scopes for one kind of tracked value. Each
// factory remembers on its own whether it already warned about use outside
// a scope.
type Factory[V any] struct {
	name     string
	debounce time.Duration
	warnOnce sync.Once
}

// FactoryOption configures a Factory.
type FactoryOption func(*factoryConfig)

type factoryConfig struct {
	debounce time.Duration
}

// WithDebounce overrides the publish window of scopes created by the factory.
func WithDebounce(d time.Duration) FactoryOption {
	return func(c *factoryConfig) { c.debounce = d }
}

// NewFactory creates a scope factory. name appears in log lines.
func NewFactory[V any](name string, opts ...FactoryOption) *Factory[V] {
	cfg := factoryConfig{debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Factory[V]{name: name, debounce: cfg.debounce}
}

// Name returns the factory name.
func (f *Factory[V]) Name() string { return f.name }

// NewScope creates a scope with its own store. Close it when the owning
// subtree goes away.
func (f *Factory[V]) NewScope(opts ...FactoryOption) *Scope[V] {
	cfg := factoryConfig{debounce: f.debounce}
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &Scope[V]{
		id:      uuid.NewString(),
		factory: f,
		store:   NewStore[V](cfg.debounce),
	}
	log.Debug(log.CatTracker, "scope created", "factory", f.name, "scope", s.id, "debounce", cfg.debounce)
	return s
}

type ctxKey[V any] struct{ factory *Factory[V] }

// WithScope returns a context carrying s as the ambient scope of this factory.
func (f *Factory[V]) WithScope(ctx context.Context, s *Scope[V]) context.Context {
	return context.WithValue(ctx, ctxKey[V]{factory: f}, s)
}

// FromContext returns the ambient scope of this factory, or an inert binding
// when ctx carries none.
func (f *Factory[V]) FromContext(ctx context.Context) Binding[V] {
	s, _ := ctx.Value(ctxKey[V]{factory: f}).(*Scope[V])
	return f.Bind(s)
}

// Bind returns s as a Binding, or the inert binding if s is nil or closed.
func (f *Factory[V]) Bind(s *Scope[V]) Binding[V] {
	if s == nil || s.isClosed() {
		f.warnOnce.Do(func() {
			log.Warn(log.CatTracker, "tracker used outside of an active scope; falling back to no-op", "factory", f.name)
		})
		return inert[V]{}
	}
	return s
}

// Scope is one isolated registration namespace.
type Scope[V any] struct {
	id      string
	factory *Factory[V]
	store   *Store[V]

	mu     sync.Mutex
	closed bool
}

// ID returns the scope instance id.
func (s *Scope[V]) ID() string { return s.id }

// Active reports whether the scope is still open.
func (s *Scope[V]) Active() bool { return !s.isClosed() }

// Snapshot reads the current table synchronously.
func (s *Scope[V]) Snapshot() Snapshot[V] { return s.store.Read() }

// Subscribe receives debounced publishes.
func (s *Scope[V]) Subscribe(fn func(Snapshot[V])) func() { return s.store.Subscribe(fn) }

// Register creates a registration primitive bound to this scope.
// A nil isEqual uses Identity.
func (s *Scope[V]) Register(isEqual Equal[V]) *Registration[V] {
	return newRegistration[V](s.store, isEqual)
}

// Close discards the scope's table. Registrations made through it become no-ops.
func (s *Scope[V]) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.store.Close()
	log.Debug(log.CatTracker, "scope closed", "factory", s.factory.name, "scope", s.id)
}

func (s *Scope[V]) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type inert[V any] struct{}

func (inert[V]) Snapshot() Snapshot[V] { return Snapshot[V]{} }
func (inert[V]) Subscribe(func(Snapshot[V])) func() { return func() {} }
func (inert[V]) Register(Equal[V]) *Registration[V] { return newRegistration[V](nil, nil) }
func (inert[V]) Active() bool { return false }
func (inert[V]) ID() string { return "" }

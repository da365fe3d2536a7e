// Package eventbus is the synchronous publish/subscribe registry behind the
// workflow reactions.
//
// Publish appends the event to the log and then runs every handler registered
// for its type, in registration order, on the caller's goroutine. A failing or
// panicking handler is reported in the returned results and does not stop the
// remaining handlers. Handlers may publish again; the nesting depth travels in
// the context and dispatch stops at MaxDepth.
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/ports"
)

// DefaultMaxDepth bounds nested publishes.
const DefaultMaxDepth = 8

// ErrDispatchDepthExceeded is reported instead of running handlers once
// nested publishes reach the bus's maximum depth.
var ErrDispatchDepthExceeded = errors.New("event dispatch depth exceeded")

// Handler reacts to one event. The returned value is surfaced in Result.
type Handler func(ctx context.Context, e event.Event) (any, error)

// Result is the outcome of one handler.
type Result struct {
	Handler string
	Value   any
	Err     error
}

func (r Result) Failed() bool {
	return r.Err != nil
}

type subscription struct {
	name    string
	handler Handler
}

type Bus struct {
	mu       sync.RWMutex
	handlers map[event.Type][]subscription
	log      ports.EventLog
	logger   *slog.Logger
	maxDepth int
	clock    kernel.Clock
}

// Option configures the bus.
type Option func(*Bus)

func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		b.logger = logger
	}
}

// WithMaxDepth overrides DefaultMaxDepth. Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(b *Bus) {
		if depth > 0 {
			b.maxDepth = depth
		}
	}
}

func WithClock(clock kernel.Clock) Option {
	return func(b *Bus) {
		b.clock = clock
	}
}

func New(log ports.EventLog, opts ...Option) *Bus {
	b := &Bus{
		handlers: make(map[event.Type][]subscription),
		log:      log,
		logger:   slog.Default(),
		maxDepth: DefaultMaxDepth,
		clock:    kernel.SystemClock,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With("component", "eventbus")
	return b
}

// Subscribe registers handler for t under name. Names only label results and logs.
func (b *Bus) Subscribe(t event.Type, name string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[t] = append(b.handlers[t], subscription{name: name, handler: handler})
	b.logger.Debug("handler registered", "event_type", t, "handler_name", name)
}

// Handlers lists the handler names registered for t, in invocation order.
func (b *Bus) Handlers(t event.Type) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.handlers[t]))
	for _, s := range b.handlers[t] {
		names = append(names, s.name)
	}
	return names
}

// Publish logs the event and runs its handlers. It never fails; problems are
// reported per handler in the results.
func (b *Bus) Publish(ctx context.Context, t event.Type, payload map[string]any) []Result {
	e := event.New(t, payload, b.clock())
	if err := b.log.Append(ctx, e); err != nil {
		b.logger.ErrorContext(ctx, "failed to append event to log",
			"event_type", t, "event_id", e.ID, "error", err)
	}

	depth := depthFrom(ctx)
	if depth >= b.maxDepth {
		b.logger.WarnContext(ctx, "dispatch depth exceeded, handlers skipped",
			"event_type", t, "event_id", e.ID, "depth", depth)
		return []Result{{Err: ErrDispatchDepthExceeded}}
	}

	b.mu.RLock()
	subs := append([]subscription(nil), b.handlers[t]...)
	b.mu.RUnlock()

	ctx = withDepth(ctx, depth+1)
	results := make([]Result, 0, len(subs))
	for _, s := range subs {
		r := b.safeExecute(ctx, e, s)
		if r.Failed() {
			b.logger.WarnContext(ctx, "handler failed",
				"event_type", t, "event_id", e.ID, "handler_name", s.name, "error", r.Err)
		}
		results = append(results, r)
	}
	return results
}

// Log returns the published events, oldest first, optionally restricted to types.
func (b *Bus) Log(ctx context.Context, types ...event.Type) ([]event.Event, error) {
	all, err := b.log.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return all, nil
	}

	wanted := make(map[event.Type]struct{}, len(types))
	for _, t := range types {
		wanted[t] = struct{}{}
	}
	filtered := make([]event.Event, 0, len(all))
	for _, e := range all {
		if _, ok := wanted[e.Type]; ok {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

func (b *Bus) safeExecute(ctx context.Context, e event.Event, s subscription) (result Result) {
	result.Handler = s.name
	defer func() {
		if r := recover(); r != nil {
			result.Value = nil
			result.Err = fmt.Errorf("handler %s panicked: %v", s.name, r)
		}
	}()

	result.Value, result.Err = s.handler(ctx, e)
	return result
}

type depthKey struct{}

func depthFrom(ctx context.Context) int {
	depth, _ := ctx.Value(depthKey{}).(int)
	return depth
}

func withDepth(ctx context.Context, depth int) context.Context {
	return context.WithValue(ctx, depthKey{}, depth)
}

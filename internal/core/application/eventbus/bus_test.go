package eventbus_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"orderflow/internal/adapters/out/memory"
	"orderflow/internal/core/application/eventbus"
	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)

func newBus(opts ...eventbus.Option) *eventbus.Bus {
	opts = append([]eventbus.Option{eventbus.WithClock(kernel.SteppingClock(start, time.Second))}, opts...)
	return eventbus.New(memory.NewEventLog(), opts...)
}

func TestBus_RunsHandlersInRegistrationOrder(t *testing.T) {
	bus := newBus()
	var calls []string
	for _, name := range []string{"first", "second", "third"} {
		bus.Subscribe(event.SystemStateChanged, name, func(_ context.Context, e event.Event) (any, error) {
			calls = append(calls, name)
			return e.Payload["n"], nil
		})
	}

	results := bus.Publish(t.Context(), event.SystemStateChanged, map[string]any{"n": 1})

	assert.Equal(t, []string{"first", "second", "third"}, calls)
	assert.Equal(t, []eventbus.Result{
		{Handler: "first", Value: 1},
		{Handler: "second", Value: 1},
		{Handler: "third", Value: 1},
	}, results)
	assert.Equal(t, []string{"first", "second", "third"}, bus.Handlers(event.SystemStateChanged))
}

func TestBus_IsolatesHandlerFailures(t *testing.T) {
	bus := newBus()
	boom := errors.New("boom")
	bus.Subscribe(event.AdminIncidentDetected, "errors", func(context.Context, event.Event) (any, error) {
		return nil, boom
	})
	bus.Subscribe(event.AdminIncidentDetected, "panics", func(context.Context, event.Event) (any, error) {
		panic("kaput")
	})
	bus.Subscribe(event.AdminIncidentDetected, "works", func(context.Context, event.Event) (any, error) {
		return "ok", nil
	})

	results := bus.Publish(t.Context(), event.AdminIncidentDetected, nil)

	require.Len(t, results, 3)
	require.ErrorIs(t, results[0].Err, boom)
	require.ErrorContains(t, results[1].Err, "kaput")
	assert.Nil(t, results[1].Value)
	assert.False(t, results[2].Failed())
	assert.Equal(t, "ok", results[2].Value)
}

func TestBus_LogsEveryPublishInOrder(t *testing.T) {
	bus := newBus()

	assert.Empty(t, bus.Publish(t.Context(), event.CommercialOrderProposed, map[string]any{"k": "v"}))
	bus.Publish(t.Context(), event.SystemStateChanged, nil)
	bus.Publish(t.Context(), event.CommercialOrderConfirmed, nil)

	all, err := bus.Log(t.Context())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, event.CommercialOrderProposed, all[0].Type)
	assert.Equal(t, map[string]any{"k": "v"}, all[0].Payload)
	assert.Equal(t, start, all[0].Timestamp)
	assert.Equal(t, start.Add(2*time.Second), all[2].Timestamp)

	filtered, err := bus.Log(t.Context(), event.SystemStateChanged, event.CommercialOrderConfirmed)
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	assert.Equal(t, event.SystemStateChanged, filtered[0].Type)
}

func TestBus_ToleratesReentrantPublish(t *testing.T) {
	bus := newBus()
	var nested []eventbus.Result
	bus.Subscribe(event.CommercialOrderConfirmed, "outer", func(ctx context.Context, _ event.Event) (any, error) {
		nested = bus.Publish(ctx, event.AdminProductionOrderSent, nil)
		return "outer", nil
	})
	bus.Subscribe(event.AdminProductionOrderSent, "inner", func(context.Context, event.Event) (any, error) {
		return "inner", nil
	})

	results := bus.Publish(t.Context(), event.CommercialOrderConfirmed, nil)

	assert.Equal(t, []eventbus.Result{{Handler: "outer", Value: "outer"}}, results)
	assert.Equal(t, []eventbus.Result{{Handler: "inner", Value: "inner"}}, nested)
}

func TestBus_StopsRunawayCycles(t *testing.T) {
	bus := newBus(eventbus.WithMaxDepth(3))
	invocations, refused := 0, 0
	bus.Subscribe(event.WorkshopRevisionRequired, "ping", func(ctx context.Context, _ event.Event) (any, error) {
		invocations++
		for _, r := range bus.Publish(ctx, event.WorkshopRevisionRequired, nil) {
			if errors.Is(r.Err, eventbus.ErrDispatchDepthExceeded) {
				refused++
			}
		}
		return nil, nil
	})

	results := bus.Publish(t.Context(), event.WorkshopRevisionRequired, nil)

	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, 3, invocations)
	assert.Equal(t, 1, refused)

	logged, err := bus.Log(t.Context())
	require.NoError(t, err)
	assert.Len(t, logged, 4, "the refused publish is still logged")
}

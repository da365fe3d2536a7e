package memory

import (
	"context"
	"sync"

	"orderflow/internal/core/domain/model/event"
)

// EventLog is an append-only slice of events.
type EventLog struct {
	mu     sync.RWMutex
	events []event.Event
}

func NewEventLog() *EventLog {
	return &EventLog{}
}

func (l *EventLog) Append(_ context.Context, e event.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
	return nil
}

func (l *EventLog) All(_ context.Context) ([]event.Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]event.Event(nil), l.events...), nil
}

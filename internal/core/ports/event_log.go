package ports

import (
	"context"

	"orderflow/internal/core/domain/model/event"
)

// EventLog is the append-only record of every published event.
type EventLog interface {
	// Append stores e after every event already in the log.
	Append(ctx context.Context, e event.Event) error

	// All returns the log in publication order.
	All(ctx context.Context) ([]event.Event, error)
}

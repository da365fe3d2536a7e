// Package notifications turns system.notification.required events into
// department inbox entries.
package notifications

import (
	"context"
	"log/slog"

	"orderflow/internal/core/application/eventbus"
	"orderflow/internal/core/domain/model/department"
	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/notification"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// Subscriber is the part of the bus the Center listens on.
type Subscriber interface {
	Subscribe(t event.Type, name string, handler eventbus.Handler)
}

type Center struct {
	repo   ports.NotificationRepository
	clock  kernel.Clock
	logger *slog.Logger
}

func NewCenter(repo ports.NotificationRepository, clock kernel.Clock, logger *slog.Logger) *Center {
	return &Center{
		repo:   repo,
		clock:  clock,
		logger: logger.With("component", "notifications"),
	}
}

// Attach subscribes the Center to notification requests on bus.
func (c *Center) Attach(bus Subscriber) {
	bus.Subscribe(event.SystemNotificationRequested, "store-notification", c.handle)
}

func (c *Center) handle(ctx context.Context, e event.Event) (any, error) {
	recipient, err := department.Parse(stringField(e, event.KeyRecipient))
	if err != nil {
		return nil, err
	}

	var artifactID kernel.UUID
	if raw := stringField(e, event.KeyArtifactID); raw != "" {
		if artifactID, err = kernel.UUIDFromString(raw); err != nil {
			return nil, err
		}
	}

	n, err := notification.New(artifactID, recipient,
		stringField(e, event.KeyKind), stringField(e, event.KeyMessage), c.clock())
	if err != nil {
		return nil, err
	}
	if err = c.repo.Add(ctx, n); err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "notification stored",
		"notification_id", n.ID, "recipient", n.Recipient, "type", n.Kind)
	return n, nil
}

// List returns the recipient's notifications, newest first.
func (c *Center) List(ctx context.Context, recipient department.Department, unreadOnly bool) ([]notification.Notification, error) {
	if err := recipient.Validate(); err != nil {
		return nil, err
	}
	return c.repo.ListFor(ctx, recipient, unreadOnly)
}

func (c *Center) MarkRead(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	return c.repo.MarkRead(ctx, id)
}

func stringField(e event.Event, key string) string {
	s, _ := e.Payload[key].(string)
	return s
}

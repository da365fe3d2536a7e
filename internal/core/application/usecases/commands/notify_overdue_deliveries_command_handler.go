package commands

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"orderflow/internal/core/domain/model/artifact"
	"orderflow/internal/core/domain/model/department"
	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/lifecycle"
	"orderflow/internal/core/domain/model/notification"
)

// Admin states after which a delivery can no longer be late.
var settledAdminStates = map[artifact.State]struct{}{
	lifecycle.AdminDelivered: {},
	lifecycle.AdminInvoiced:  {},
	lifecycle.AdminPaid:      {},
	lifecycle.AdminCancelled: {},
}

// NotifyOverdueDeliveriesCommandHandler scans the store for late deliveries
// and publishes a notification to commercial for each one. An artifact is
// reported once per handler instance.
//
// Example:
//
//	handler := NewNotifyOverdueDeliveriesCommandHandler(uowFactory, bus, logger)
//	cmd, _ := NewNotifyOverdueDeliveriesCommand(time.Now())
//
//	// usually run by the overdue delivery cron job
//	notified, err := handler.Handle(ctx, cmd)
type NotifyOverdueDeliveriesCommandHandler struct {
	uowFactory UoWFactory
	publisher  Publisher
	logger     *slog.Logger

	mu       sync.Mutex
	notified map[kernel.UUID]struct{}
}

func NewNotifyOverdueDeliveriesCommandHandler(
	uowFactory UoWFactory,
	publisher Publisher,
	logger *slog.Logger,
) *NotifyOverdueDeliveriesCommandHandler {
	return &NotifyOverdueDeliveriesCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With("component", "overdue_deliveries"),
		notified:   make(map[kernel.UUID]struct{}),
	}
}

// Handle returns how many notifications it published.
func (h *NotifyOverdueDeliveriesCommandHandler) Handle(ctx context.Context, cmd NotifyOverdueDeliveriesCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	artifacts, err := h.uowFactory.Create().ArtifactRepository().GetAll(ctx)
	if err != nil {
		return 0, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	sent := 0
	for _, a := range artifacts {
		if _, done := h.notified[a.ID()]; done || !isOverdue(a, cmd.AsOf()) {
			continue
		}

		message := fmt.Sprintf("delivery for %s was due on %s",
			a.Customer().Name, a.RequestedDeliveryDate().Format(time.DateOnly))
		h.publisher.Publish(ctx, event.SystemNotificationRequested,
			event.Notification(a.ID(), department.Commercial, notification.KindDeliveryOverdue, message))

		h.notified[a.ID()] = struct{}{}
		sent++
	}

	if sent > 0 {
		h.logger.InfoContext(ctx, "overdue deliveries notified", "count", sent, "as_of", cmd.AsOf())
	}
	return sent, nil
}

func isOverdue(a *artifact.Artifact, asOf time.Time) bool {
	due := a.RequestedDeliveryDate()
	if due.IsZero() || !due.Before(asOf) {
		return false
	}
	if a.State(department.Commercial).State == lifecycle.CommercialCancelled {
		return false
	}
	_, settled := settledAdminStates[a.State(department.Administrative).State]
	return !settled
}

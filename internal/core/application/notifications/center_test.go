package notifications_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"orderflow/internal/adapters/out/memory"
	"orderflow/internal/core/application/eventbus"
	"orderflow/internal/core/application/notifications"
	"orderflow/internal/core/domain/model/department"
	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/notification"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*eventbus.Bus, *notifications.Center) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := kernel.SteppingClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), time.Minute)

	bus := eventbus.New(memory.NewEventLog(), eventbus.WithLogger(logger))
	center := notifications.NewCenter(memory.NewNotificationRepository(), clock, logger)
	center.Attach(bus)
	return bus, center
}

func TestCenter_StoresRequestedNotifications(t *testing.T) {
	bus, center := setup(t)
	first, second := kernel.NewUUID(), kernel.NewUUID()

	bus.Publish(t.Context(), event.SystemNotificationRequested,
		event.Notification(first, department.Administrative, notification.KindQualityIssue, "quality incident"))
	results := bus.Publish(t.Context(), event.SystemNotificationRequested,
		event.Notification(second, department.Administrative, notification.KindIncident, "another one"))

	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	stored, ok := results[0].Value.(notification.Notification)
	require.True(t, ok)
	assert.Equal(t, second, stored.ArtifactID)

	inbox, err := center.List(t.Context(), department.Administrative, false)
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	assert.Equal(t, second, inbox[0].ArtifactID, "newest first")
	assert.Equal(t, first, inbox[1].ArtifactID)

	other, err := center.List(t.Context(), department.Commercial, false)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestCenter_MarkRead(t *testing.T) {
	bus, center := setup(t)
	bus.Publish(t.Context(), event.SystemNotificationRequested,
		event.Notification(kernel.NewUUID(), department.Commercial, notification.KindDeliveryIssue, "late truck"))

	inbox, err := center.List(t.Context(), department.Commercial, true)
	require.NoError(t, err)
	require.Len(t, inbox, 1)

	require.NoError(t, center.MarkRead(t.Context(), inbox[0].ID))

	unread, err := center.List(t.Context(), department.Commercial, true)
	require.NoError(t, err)
	assert.Empty(t, unread)

	all, err := center.List(t.Context(), department.Commercial, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Read)

	err = center.MarkRead(t.Context(), kernel.NewUUID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestCenter_RejectsMalformedRequests(t *testing.T) {
	bus, center := setup(t)

	tests := []struct {
		name    string
		payload map[string]any
	}{
		{"unknown recipient", map[string]any{event.KeyRecipient: "finance", event.KeyKind: "incident", event.KeyMessage: "x"}},
		{"missing message", map[string]any{event.KeyRecipient: "workshop", event.KeyKind: "incident"}},
		{"bad artifact id", map[string]any{
			event.KeyArtifactID: "not-a-uuid", event.KeyRecipient: "workshop", event.KeyKind: "incident", event.KeyMessage: "x",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := bus.Publish(t.Context(), event.SystemNotificationRequested, tt.payload)
			require.Len(t, results, 1)
			assert.Error(t, results[0].Err)
		})
	}

	inbox, err := center.List(t.Context(), department.Workshop, false)
	require.NoError(t, err)
	assert.Empty(t, inbox)
}

func TestCenter_AcceptsNotificationsWithoutArtifact(t *testing.T) {
	bus, center := setup(t)

	results := bus.Publish(t.Context(), event.SystemNotificationRequested, map[string]any{
		event.KeyRecipient: "workshop", event.KeyKind: notification.KindDeliveryOverdue, event.KeyMessage: "3 orders overdue",
	})

	require.NoError(t, results[0].Err)
	inbox, err := center.List(t.Context(), department.Workshop, false)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, kernel.UUID{}, inbox[0].ArtifactID)
}

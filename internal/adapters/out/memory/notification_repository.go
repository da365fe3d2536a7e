package memory

import (
	"context"
	"slices"
	"sync"

	"orderflow/internal/core/domain/model/department"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/notification"
	"orderflow/internal/pkg/errs"
)

type NotificationRepository struct {
	mu    sync.RWMutex
	items []notification.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) Add(_ context.Context, n notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
	return nil
}

func (r *NotificationRepository) ListFor(
	_ context.Context,
	recipient department.Department,
	unreadOnly bool,
) ([]notification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]notification.Notification, 0)
	for _, n := range slices.Backward(r.items) {
		if n.Recipient != recipient || (unreadOnly && n.Read) {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, id kernel.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.IndexFunc(r.items, func(n notification.Notification) bool { return n.ID == id })
	if i < 0 {
		return errs.NewObjectNotFoundError("notification", id.String())
	}
	r.items[i].Read = true
	return nil
}

package ports

import (
	"context"

	"orderflow/internal/core/domain/model/department"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/notification"
)

// NotificationRepository stores notifications addressed to departments.
type NotificationRepository interface {
	Add(ctx context.Context, n notification.Notification) error

	// ListFor returns the recipient's notifications, newest first.
	ListFor(ctx context.Context, recipient department.Department, unreadOnly bool) ([]notification.Notification, error)

	// MarkRead flags a notification as read. Unknown ids yield errs.ObjectNotFoundError.
	MarkRead(ctx context.Context, id kernel.UUID) error
}

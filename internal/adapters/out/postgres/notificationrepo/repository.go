// Package notificationrepo persists department inbox entries.
package notificationrepo

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/department"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/notification"
	"orderflow/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ArtifactID uuid.UUID `gorm:"type:uuid;index"`
	Recipient  string    `gorm:"type:varchar(16);not null;index"`
	Kind       string    `gorm:"type:varchar(32);not null"`
	Message    string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"type:timestamptz;not null;autoCreateTime:false"`
	Read       bool      `gorm:"column:is_read;not null;default:false"`
}

func (NotificationDTO) TableName() string {
	return "notifications"
}

// GormNotificationRepository implements ports.NotificationRepository.
type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) Add(ctx context.Context, n notification.Notification) error {
	dto := NotificationDTO{
		ID:         n.ID.Bytes(),
		ArtifactID: n.ArtifactID.Bytes(),
		Recipient:  n.Recipient.String(),
		Kind:       n.Kind,
		Message:    n.Message,
		CreatedAt:  n.CreatedAt,
		Read:       n.Read,
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormNotificationRepository) ListFor(
	ctx context.Context,
	recipient department.Department,
	unreadOnly bool,
) ([]notification.Notification, error) {
	query := r.db.WithContext(ctx).Where("recipient = ?", recipient.String())
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var dtos []NotificationDTO
	if err := query.Order("created_at DESC").Find(&dtos).Error; err != nil {
		return nil, err
	}

	out := make([]notification.Notification, 0, len(dtos))
	for _, dto := range dtos {
		n, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *GormNotificationRepository) MarkRead(ctx context.Context, id kernel.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&NotificationDTO{}).
		Where("id = ?", id.Bytes()).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("notification", id.String())
	}
	return nil
}

func toDomain(dto NotificationDTO) (notification.Notification, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return notification.Notification{}, err
	}
	var artifactID kernel.UUID
	if dto.ArtifactID != uuid.Nil {
		if artifactID, err = kernel.UUIDFromBytes(dto.ArtifactID[:]); err != nil {
			return notification.Notification{}, err
		}
	}
	recipient, err := department.Parse(dto.Recipient)
	if err != nil {
		return notification.Notification{}, err
	}
	return notification.Notification{
		ID:         id,
		ArtifactID: artifactID,
		Recipient:  recipient,
		Kind:       dto.Kind,
		Message:    dto.Message,
		CreatedAt:  dto.CreatedAt.UTC(),
		Read:       dto.Read,
	}, nil
}

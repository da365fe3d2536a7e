// Package eventlogrepo persists the published event log in the events table.
package eventlogrepo

import (
	"context"
	"encoding/json"
	"time"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventDTO is one published event. Seq keeps publication order.
type EventDTO struct {
	Seq       uint64    `gorm:"primaryKey;autoIncrement"`
	ID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Type      string    `gorm:"type:varchar(64);not null;index"`
	Payload   []byte    `gorm:"type:jsonb;not null"`
	Timestamp time.Time `gorm:"type:timestamptz;not null"`
}

func (EventDTO) TableName() string {
	return "events"
}

// GormEventLog implements ports.EventLog. It always writes outside the caller's
// transaction: the log records what was published, not what was committed.
type GormEventLog struct {
	db *gorm.DB
}

func NewGormEventLog(db *gorm.DB) *GormEventLog {
	return &GormEventLog{db: db}
}

func (l *GormEventLog) Append(ctx context.Context, e event.Event) error {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return err
	}
	dto := EventDTO{
		ID:        e.ID.Bytes(),
		Type:      string(e.Type),
		Payload:   payload,
		Timestamp: e.Timestamp,
	}
	return l.db.WithContext(ctx).Create(&dto).Error
}

func (l *GormEventLog) All(ctx context.Context) ([]event.Event, error) {
	var dtos []EventDTO
	if err := l.db.WithContext(ctx).Order("seq").Find(&dtos).Error; err != nil {
		return nil, err
	}

	events := make([]event.Event, 0, len(dtos))
	for _, dto := range dtos {
		id, err := kernel.UUIDFromBytes(dto.ID[:])
		if err != nil {
			return nil, err
		}
		payload := map[string]any{}
		if err = json.Unmarshal(dto.Payload, &payload); err != nil {
			return nil, err
		}
		events = append(events, event.Event{
			ID:        id,
			Type:      event.Type(dto.Type),
			Payload:   payload,
			Timestamp: dto.Timestamp.UTC(),
		})
	}
	return events, nil
}

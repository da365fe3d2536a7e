package artifactrepo

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/artifact"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormArtifactRepository implements ports.ArtifactRepository using GORM.
type GormArtifactRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormArtifactRepository creates a new GORM artifact repository.
func NewGormArtifactRepository(db *gorm.DB, tracker aggregateTracker) *GormArtifactRepository {
	return &GormArtifactRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new artifact and its history rows.
func (r *GormArtifactRepository) Add(ctx context.Context, aggregate *artifact.Artifact) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes every column of the artifact row. History rows are not touched.
func (r *GormArtifactRepository) Update(ctx context.Context, aggregate *artifact.Artifact) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	dto.History = nil

	result := r.db.WithContext(ctx).
		Model(&ArtifactDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit("ID", "CreatedAt", clause.Associations).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("artifact", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// AppendHistory numbers the records after the last stored one.
func (r *GormArtifactRepository) AppendHistory(
	ctx context.Context,
	id kernel.UUID,
	records ...artifact.HistoryRecord,
) error {
	if err := id.Validate(); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	var exists int64
	if err := db.Model(&ArtifactDTO{}).Where("id = ?", id.Bytes()).Count(&exists).Error; err != nil {
		return err
	}
	if exists == 0 {
		return errs.NewObjectNotFoundError("artifact", id.String())
	}
	if len(records) == 0 {
		return nil
	}

	var stored int64
	if err := db.Model(&HistoryDTO{}).Where("artifact_id = ?", id.Bytes()).Count(&stored).Error; err != nil {
		return err
	}

	rows := historyFromDomain(id, int(stored), records)
	return db.Create(&rows).Error
}

// Get retrieves an artifact by ID with its history in order.
func (r *GormArtifactRepository) Get(ctx context.Context, id kernel.UUID) (*artifact.Artifact, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ArtifactDTO
	if err := r.withHistory(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("artifact", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAll retrieves every artifact, oldest first.
func (r *GormArtifactRepository) GetAll(ctx context.Context) ([]*artifact.Artifact, error) {
	var dtos []ArtifactDTO
	if err := r.withHistory(ctx).Order("created_at, id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	artifacts := make([]*artifact.Artifact, 0, len(dtos))
	for _, dto := range dtos {
		a, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}

	return artifacts, nil
}

// Delete removes the artifact; history rows go with it via the cascade.
func (r *GormArtifactRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&ArtifactDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("artifact", id.String())
	}
	return nil
}

func (r *GormArtifactRepository) withHistory(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("History", func(db *gorm.DB) *gorm.DB {
		return db.Order("seq")
	})
}

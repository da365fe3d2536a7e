// Package ports defines the persistence contracts the workflow engine depends on.
// These interfaces establish contracts between the application layer and
// infrastructure, so the in-memory and postgres stores are interchangeable.
package ports

import (
	"context"

	"orderflow/internal/core/domain/model/artifact"
	"orderflow/internal/core/domain/model/kernel"
)

// ArtifactRepository defines the persistence contract for artifact aggregates.
// Implementations return errs.ObjectNotFoundError for unknown identifiers.
type ArtifactRepository interface {
	// Add persists a new artifact together with its seed history.
	// The artifact must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *artifact.Artifact) error

	// Update persists shared attributes and department slots of an existing artifact.
	// Stored history is left untouched; use AppendHistory for new records.
	Update(ctx context.Context, aggregate *artifact.Artifact) error

	// AppendHistory appends records to the artifact's history, after the
	// ones already stored, preserving their order.
	AppendHistory(ctx context.Context, id kernel.UUID, records ...artifact.HistoryRecord) error

	// Get retrieves an artifact with its complete history.
	Get(ctx context.Context, id kernel.UUID) (*artifact.Artifact, error)

	// GetAll retrieves every artifact ordered by creation time, oldest first.
	GetAll(ctx context.Context) ([]*artifact.Artifact, error)

	// Delete removes an artifact and its history. Intended for data reset tooling only.
	Delete(ctx context.Context, id kernel.UUID) error
}

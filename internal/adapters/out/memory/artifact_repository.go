package memory

import (
	"context"
	"fmt"

	"orderflow/internal/core/domain/model/artifact"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// ArtifactRepository implements ports.ArtifactRepository over a table.
type ArtifactRepository struct {
	table   table
	tracker aggregateTracker
}

func newArtifactRepository(t table, tracker aggregateTracker) *ArtifactRepository {
	return &ArtifactRepository{table: t, tracker: tracker}
}

// Add stores a new artifact.
func (r *ArtifactRepository) Add(_ context.Context, aggregate *artifact.Artifact) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if _, exists := r.table.load(aggregate.ID()); exists {
		return errs.NewValueIsInvalidErrorWithCause("artifact",
			fmt.Errorf("artifact %s already exists", aggregate.ID()))
	}

	r.table.save(aggregate.Snapshot())
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update replaces everything but the stored history.
func (r *ArtifactRepository) Update(_ context.Context, aggregate *artifact.Artifact) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	stored, ok := r.table.load(aggregate.ID())
	if !ok {
		return errs.NewObjectNotFoundError("artifact", aggregate.ID().String())
	}

	snap := aggregate.Snapshot()
	snap.History = stored.History
	r.table.save(snap)
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *ArtifactRepository) AppendHistory(_ context.Context, id kernel.UUID, records ...artifact.HistoryRecord) error {
	stored, ok := r.table.load(id)
	if !ok {
		return errs.NewObjectNotFoundError("artifact", id.String())
	}

	history := make([]artifact.HistoryRecord, 0, len(stored.History)+len(records))
	history = append(history, stored.History...)
	stored.History = append(history, records...)
	r.table.save(stored)
	return nil
}

func (r *ArtifactRepository) Get(_ context.Context, id kernel.UUID) (*artifact.Artifact, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	snap, ok := r.table.load(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("artifact", id.String())
	}
	return artifact.Restore(snap)
}

func (r *ArtifactRepository) GetAll(_ context.Context) ([]*artifact.Artifact, error) {
	snaps := r.table.all()
	out := make([]*artifact.Artifact, 0, len(snaps))
	for _, snap := range snaps {
		a, err := artifact.Restore(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *ArtifactRepository) Delete(_ context.Context, id kernel.UUID) error {
	if _, ok := r.table.load(id); !ok {
		return errs.NewObjectNotFoundError("artifact", id.String())
	}
	r.table.remove(id)
	return nil
}

package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var (
	ErrDeleteArtifactCommandIsNotConstructed = errors.New(
		"DeleteArtifactCommand must be created via NewDeleteArtifactCommand constructor",
	)
)

// DeleteArtifactCommand removes an artifact and its history. It exists for
// data reset tooling; the workflow itself never deletes.
type DeleteArtifactCommand struct {
	artifactID kernel.UUID
	guard      guard.ConstructorGuard
}

func NewDeleteArtifactCommand(artifactID kernel.UUID) (DeleteArtifactCommand, error) {
	if err := artifactID.Validate(); err != nil {
		return DeleteArtifactCommand{}, err
	}
	return DeleteArtifactCommand{
		artifactID: artifactID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c DeleteArtifactCommand) ArtifactID() kernel.UUID {
	return c.artifactID
}

func (c DeleteArtifactCommand) Validate() error {
	return c.guard.Validate(ErrDeleteArtifactCommandIsNotConstructed)
}

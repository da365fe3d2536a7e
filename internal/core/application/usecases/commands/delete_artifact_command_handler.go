package commands

import (
	"context"
)

type DeleteArtifactCommandHandler struct {
	uowFactory UoWFactory
}

func NewDeleteArtifactCommandHandler(uowFactory UoWFactory) DeleteArtifactCommandHandler {
	return DeleteArtifactCommandHandler{uowFactory: uowFactory}
}

// Handle deletes the artifact inside a transaction. Unknown ids yield
// errs.ObjectNotFoundError.
func (h DeleteArtifactCommandHandler) Handle(ctx context.Context, cmd DeleteArtifactCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.ArtifactRepository().Delete(ctx, cmd.ArtifactID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

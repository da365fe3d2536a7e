// Package commands contains business operations that modify system state.
// Commands are built by constructors, validated by their handler, and run
// inside a unit of work where they touch the artifact store.
package commands

import (
	"context"

	"orderflow/internal/core/application/eventbus"
	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/ports"
)

type (
	// UoWFactory creates the unit of work a handler runs in.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   repo := uow.ArtifactRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoWFactory = ports.UnitOfWorkFactory

	// Publisher announces events produced by a command.
	Publisher interface {
		Publish(ctx context.Context, t event.Type, payload map[string]any) []eventbus.Result
	}
)

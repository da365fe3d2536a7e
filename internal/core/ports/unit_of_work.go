package ports

import (
	"context"
)

// UnitOfWorkFactory hands out one UnitOfWork per command or transition.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the transaction boundary around artifact writes. A transition
// updates the department slot and appends its history record in one unit so
// that both land or neither does.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit fails when no transaction is active.
	Commit(ctx context.Context) error

	// Rollback fails when no transaction is active, so a deferred Rollback
	// after a successful Commit changes nothing.
	Rollback(ctx context.Context) error

	// ArtifactRepository is bound to the transaction opened by Begin. Outside a
	// transaction it reads committed state.
	ArtifactRepository() ArtifactRepository
}

package memory

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/ports"
)

// ErrInvalidTransaction is returned by Commit and Rollback without a prior Begin.
var ErrInvalidTransaction = errors.New("invalid transaction")

// UnitOfWorkFactory hands out units of work over one Store.
type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork buffers writes in a stage between Begin and Commit. Outside a
// transaction the repository writes straight to the store.
type UnitOfWork struct {
	store   *Store
	tx      *stage
	tracked []kernel.UUID
}

// Begin is a no-op when a transaction is already open.
func (uow *UnitOfWork) Begin(_ context.Context) error {
	if uow.tx != nil {
		return nil
	}
	uow.tx = newStage(uow.store)
	return nil
}

func (uow *UnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return ErrInvalidTransaction
	}
	uow.store.apply(uow.tx)
	uow.tx = nil
	return nil
}

func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return ErrInvalidTransaction
	}
	uow.tx = nil
	uow.tracked = nil
	return nil
}

func (uow *UnitOfWork) ArtifactRepository() ports.ArtifactRepository {
	if uow.tx != nil {
		return newArtifactRepository(uow.tx, uow)
	}
	return newArtifactRepository(uow.store, uow)
}

func (uow *UnitOfWork) TrackAggregate(id kernel.UUID, _ any) {
	uow.tracked = append(uow.tracked, id)
}

// TrackedIDs lists the artifacts written through this unit, in write order.
// Rollback forgets them.
func (uow *UnitOfWork) TrackedIDs() []kernel.UUID {
	return append([]kernel.UUID(nil), uow.tracked...)
}

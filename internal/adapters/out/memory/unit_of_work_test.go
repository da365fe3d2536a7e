package memory

import (
	"testing"
	"time"

	"orderflow/internal/core/domain/model/artifact"
	"orderflow/internal/core/domain/model/department"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

func newTestArtifact(t *testing.T) *artifact.Artifact {
	t.Helper()
	a, err := artifact.New(kernel.NewUUID(), artifact.Draft{
		Customer: artifact.Customer{Name: "Acme", Email: "a@acme.com"},
		Items:    []string{"Widget"},
	}, "proposed", "comercial_1", now)
	require.NoError(t, err)
	return a
}

func TestUnitOfWork_CommitPublishesStagedWrites(t *testing.T) {
	ctx := t.Context()
	store := NewStore()
	uow := NewUnitOfWorkFactory(store).Create()
	a := newTestArtifact(t)

	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.ArtifactRepository().Add(ctx, a))

	staged, err := uow.ArtifactRepository().Get(ctx, a.ID())
	require.NoError(t, err)
	assert.Equal(t, a.Snapshot(), staged.Snapshot())

	_, err = NewUnitOfWorkFactory(store).Create().ArtifactRepository().Get(ctx, a.ID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound, "not visible before commit")

	require.NoError(t, uow.Commit(ctx))

	committed, err := NewUnitOfWorkFactory(store).Create().ArtifactRepository().Get(ctx, a.ID())
	require.NoError(t, err)
	assert.Equal(t, a.Snapshot(), committed.Snapshot())
}

func TestUnitOfWork_RollbackDiscardsWrites(t *testing.T) {
	ctx := t.Context()
	store := NewStore()
	uow := NewUnitOfWorkFactory(store).Create()

	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.ArtifactRepository().Add(ctx, newTestArtifact(t)))
	require.NoError(t, uow.Rollback(ctx))

	all, err := uow.ArtifactRepository().GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUnitOfWork_TrackedIDs_ShouldFollowWritesUntilRollback(t *testing.T) {
	// Arrange
	ctx := t.Context()
	uow := NewUnitOfWorkFactory(NewStore()).Create().(*UnitOfWork)
	first, second := newTestArtifact(t), newTestArtifact(t)
	require.NoError(t, uow.Begin(ctx))

	// Act
	require.NoError(t, uow.ArtifactRepository().Add(ctx, first))
	require.NoError(t, uow.ArtifactRepository().Add(ctx, second))
	require.NoError(t, uow.ArtifactRepository().Update(ctx, first))

	// Assert
	assert.Equal(t, []kernel.UUID{first.ID(), second.ID(), first.ID()}, uow.TrackedIDs())
	require.NoError(t, uow.Rollback(ctx))
	assert.Empty(t, uow.TrackedIDs())
}

func TestUnitOfWork_CommitWithoutBegin(t *testing.T) {
	uow := NewUnitOfWorkFactory(NewStore()).Create()

	require.ErrorIs(t, uow.Commit(t.Context()), ErrInvalidTransaction)
	require.ErrorIs(t, uow.Rollback(t.Context()), ErrInvalidTransaction)
}

func TestArtifactRepository_UpdateKeepsStoredHistory(t *testing.T) {
	ctx := t.Context()
	repo := NewUnitOfWorkFactory(NewStore()).Create().ArtifactRepository()
	a := newTestArtifact(t)
	require.NoError(t, repo.Add(ctx, a))

	record := a.RecordTransition(department.Commercial, "cancelled", "comercial_1", "lost",
		artifact.Data{"cancellationReason": "lost"}, now.Add(time.Hour))
	require.NoError(t, repo.Update(ctx, a))

	got, err := repo.Get(ctx, a.ID())
	require.NoError(t, err)
	assert.Len(t, got.History(), 1)
	assert.Equal(t, artifact.State("cancelled"), got.State(department.Commercial).State)

	require.NoError(t, repo.AppendHistory(ctx, a.ID(), record))

	got, err = repo.Get(ctx, a.ID())
	require.NoError(t, err)
	assert.Equal(t, a.History(), got.History())
}

func TestArtifactRepository_Errors(t *testing.T) {
	ctx := t.Context()
	repo := NewUnitOfWorkFactory(NewStore()).Create().ArtifactRepository()
	a := newTestArtifact(t)

	require.ErrorIs(t, repo.Update(ctx, a), errs.ErrObjectNotFound)
	require.ErrorIs(t, repo.AppendHistory(ctx, a.ID()), errs.ErrObjectNotFound)
	require.ErrorIs(t, repo.Delete(ctx, a.ID()), errs.ErrObjectNotFound)

	require.NoError(t, repo.Add(ctx, a))
	require.ErrorIs(t, repo.Add(ctx, a), errs.ErrValueIsInvalid)
}

func TestArtifactRepository_GetAllInCreationOrderAndDelete(t *testing.T) {
	ctx := t.Context()
	store := NewStore()
	repo := NewUnitOfWorkFactory(store).Create().ArtifactRepository()
	first, second, third := newTestArtifact(t), newTestArtifact(t), newTestArtifact(t)
	for _, a := range []*artifact.Artifact{first, second, third} {
		require.NoError(t, repo.Add(ctx, a))
	}

	uow := NewUnitOfWorkFactory(store).Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.ArtifactRepository().Delete(ctx, second.ID()))
	fourth := newTestArtifact(t)
	require.NoError(t, uow.ArtifactRepository().Add(ctx, fourth))

	staged, err := uow.ArtifactRepository().GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []kernel.UUID{first.ID(), third.ID(), fourth.ID()}, ids(staged))

	require.NoError(t, uow.Commit(ctx))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []kernel.UUID{first.ID(), third.ID(), fourth.ID()}, ids(all))
}

func TestArtifactRepository_ReturnsCopies(t *testing.T) {
	ctx := t.Context()
	repo := NewUnitOfWorkFactory(NewStore()).Create().ArtifactRepository()
	a := newTestArtifact(t)
	require.NoError(t, repo.Add(ctx, a))

	a.RecordTransition(department.Commercial, "cancelled", "x", "", artifact.Data{"k": "v"}, now)

	got, err := repo.Get(ctx, a.ID())
	require.NoError(t, err)
	assert.Equal(t, artifact.State("proposed"), got.State(department.Commercial).State)
	assert.Empty(t, got.State(department.Commercial).Data)
}

func ids(as []*artifact.Artifact) []kernel.UUID {
	out := make([]kernel.UUID, 0, len(as))
	for _, a := range as {
		out = append(out, a.ID())
	}
	return out
}

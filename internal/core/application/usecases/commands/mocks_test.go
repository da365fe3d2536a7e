package commands_test

import (
	"context"

	"orderflow/internal/core/application/eventbus"
	"orderflow/internal/core/domain/model/artifact"
	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockArtifactRepo struct{ mock.Mock }

func (m *MockArtifactRepo) Add(ctx context.Context, a *artifact.Artifact) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockArtifactRepo) Update(ctx context.Context, a *artifact.Artifact) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockArtifactRepo) AppendHistory(ctx context.Context, id kernel.UUID, records ...artifact.HistoryRecord) error {
	args := m.Called(ctx, id, records)
	return args.Error(0)
}

func (m *MockArtifactRepo) Get(ctx context.Context, id kernel.UUID) (*artifact.Artifact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*artifact.Artifact), args.Error(1)
}

func (m *MockArtifactRepo) GetAll(ctx context.Context) ([]*artifact.Artifact, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*artifact.Artifact), args.Error(1)
}

func (m *MockArtifactRepo) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUnitOfWork struct{ mock.Mock }

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) ArtifactRepository() ports.ArtifactRepository {
	args := m.Called()
	return args.Get(0).(ports.ArtifactRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() ports.UnitOfWork {
	args := m.Called()
	return args.Get(0).(ports.UnitOfWork)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, t event.Type, payload map[string]any) []eventbus.Result {
	args := m.Called(ctx, t, payload)
	results, _ := args.Get(0).([]eventbus.Result)
	return results
}

package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tempo-tracker/internal/domain/entities"
	"tempo-tracker/internal/domain/ports"
)

// Mock implementations for testing

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveTask(ctx context.Context, task *entities.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockStorage) GetTask(ctx context.Context, id string) (*entities.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Task), args.Error(1)
}

func (m *MockStorage) UpdateTask(ctx context.Context, task *entities.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockStorage) DeleteTask(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStorage) ListTasks(ctx context.Context, filters *ports.TaskFilters) ([]*entities.Task, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Task), args.Error(1)
}

func (m *MockStorage) SaveSession(ctx context.Context, session *entities.TimeSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockStorage) UpdateSession(ctx context.Context, session *entities.TimeSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockStorage) GetSession(ctx context.Context, id string) (*entities.TimeSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TimeSession), args.Error(1)
}

func (m *MockStorage) ListSessions(ctx context.Context, taskID string) ([]*entities.TimeSession, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.TimeSession), args.Error(1)
}

func (m *MockStorage) ActiveSession(ctx context.Context, taskID string) (*entities.TimeSession, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TimeSession), args.Error(1)
}

func (m *MockStorage) Stats(ctx context.Context) (ports.TaskStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(ports.TaskStats), args.Error(1)
}

func (m *MockStorage) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

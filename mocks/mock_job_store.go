package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"cargoscan/internal/domain"
)

// MockJobStore is a mock implementation of port.JobStore.
type MockJobStore struct {
	mock.Mock
}

func (m *MockJobStore) Enqueue(ctx context.Context, job *domain.ScanJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobStore) Get(ctx context.Context, id string) (*domain.ScanJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScanJob), args.Error(1)
}

func (m *MockJobStore) List(ctx context.Context, offset, limit int) ([]domain.ScanJob, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScanJob), args.Error(1)
}

func (m *MockJobStore) ClaimDue(ctx context.Context, limit int, now time.Time) ([]domain.ScanJob, error) {
	args := m.Called(ctx, limit, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScanJob), args.Error(1)
}

func (m *MockJobStore) MarkSucceeded(ctx context.Context, id, documentID string) error {
	args := m.Called(ctx, id, documentID)
	return args.Error(0)
}

func (m *MockJobStore) MarkRetry(ctx context.Context, id string, attempts int, nextRunAt time.Time, lastError string) error {
	args := m.Called(ctx, id, attempts, nextRunAt, lastError)
	return args.Error(0)
}

func (m *MockJobStore) MarkFailed(ctx context.Context, id string, failure domain.JobFailure) error {
	args := m.Called(ctx, id, failure)
	return args.Error(0)
}

func (m *MockJobStore) Cancel(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

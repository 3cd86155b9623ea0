package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"cargoscan/internal/domain"
)

// MockNotifier is a mock implementation of port.Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendJobCompleted(ctx context.Context, job *domain.ScanJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockNotifier) SendJobFailed(ctx context.Context, job *domain.ScanJob, failure domain.JobFailure) error {
	args := m.Called(ctx, job, failure)
	return args.Error(0)
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"cargoscan/internal/domain"
	"cargoscan/internal/port"
)

// MockDocumentStore is a mock implementation of port.DocumentStore.
type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Save(ctx context.Context, doc *domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentStore) GetAll(ctx context.Context) ([]domain.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentStore) Search(ctx context.Context, query string) ([]domain.Document, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentStore) SaveTempImage(ctx context.Context, sourcePath string) (string, error) {
	args := m.Called(ctx, sourcePath)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentStore) Subscribe(buffer int) (<-chan port.StoreEvent, func()) {
	args := m.Called(buffer)
	return args.Get(0).(<-chan port.StoreEvent), args.Get(1).(func())
}

func (m *MockDocumentStore) ClearCache() {
	m.Called()
}

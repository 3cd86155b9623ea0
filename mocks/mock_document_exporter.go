package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"cargoscan/internal/domain"
	"cargoscan/internal/service"
)

// MockDocumentExporter is a mock implementation of service.DocumentExporter.
type MockDocumentExporter struct {
	mock.Mock
}

func (m *MockDocumentExporter) PublishExcel(ctx context.Context, doc *domain.Document, name string) (*service.ExportArtifact, error) {
	args := m.Called(ctx, doc, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportArtifact), args.Error(1)
}

func (m *MockDocumentExporter) PublishJSON(ctx context.Context, doc *domain.Document, name string) (*service.ExportArtifact, error) {
	args := m.Called(ctx, doc, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportArtifact), args.Error(1)
}

func (m *MockDocumentExporter) PublishQR(ctx context.Context, doc *domain.Document, name string) (*service.ExportArtifact, error) {
	args := m.Called(ctx, doc, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportArtifact), args.Error(1)
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"cargoscan/internal/domain"
)

// MockTextRecognizer is a mock implementation of port.TextRecognizer.
type MockTextRecognizer struct {
	mock.Mock
}

func (m *MockTextRecognizer) ExtractText(ctx context.Context, imagePath string) (string, error) {
	args := m.Called(ctx, imagePath)
	return args.String(0), args.Error(1)
}

func (m *MockTextRecognizer) ExtractStructuredText(ctx context.Context, imagePath string) (map[string]string, error) {
	args := m.Called(ctx, imagePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockTextRecognizer) PreprocessImage(ctx context.Context, imagePath string) (string, error) {
	args := m.Called(ctx, imagePath)
	return args.String(0), args.Error(1)
}

func (m *MockTextRecognizer) DetectDocumentType(text string) domain.DocumentType {
	args := m.Called(text)
	return args.Get(0).(domain.DocumentType)
}

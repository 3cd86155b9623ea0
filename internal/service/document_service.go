package service

import (
	"context"
	"fmt"
	"strings"

	"cargoscan/internal/domain"
	"cargoscan/internal/port"
)

// DocumentService defines the stored-document management contract.
type DocumentService interface {
	Get(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context) ([]domain.Document, error)
	Search(ctx context.Context, query string) ([]domain.Document, error)
	Delete(ctx context.Context, id string) error
	UpdateTags(ctx context.Context, id string, tags []string) (*domain.Document, error)
	SetStarred(ctx context.Context, id string, starred bool) (*domain.Document, error)
}

type documentService struct {
	store port.DocumentStore
}

// NewDocumentService creates a DocumentService backed by the given store.
func NewDocumentService(store port.DocumentStore) DocumentService {
	return &documentService{store: store}
}

func (s *documentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	return s.store.Get(ctx, id)
}

func (s *documentService) List(ctx context.Context) ([]domain.Document, error) {
	return s.store.GetAll(ctx)
}

func (s *documentService) Search(ctx context.Context, query string) ([]domain.Document, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.store.GetAll(ctx)
	}
	return s.store.Search(ctx, query)
}

// Delete removes a stored document. An absent id is a no-op, matching
// the store; REST 404 semantics are the handler's decision.
func (s *documentService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func (s *documentService) UpdateTags(ctx context.Context, id string, tags []string) (*domain.Document, error) {
	doc, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(tags))
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[strings.ToLower(t)] {
			continue
		}
		seen[strings.ToLower(t)] = true
		cleaned = append(cleaned, t)
	}

	doc.Tags = cleaned
	if err := s.store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("updating tags for %s: %w", id, err)
	}
	return doc, nil
}

func (s *documentService) SetStarred(ctx context.Context, id string, starred bool) (*domain.Document, error) {
	doc, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	doc.Starred = starred
	if err := s.store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("updating star for %s: %w", id, err)
	}
	return doc, nil
}

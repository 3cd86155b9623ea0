package port

import (
	"context"

	"cargoscan/internal/domain"
)

// StoreOp tags a store change notification.
type StoreOp string

const (
	StoreOpSave   StoreOp = "save"
	StoreOpDelete StoreOp = "delete"
)

// StoreEvent is published to subscribers whenever the index changes.
type StoreEvent struct {
	Op         StoreOp
	DocumentID string
}

// DocumentStore defines the contract for document persistence: flat-file
// bodies keyed by identifier plus an ordered index of known identifiers.
type DocumentStore interface {
	// Save writes the body, then adds the id to the index if absent.
	// Re-saving an existing id overwrites the body.
	Save(ctx context.Context, doc *domain.Document) error
	// Get returns domain.ErrNotFound for unknown, missing or corrupt bodies.
	Get(ctx context.Context, id string) (*domain.Document, error)
	// GetAll returns documents in index insertion order, skipping index
	// entries whose body is missing or corrupt.
	GetAll(ctx context.Context) ([]domain.Document, error)
	// Delete removes body and index entry. Unknown ids are a no-op.
	Delete(ctx context.Context, id string) error
	// Search does a case-insensitive substring match over the
	// type-specific searchable fields of every stored document.
	Search(ctx context.Context, query string) ([]domain.Document, error)
	// SaveTempImage copies an externally-owned image into storage the
	// store controls and returns the stable path. The source is fully
	// drained before returning.
	SaveTempImage(ctx context.Context, sourcePath string) (string, error)
	// Subscribe registers a change listener. The returned cancel func
	// must be called to release it.
	Subscribe(buffer int) (<-chan StoreEvent, func())
	// ClearCache drops the in-memory read-through cache.
	ClearCache()
}

// Package store implements the flat-file document store: one JSON body
// per document, an ordered identifier index persisted separately, an
// unbounded in-memory read-through cache, and change notifications.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"cargoscan/internal/domain"
	"cargoscan/internal/port"
)

const (
	docsDirName   = "documents"
	imagesDirName = "images"
	indexFileName = "documents.index"
)

// FileStore is the flat-file port.DocumentStore implementation.
type FileStore struct {
	docsDir   string
	imagesDir string
	indexPath string

	mu    sync.RWMutex
	cache map[string]*domain.Document

	subMu   sync.Mutex
	subs    map[int]chan port.StoreEvent
	nextSub int
}

var _ port.DocumentStore = (*FileStore)(nil)

// New creates the store directories under dataDir if needed.
func New(dataDir string) (*FileStore, error) {
	s := &FileStore{
		docsDir:   filepath.Join(dataDir, docsDirName),
		imagesDir: filepath.Join(dataDir, imagesDirName),
		indexPath: filepath.Join(dataDir, indexFileName),
		cache:     make(map[string]*domain.Document),
		subs:      make(map[int]chan port.StoreEvent),
	}
	for _, dir := range []string{s.docsDir, s.imagesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: creating %s: %v", domain.ErrStorage, dir, err)
		}
	}
	return s, nil
}

func (s *FileStore) bodyPath(id string) string {
	return filepath.Join(s.docsDir, id+".json")
}

// Save writes the body first, then updates the index: an index entry
// without a body degrades to not-found on read, while a body without an
// index entry would orphan the document.
func (s *FileStore) Save(_ context.Context, doc *domain.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding document %s: %v", domain.ErrStorage, doc.ID, err)
	}
	if err := writeFileAtomic(s.bodyPath(doc.ID), data); err != nil {
		return fmt.Errorf("%w: writing document %s: %v", domain.ErrStorage, doc.ID, err)
	}

	s.mu.Lock()
	ids, err := s.readIndex()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if !contains(ids, doc.ID) {
		ids = append(ids, doc.ID)
		if err := s.writeIndex(ids); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	s.cache[doc.ID] = doc.Clone()
	s.mu.Unlock()

	s.publish(port.StoreEvent{Op: port.StoreOpSave, DocumentID: doc.ID})
	return nil
}

// Get serves from the read-through cache, falling back to the body file.
// Missing and corrupt bodies both report domain.ErrNotFound.
func (s *FileStore) Get(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	if doc, ok := s.cache[id]; ok {
		s.mu.RUnlock()
		return doc.Clone(), nil
	}
	s.mu.RUnlock()

	data, err := os.ReadFile(s.bodyPath(id))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Printf("store: corrupt body for %s: %v", id, err)
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	if err := doc.Validate(); err != nil {
		log.Printf("store: invalid body for %s: %v", id, err)
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}

	s.mu.Lock()
	s.cache[id] = doc.Clone()
	s.mu.Unlock()
	return &doc, nil
}

// GetAll returns documents in index insertion order. Identifiers whose
// body is missing or corrupt are skipped, not failed.
func (s *FileStore) GetAll(ctx context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	ids, err := s.readIndex()
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	docs := make([]domain.Document, 0, len(ids))
	for _, id := range ids {
		doc, err := s.Get(ctx, id)
		if err != nil {
			continue
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

// Delete removes body and index entry. Deleting an unknown id is a no-op.
func (s *FileStore) Delete(_ context.Context, id string) error {
	if err := os.Remove(s.bodyPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: removing document %s: %v", domain.ErrStorage, id, err)
	}

	s.mu.Lock()
	ids, err := s.readIndex()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	indexed := contains(ids, id)
	if indexed {
		kept := ids[:0]
		for _, v := range ids {
			if v != id {
				kept = append(kept, v)
			}
		}
		if err := s.writeIndex(kept); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	delete(s.cache, id)
	s.mu.Unlock()

	if indexed {
		s.publish(port.StoreEvent{Op: port.StoreOpDelete, DocumentID: id})
	}
	return nil
}

// Search does a case-insensitive substring match over the type-specific
// searchable fields, composed over the current index state.
func (s *FileStore) Search(ctx context.Context, query string) ([]domain.Document, error) {
	docs, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return docs, nil
	}
	matched := docs[:0]
	for _, doc := range docs {
		if strings.Contains(doc.SearchText(), q) {
			matched = append(matched, doc)
		}
	}
	return matched, nil
}

// SaveTempImage copies an externally-owned image into the store's image
// directory, fully draining the source before returning: the source
// reference may be revoked by the platform after this call.
func (s *FileStore) SaveTempImage(_ context.Context, sourcePath string) (string, error) {
	src, err := os.Open(sourcePath)
	if err != nil {
		return "", fmt.Errorf("%w: opening source image: %v", domain.ErrStorage, err)
	}
	defer func() { _ = src.Close() }()

	ext := filepath.Ext(sourcePath)
	if ext == "" {
		ext = ".jpg"
	}
	stable := filepath.Join(s.imagesDir, uuid.New().String()+ext)

	dst, err := os.Create(stable)
	if err != nil {
		return "", fmt.Errorf("%w: creating stable image: %v", domain.ErrStorage, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(stable)
		return "", fmt.Errorf("%w: copying image: %v", domain.ErrStorage, err)
	}
	if err := dst.Sync(); err != nil {
		_ = dst.Close()
		return "", fmt.Errorf("%w: syncing image: %v", domain.ErrStorage, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("%w: closing image: %v", domain.ErrStorage, err)
	}
	return stable, nil
}

// Subscribe registers a change listener. Events are dropped rather than
// blocking a slow consumer.
func (s *FileStore) Subscribe(buffer int) (<-chan port.StoreEvent, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan port.StoreEvent, buffer)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
		s.subMu.Unlock()
	}
	return ch, cancel
}

// ClearCache drops the in-memory cache. Intended for tests/diagnostics.
func (s *FileStore) ClearCache() {
	s.mu.Lock()
	s.cache = make(map[string]*domain.Document)
	s.mu.Unlock()
}

func (s *FileStore) publish(ev port.StoreEvent) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

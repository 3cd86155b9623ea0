package store

import (
	"fmt"
	"os"
	"strings"

	"cargoscan/internal/domain"
)

// The index is a comma-delimited identifier list in a small preferences
// file, kept separate from document bodies so enumeration never loads
// them. Callers must hold s.mu.

func (s *FileStore) readIndex() ([]string, error) {
	data, err := os.ReadFile(s.indexPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading index: %v", domain.ErrStorage, err)
	}
	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return nil, nil
	}
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *FileStore) writeIndex(ids []string) error {
	if err := writeFileAtomic(s.indexPath, []byte(strings.Join(ids, ","))); err != nil {
		return fmt.Errorf("%w: writing index: %v", domain.ErrStorage, err)
	}
	return nil
}

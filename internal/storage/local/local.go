// Package local publishes export artifacts to a directory on disk, the
// equivalent of the user-visible documents folder.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cargoscan/internal/port"
)

type localStorage struct {
	dir string
}

// New creates an ObjectStorage writing under dir.
func New(dir string) (port.ObjectStorage, error) {
	if dir == "" {
		return nil, fmt.Errorf("local storage: directory not configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("local storage: creating %s: %w", dir, err)
	}
	return &localStorage{dir: dir}, nil
}

func (s *localStorage) Put(ctx context.Context, input port.PutInput) (*port.PutOutput, error) {
	path, err := s.resolve(input.Key)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(s.dir, ".put-*")
	if err != nil {
		return nil, fmt.Errorf("local storage: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, input.Body); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("local storage: writing %s: %w", input.Key, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("local storage: syncing %s: %w", input.Key, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("local storage: closing %s: %w", input.Key, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return nil, fmt.Errorf("local storage: placing %s: %w", input.Key, err)
	}

	return &port.PutOutput{Location: path}, nil
}

func (s *localStorage) Delete(ctx context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("local storage: removing %s: %w", key, err)
	}
	return nil
}

// resolve rejects keys that would escape the storage directory.
func (s *localStorage) resolve(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("local storage: empty key")
	}
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	rel, err := filepath.Rel(s.dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("local storage: key %q escapes storage directory", key)
	}
	return path, nil
}

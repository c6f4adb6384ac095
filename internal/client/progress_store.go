package client

import (
	"encoding/json"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"sync"
)

// MemoryProgressStore keeps progress slots in a map. Used in tests and as the
// default when no durable directory is configured.
type MemoryProgressStore struct {
	mu    sync.RWMutex
	slots map[string]Progress
}

func NewMemoryProgressStore() *MemoryProgressStore {
	return &MemoryProgressStore{slots: make(map[string]Progress)}
}

func (s *MemoryProgressStore) Load(key string) (Progress, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	progress, ok := s.slots[key]
	return progress, ok, nil
}

func (s *MemoryProgressStore) Save(key string, progress Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = progress
	return nil
}

// FileProgressStore persists one JSON file per session key under a directory,
// so progress survives restarts and slots never share storage.
type FileProgressStore struct {
	dir string
}

func NewFileProgressStore(dir string) (*FileProgressStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileProgressStore{dir: dir}, nil
}

func (s *FileProgressStore) Load(key string) (Progress, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return Progress{}, false, nil
	}
	if err != nil {
		return Progress{}, false, err
	}
	var progress Progress
	if err := json.Unmarshal(data, &progress); err != nil {
		return Progress{}, false, err
	}
	return progress, true, nil
}

func (s *FileProgressStore) Save(key string, progress Progress) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(key), data, 0o644)
}

func (s *FileProgressStore) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+".json")
}

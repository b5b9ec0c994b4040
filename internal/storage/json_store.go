package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitual/internal/models"
)

type cacheFile struct {
	Version   int                        `json:"version"`
	Snapshots map[string]models.Snapshot `json:"snapshots"`
}

type JSONStore struct {
	path  string
	store *cacheFile
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{
		path: path,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	s.store = &cacheFile{
		Version:   1,
		Snapshots: make(map[string]models.Snapshot),
	}
	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("cache not initialized at %s", s.path)
		}
		return fmt.Errorf("failed to read cache: %w", err)
	}

	s.store = &cacheFile{}
	if err := json.Unmarshal(data, s.store); err != nil {
		return fmt.Errorf("failed to parse cache: %w", err)
	}
	if s.store.Snapshots == nil {
		s.store.Snapshots = make(map[string]models.Snapshot)
	}
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize cache: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

func (s *JSONStore) SaveSnapshot(userID string, snap models.Snapshot) error {
	if s.store == nil {
		return fmt.Errorf("cache not loaded")
	}
	s.store.Snapshots[userID] = snap
	return s.save()
}

func (s *JSONStore) GetSnapshot(userID string) (models.Snapshot, error) {
	if s.store == nil {
		return models.Snapshot{}, fmt.Errorf("cache not loaded")
	}
	snap, ok := s.store.Snapshots[userID]
	if !ok {
		return models.Snapshot{}, ErrNoSnapshot
	}
	return snap, nil
}

func (s *JSONStore) Clear() error {
	if s.store == nil {
		return fmt.Errorf("cache not loaded")
	}
	s.store.Snapshots = make(map[string]models.Snapshot)
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps each slot in its own JSON file under a state directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Get reads a slot. Any read error degrades to absence.
func (s *FileStore) Get(key string) (string, bool) {
	data, err := os.ReadFile(s.slotPath(key))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Set writes a slot atomically (temp file + rename).
func (s *FileStore) Set(key, value string) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	path := s.slotPath(key)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(value), 0644); err != nil {
		return fmt.Errorf("failed to write snapshot temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename snapshot temp file: %w", err)
	}
	return nil
}

// Remove deletes a slot. Removing a missing slot is not an error.
func (s *FileStore) Remove(key string) error {
	err := os.Remove(s.slotPath(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *FileStore) slotPath(key string) string {
	return filepath.Join(s.dir, key+".json")
}

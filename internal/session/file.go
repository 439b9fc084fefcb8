package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const fileName = "abcid.json"

type fileEntry struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// FileStore keeps the id in a small JSON file, so that repeated CLI runs
// report as the same visitor.
type FileStore struct {
	path string
	now  func() time.Time
}

// NewFileStore returns a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// DefaultPath returns "$XDG_CONFIG_HOME/aanbieders/abcid.json" or equivalent.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "aanbieders", fileName), nil
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// Get reports a miss for a missing, unreadable or expired file.
func (s *FileStore) Get(_ context.Context) (string, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false, nil
	}
	var e fileEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return "", false, nil
	}
	if strings.TrimSpace(e.ID) == "" || !s.now().Before(e.ExpiresAt) {
		return "", false, nil
	}
	return e.ID, true, nil
}

func (s *FileStore) Set(_ context.Context, id string, ttl time.Duration) error {
	data, err := json.Marshal(fileEntry{ID: id, ExpiresAt: s.now().Add(ttl).UTC()})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(s.path), err)
	}

	// Atomic-ish write: write temp then rename.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write tracking id: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// Clear removes the backing file.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

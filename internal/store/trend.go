package store

import (
	"fmt"
	"os"
	"path/filepath"

	"threadcaster/internal/models"
)

// TrendStore persists the shared trend snapshot file. An external
// collaborator refreshes it; this process only ever reads (and rewrites
// when the collaborator runs in-process via Save).
type TrendStore struct {
	path string
}

// NewTrendStore creates a trend store under dir.
func NewTrendStore(dir string) (*TrendStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &TrendStore{path: filepath.Join(dir, "trend_snapshot.json")}, nil
}

// Load returns the current snapshot, or nil when none exists yet.
func (t *TrendStore) Load() (*models.TrendSnapshot, error) {
	var snapshot models.TrendSnapshot
	if err := readJSON(t.path, &snapshot); err != nil {
		return nil, err
	}
	if snapshot.FetchedAt.IsZero() {
		return nil, nil
	}
	return &snapshot, nil
}

// Save replaces the snapshot.
func (t *TrendStore) Save(snapshot models.TrendSnapshot) error {
	lock, err := acquireLock(t.path + ".lock")
	if err != nil {
		return err
	}
	defer lock.release()

	return writeJSON(t.path, snapshot)
}

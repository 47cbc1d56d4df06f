// Package store owns the persisted state files: per-account post history,
// the shared reply ledger and the shared trend snapshot. Every mutation is a
// full read-modify-write guarded by an exclusive lock file, with the rewrite
// done via temp-file-plus-rename so readers never observe a torn file.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RetentionWindow is how long history and ledger entries are kept.
// Pruning happens on every write, never as a separate pass.
const RetentionWindow = 90 * 24 * time.Hour

const (
	lockRetryInterval = 50 * time.Millisecond
	lockTimeout       = 5 * time.Second
	lockStaleAfter    = 30 * time.Second
)

// ErrLockTimeout is returned when another process holds a state file lock
// for longer than the acquisition budget.
var ErrLockTimeout = errors.New("timed out waiting for state file lock")

// fileLock is an exclusive advisory lock implemented with O_EXCL creation.
// A lock older than lockStaleAfter is treated as left behind by a crashed
// process and broken.
type fileLock struct {
	path string
}

func acquireLock(path string) (*fileLock, error) {
	deadline := time.Now().Add(lockTimeout)
	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if err == nil {
			fmt.Fprintf(f, "%d %s", os.Getpid(), time.Now().Format(time.RFC3339))
			f.Close()
			return &fileLock{path: path}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create lock file: %w", err)
		}

		if info, statErr := os.Stat(path); statErr == nil && time.Since(info.ModTime()) > lockStaleAfter {
			os.Remove(path)
			continue
		}

		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}
		time.Sleep(lockRetryInterval)
	}
}

func (l *fileLock) release() {
	os.Remove(l.path)
}

// readJSON decodes a JSON state file into out. A missing file is not an
// error; out is left untouched.
func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// writeJSON writes v to path atomically: marshal, write a temp file in the
// same directory, then rename over the target.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

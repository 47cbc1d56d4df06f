package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"threadcaster/internal/models"
)

// ReplyLedger persists the buzz cascade's reply records. It exists for
// dedup and the daily cap counter; one file shared by all accounts.
type ReplyLedger struct {
	path string
}

// NewReplyLedger creates a reply ledger stored under dir.
func NewReplyLedger(dir string) (*ReplyLedger, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &ReplyLedger{path: filepath.Join(dir, "reply_ledger.json")}, nil
}

// Load returns all ledger entries, oldest first.
func (l *ReplyLedger) Load() ([]models.ReplyRecord, error) {
	var records []models.ReplyRecord
	if err := readJSON(l.path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Append adds a reply record, pruning entries past retention.
func (l *ReplyLedger) Append(rec models.ReplyRecord) error {
	lock, err := acquireLock(l.path + ".lock")
	if err != nil {
		return err
	}
	defer lock.release()

	records, err := l.Load()
	if err != nil {
		return err
	}

	records = append(records, rec)

	now := time.Now()
	kept := records[:0]
	for _, r := range records {
		if now.Sub(r.Date) <= RetentionWindow {
			kept = append(kept, r)
		}
	}

	return writeJSON(l.path, kept)
}

// HasReplied reports whether a thread already has a ledger entry.
func (l *ReplyLedger) HasReplied(threadID string) (bool, error) {
	records, err := l.Load()
	if err != nil {
		return false, err
	}
	for _, r := range records {
		if r.OriginalThread == threadID {
			return true, nil
		}
	}
	return false, nil
}

// CountSince returns how many replies were recorded at or after t,
// backing the cascade's daily cap.
func (l *ReplyLedger) CountSince(t time.Time) (int, error) {
	records, err := l.Load()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, r := range records {
		if !r.Date.Before(t) {
			n++
		}
	}
	return n, nil
}

package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"threadcaster/internal/models"
)

// HistoryStore persists one append-only post history file per account.
// Histories are strictly partitioned; nothing here reads across accounts.
type HistoryStore struct {
	dir string
}

// NewHistoryStore creates a history store rooted at dir.
func NewHistoryStore(dir string) (*HistoryStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &HistoryStore{dir: dir}, nil
}

func (s *HistoryStore) filePath(account string) string {
	return filepath.Join(s.dir, "history_"+account+".json")
}

func (s *HistoryStore) lockPath(account string) string {
	return s.filePath(account) + ".lock"
}

// Load returns all post records for an account, oldest first.
func (s *HistoryStore) Load(account string) ([]models.PostRecord, error) {
	var records []models.PostRecord
	if err := readJSON(s.filePath(account), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Append adds a record to the account's history and prunes entries older
// than the retention window in the same write.
func (s *HistoryStore) Append(account string, rec models.PostRecord) error {
	lock, err := acquireLock(s.lockPath(account))
	if err != nil {
		return err
	}
	defer lock.release()

	records, err := s.Load(account)
	if err != nil {
		return err
	}

	records = append(records, rec)
	records = pruneRecords(records, time.Now())

	return writeJSON(s.filePath(account), records)
}

// UpdateEngagement stores an engagement snapshot on the record with the
// given platform post id. Records are otherwise immutable.
func (s *HistoryStore) UpdateEngagement(account, platformPostID string, e models.Engagement, at time.Time) error {
	lock, err := acquireLock(s.lockPath(account))
	if err != nil {
		return err
	}
	defer lock.release()

	records, err := s.Load(account)
	if err != nil {
		return err
	}

	found := false
	for i := range records {
		if records[i].PlatformPostID == platformPostID {
			records[i].SetEngagement(e, at)
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("no history record for post %s", platformPostID)
	}

	return writeJSON(s.filePath(account), records)
}

// RecentCategories returns the categories posted within the window,
// used for the selector's cooldown filter.
func (s *HistoryStore) RecentCategories(account string, window time.Duration, now time.Time) (map[string]bool, error) {
	records, err := s.Load(account)
	if err != nil {
		return nil, err
	}

	recent := make(map[string]bool)
	for _, rec := range records {
		if !rec.IsReply() && now.Sub(rec.Date) <= window {
			recent[rec.Category] = true
		}
	}
	return recent, nil
}

// TopicUsedSince reports whether a topic key appears in history within the
// dedup window.
func (s *HistoryStore) TopicUsedSince(account, topicKey string, window time.Duration, now time.Time) (bool, error) {
	records, err := s.Load(account)
	if err != nil {
		return false, err
	}
	for _, rec := range records {
		if rec.TopicKey == topicKey && now.Sub(rec.Date) <= window {
			return true, nil
		}
	}
	return false, nil
}

func pruneRecords(records []models.PostRecord, now time.Time) []models.PostRecord {
	kept := records[:0]
	for _, rec := range records {
		if now.Sub(rec.Date) <= RetentionWindow {
			kept = append(kept, rec)
		}
	}
	return kept
}

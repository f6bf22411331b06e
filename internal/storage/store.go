package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"hybridtest/internal/config"
)

const bucketRuns = "runs"

// RunRecord is one completed orchestration, persisted for the history view.
type RunRecord struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Mode      config.Mode `json:"mode"`
	Headless  bool        `json:"headless"`

	// Artifact presence at summary time
	Artifacts map[string]bool `json:"artifacts"`

	// Aggregates pulled from the merged report when it was produced
	LoadRequests int     `json:"load_requests"`
	UITests      int     `json:"ui_tests"`
	SuccessRate  float64 `json:"success_rate"`
}

type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) the history database under the user's home dir.
func Open() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(home, ".hybridtest")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return OpenPath(filepath.Join(dir, "history.db"))
}

// OpenPath opens a history database at an explicit path.
func OpenPath(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open history db")
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketRuns))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Save(rec RunRecord) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketRuns))

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		// Keyed by timestamp so a cursor walk returns chronological order.
		key := []byte(rec.Timestamp.UTC().Format(time.RFC3339Nano) + "|" + rec.ID)
		return b.Put(key, data)
	})
}

// List returns records newest first.
func (s *Store) List() []RunRecord {
	var items []RunRecord

	s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketRuns))
		c := b.Cursor()

		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var rec RunRecord
			if err := json.Unmarshal(v, &rec); err == nil {
				items = append(items, rec)
			}
		}
		return nil
	})

	return items
}

func (s *Store) Get(id string) (*RunRecord, error) {
	var found *RunRecord
	s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketRuns))
		return b.ForEach(func(_, v []byte) error {
			var rec RunRecord
			if err := json.Unmarshal(v, &rec); err == nil && rec.ID == id {
				found = &rec
			}
			return nil
		})
	})
	if found == nil {
		return nil, errors.Errorf("run %s not found", id)
	}
	return found, nil
}

// Package store keeps a history of pipeline runs in a BoltDB file. Each run
// is a JSON record keyed by a time-ordered UUID, so cursor order is run
// order.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/Shamima085/Predict-Customer-Churn/pkg/churnerr"
)

const runsBucket = "runs"

// Run is one pipeline execution.
type Run struct {
	ID        string             `json:"id"`
	StartedAt time.Time          `json:"startedAt"`
	Duration  time.Duration      `json:"duration"`
	DataPath  string             `json:"dataPath"`
	Rows      int                `json:"rows"`
	Features  []string           `json:"features"`
	BestGrid  string             `json:"bestGrid"`
	CVScore   float64            `json:"cvScore"`
	Scores    map[string]float64 `json:"scores"` // e.g. rf_test_accuracy, logistic_auc
	Err       string             `json:"err,omitempty"`
}

type Store struct {
	db *bbolt.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(runsBucket)); err != nil {
			return fmt.Errorf("create runs bucket: %w", err)
		}
		return nil
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

// NewRunID returns a time-ordered run identifier.
func NewRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Put stores r, assigning an ID when it has none, and returns the ID.
func (s *Store) Put(r Run) (string, error) {
	if r.ID == "" {
		r.ID = NewRunID()
	}
	b, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshal run: %w", err)
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(runsBucket)).Put([]byte(r.ID), b)
	})
	if err != nil {
		return "", err
	}
	return r.ID, nil
}

func (s *Store) Get(id string) (Run, error) {
	var r Run
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(runsBucket)).Get([]byte(id))
		if v == nil {
			return churnerr.New(churnerr.NotFound, "store.Get", "run %s", id)
		}
		return json.Unmarshal(v, &r)
	})
	return r, err
}

// List returns every stored run, oldest first.
func (s *Store) List() ([]Run, error) {
	var runs []Run
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(runsBucket)).ForEach(func(k, v []byte) error {
			var r Run
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("unmarshal run %s: %w", k, err)
			}
			runs = append(runs, r)
			return nil
		})
	})
	return runs, err
}

// Latest returns the most recent run.
func (s *Store) Latest() (Run, error) {
	var r Run
	err := s.db.View(func(tx *bbolt.Tx) error {
		k, v := tx.Bucket([]byte(runsBucket)).Cursor().Last()
		if k == nil {
			return churnerr.New(churnerr.NotFound, "store.Latest", "no runs recorded")
		}
		return json.Unmarshal(v, &r)
	})
	return r, err
}

// IsNotFound reports whether err means the run does not exist.
func IsNotFound(err error) bool { return errors.Is(err, churnerr.ErrNotFound) }

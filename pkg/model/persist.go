package model

import (
	"encoding"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Shamima085/Predict-Customer-Churn/pkg/churnerr"
)

// ModelExt is the file extension of serialized models.
const ModelExt = ".gob"

// Save serializes m to path, creating parent directories. The file is
// overwritten in place.
func Save(path string, m encoding.BinaryMarshaler) error {
	b, err := m.MarshalBinary()
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Load reads a model written by Save into m.
func Load(path string, m encoding.BinaryUnmarshaler) error {
	const op = "model.Load"
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return churnerr.Wrap(churnerr.NotFound, op, err)
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	if err := m.UnmarshalBinary(b); err != nil {
		return churnerr.Wrap(churnerr.MalformedInput, op, err)
	}
	return nil
}

// LoadRandomForest reads a forest written by Save.
func LoadRandomForest(path string) (*RandomForest, error) {
	rf := &RandomForest{}
	if err := Load(path, rf); err != nil {
		return nil, err
	}
	return rf, nil
}

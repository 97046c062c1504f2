package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vbonduro/smartgrocer/internal/domain"
)

// FileStore persists the inventory snapshot as a JSON file. It is a pure
// serialize/deserialize boundary: the in-memory snapshot lives in the
// inventory manager, and every successful mutation is re-saved here.
type FileStore struct {
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create inventory directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Load reads the snapshot from disk. A missing file is the first-run case and
// yields an empty snapshot; a file that exists but does not parse yields a
// *domain.CorruptStoreError.
func (s *FileStore) Load() (domain.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory file: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, &domain.CorruptStoreError{Path: s.path, Err: err}
	}
	if snap == nil {
		snap = domain.Snapshot{}
	}
	return snap, nil
}

// Save durably writes the snapshot. The write goes to a temp file in the same
// directory which is then renamed over the target, so a crash mid-write can
// never leave a half-written inventory file.
func (s *FileStore) Save(snap domain.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return &domain.StoreWriteError{Path: s.path, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return &domain.StoreWriteError{Path: s.path, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return &domain.StoreWriteError{Path: s.path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return &domain.StoreWriteError{Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return &domain.StoreWriteError{Path: s.path, Err: err}
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return &domain.StoreWriteError{Path: s.path, Err: err}
	}
	return nil
}

package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/smartgrocer/internal/domain"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "inventory.json"))
	require.NoError(t, err)
	return s
}

func TestFileStoreLoadFirstRun(t *testing.T) {
	s := newTestFileStore(t)

	snap, err := s.Load()
	require.NoError(t, err)
	assert.NotNil(t, snap)
	assert.Empty(t, snap)
}

func TestFileStoreRoundTrip(t *testing.T) {
	s := newTestFileStore(t)

	exp := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	snap := domain.Snapshot{
		"milk": {
			Name:       "milk",
			Quantity:   1.5,
			Unit:       "l",
			Category:   "dairy",
			AcquiredAt: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
			ExpiresAt:  &exp,
		},
		"rice": {
			Name:       "rice",
			Quantity:   2,
			Unit:       "kg",
			AcquiredAt: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		},
	}

	require.NoError(t, s.Save(snap))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, snap, loaded)

	// load -> save -> load must yield an identical snapshot.
	require.NoError(t, s.Save(loaded))
	again, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, loaded, again)
}

func TestFileStoreLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	s, err := NewFileStore(path)
	require.NoError(t, err)

	_, err = s.Load()
	var corrupt *domain.CorruptStoreError
	require.ErrorAs(t, err, &corrupt)
	assert.Equal(t, path, corrupt.Path)
}

func TestFileStoreSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(filepath.Join(dir, "inventory.json"))
	require.NoError(t, err)

	require.NoError(t, s.Save(domain.Snapshot{"salt": {Name: "salt", Quantity: 1, Unit: "kg"}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "inventory.json", entries[0].Name())
}

func TestFileStoreSaveUnwritableDir(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("directory permissions do not restrict root")
	}
	dir := t.TempDir()
	s, err := NewFileStore(filepath.Join(dir, "inventory.json"))
	require.NoError(t, err)
	require.NoError(t, os.Chmod(dir, 0500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0700) })

	err = s.Save(domain.Snapshot{})
	var write *domain.StoreWriteError
	assert.ErrorAs(t, err, &write)
}

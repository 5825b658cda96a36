package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpen_ValidationErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		dbPath      string
		expectedErr string
	}{
		{"empty_path", "", "empty database path"},
		{"whitespace_path", "   ", "empty database path"},
		{"tabs_path", "\t\t", "empty database path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(ctx, tt.dbPath)
			assert.Nil(t, store)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestOpen_Success(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(ctx, dbPath)
	assert.NoError(t, err)
	assert.NotNil(t, store)
	assert.NotNil(t, store.db)

	assert.NoError(t, store.Close())
}

func TestOpen_DirectoryCreation(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "nested", "deep", "test.db")

	store, err := Open(ctx, dbPath)
	assert.NoError(t, err)
	assert.NotNil(t, store)
	assert.DirExists(t, filepath.Dir(dbPath))

	assert.NoError(t, store.Close())
}

func TestOpen_FilePermissions(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(ctx, dbPath)
	assert.NoError(t, err)
	assert.NotNil(t, store)

	info, err := os.Stat(dbPath)
	assert.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	assert.NoError(t, store.Close())
}

func TestOpen_ExistingFile(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "existing.db")

	store1, err := Open(ctx, dbPath)
	assert.NoError(t, err)
	assert.NoError(t, store1.Close())

	// Re-open: migration must be idempotent
	store2, err := Open(ctx, dbPath)
	assert.NoError(t, err)
	assert.NotNil(t, store2)
	assert.NoError(t, store2.Close())
}

func TestStore_CloseNil(t *testing.T) {
	var s *Store
	assert.NoError(t, s.Close())
	assert.NoError(t, (&Store{}).Close())
}

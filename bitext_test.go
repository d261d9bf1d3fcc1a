package bitext

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	t.Run("create new store", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		store, err := Open(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, store)
		defer store.Close()

		// Verify components are initialized
		assert.NotNil(t, store.ChunkRepository())
		assert.NotNil(t, store.AlignmentRepository())
		assert.NotNil(t, store.Provider())
		assert.NotNil(t, store.backend)
		assert.NotNil(t, store.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// Try to create a store at a file path instead of directory
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		store, err := Open(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, store)
	})

	t.Run("in-memory store leaves no files", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "unused")
		store, err := Open(tmpDir, WithInMemory())
		require.NoError(t, err)
		defer store.Close()

		_, err = os.Stat(tmpDir)
		assert.True(t, os.IsNotExist(err))
	})
}

func TestStore_Close(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := Open(tmpDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	// Close the store
	err = store.Close()
	assert.NoError(t, err)
}

func TestStore_FactoryMethods(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := Open(tmpDir)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	t.Run("can create lookup service", func(t *testing.T) {
		service, err := store.NewLookupService()
		require.NoError(t, err)
		require.NotNil(t, service)
	})

	t.Run("can create index builder", func(t *testing.T) {
		builder, err := store.NewIndexBuilder()
		require.NoError(t, err)
		require.NotNil(t, builder)
	})

	t.Run("can create reranker", func(t *testing.T) {
		reranker, err := store.NewReranker()
		require.NoError(t, err)
		require.NotNil(t, reranker)
		reranker.Release()
	})

	t.Run("can create validator", func(t *testing.T) {
		validator, err := store.NewValidator()
		require.NoError(t, err)
		require.NotNil(t, validator)
		validator.Release()
	})
}

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGetMissingKey(t *testing.T) {
	s := setupTestStore(t)

	value, err := s.Get(context.Background(), TokenKey)
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestSetAndOverwrite(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	require.NoError(t, s.Set(ctx, TokenKey, "first"))
	require.NoError(t, s.Set(ctx, TokenKey, "second"))

	value, err := s.Get(ctx, TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "second", value)
}

func TestSetEmptyClears(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	require.NoError(t, s.Set(ctx, TokenKey, "abc"))
	require.NoError(t, s.Set(ctx, TokenKey, ""))

	value, err := s.Get(ctx, TokenKey)
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestDeleteMissingKeyIsNoop(t *testing.T) {
	s := setupTestStore(t)
	assert.NoError(t, s.Delete(context.Background(), "nothing-here"))
}

func TestOpenDefaultPersists(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", ".trellis")

	s, err := OpenDefault(ctx, dir)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, TokenKey, "persisted"))
	require.NoError(t, s.Close())

	reopened, err := OpenDefault(ctx, dir)
	require.NoError(t, err)
	defer reopened.Close()

	value, err := reopened.Get(ctx, TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "persisted", value)
	assert.FileExists(t, filepath.Join(dir, "data.db"))
}

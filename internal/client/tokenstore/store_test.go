// File: internal/client/tokenstore/store_test.go
package tokenstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_EmptyOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	_, ok := store.Get()
	assert.False(t, ok, "a fresh store should hold no pair")
}

func TestFileStore_SetPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	pair := Pair{AccessToken: "access-1", RefreshToken: "refresh-1"}
	require.NoError(t, store.Set(pair))

	got, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, pair, got)

	// Simulate a process restart.
	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	got, ok = reopened.Get()
	require.True(t, ok)
	assert.Equal(t, pair, got)
}

func TestFileStore_SetReplacesBothTokens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Set(Pair{AccessToken: "a1", RefreshToken: "r1"}))
	require.NoError(t, store.Set(Pair{AccessToken: "a2", RefreshToken: "r2"}))

	got, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, "a2", got.AccessToken)
	assert.Equal(t, "r2", got.RefreshToken)
}

func TestFileStore_ClearRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Set(Pair{AccessToken: "a", RefreshToken: "r"}))
	require.NoError(t, store.Clear())

	_, ok := store.Get()
	assert.False(t, ok)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "token file should be removed")

	// Clearing an already empty store is fine.
	require.NoError(t, store.Clear())
}

func TestFileStore_CorruptFileStartsAnonymous(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store, err := NewFileStore(path)
	require.NoError(t, err)
	_, ok := store.Get()
	assert.False(t, ok)
}

func TestFileStore_FileModeIsPrivate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(Pair{AccessToken: "a", RefreshToken: "r"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()

	_, ok := store.Get()
	assert.False(t, ok)

	require.NoError(t, store.Set(Pair{AccessToken: "a", RefreshToken: "r"}))
	got, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, "a", got.AccessToken)

	require.NoError(t, store.Clear())
	_, ok = store.Get()
	assert.False(t, ok)
}

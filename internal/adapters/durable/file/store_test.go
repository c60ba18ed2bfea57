package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRejectsInvalidKeys(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	testCases := []struct {
		name    string
		key     string
		wantErr string
	}{
		{name: "empty", key: "", wantErr: "state key is empty"},
		{name: "whitespace", key: "   ", wantErr: "state key is empty"},
		{name: "absolute", key: "/absolute/path", wantErr: "invalid state key"},
		{name: "traversal", key: "../escape", wantErr: "invalid state key"},
		{name: "nested", key: "a/b", wantErr: "invalid state key"},
		{name: "hidden", key: ".entry-x", wantErr: "invalid state key"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := store.Save(context.Background(), tc.key, "value")
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestStoreSaveLoadRoundTripAndPermissions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := NewStore(root)

	require.NoError(t, store.Save(context.Background(), "settings", "version = 1\n"))

	got, found, err := store.Load(context.Background(), "settings")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "version = 1\n", got)

	info, err := os.Stat(filepath.Join(root, "settings.entry"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(entryFileMod), info.Mode().Perm())
}

func TestStoreSaveOverwritesWithoutLeavingTempFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := NewStore(root)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "pois", "first"))
	require.NoError(t, store.Save(ctx, "pois", "second"))

	got, found, err := store.Load(ctx, "pois")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "second", got)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "pois.entry", entries[0].Name())
}

func TestStoreLoadMissingKeyReportsNotFound(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())

	_, found, err := store.Load(context.Background(), "pois")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStoreKeysListsSavedEntries(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "state")
	store := NewStore(root)
	ctx := context.Background()

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	require.NoError(t, store.Save(ctx, "settings", "a"))
	require.NoError(t, store.Save(ctx, "pois", "b"))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0o600))

	keys, err = store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"pois", "settings"}, keys)
}

func TestStoreDeleteRemovesOneEntry(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "settings", "a"))
	require.NoError(t, store.Save(ctx, "pois", "b"))
	require.NoError(t, store.Delete(ctx, "settings"))
	require.NoError(t, store.Delete(ctx, "settings"))

	_, found, err := store.Load(ctx, "settings")
	require.NoError(t, err)
	assert.False(t, found)

	got, found, err := store.Load(ctx, "pois")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "b", got)
}

func TestStoreClearThenLoadAndKeys(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "state")
	store := NewStore(root)
	ctx := context.Background()

	values := map[string]string{"settings": "radius = 1500\n", "pois": "[]"}
	for key, value := range values {
		require.NoError(t, store.Save(ctx, key, value))
	}
	for key, value := range values {
		got, found, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, value, got)
	}

	require.NoError(t, store.Clear(ctx))

	for key := range values {
		_, found, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.False(t, found)
	}
	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	require.NoError(t, store.Clear(ctx))

	require.NoError(t, store.Save(ctx, "settings", "again"))
	got, found, err := store.Load(ctx, "settings")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "again", got)
}

func TestStoreHonorsCanceledContext(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, store.Save(ctx, "settings", "a"), context.Canceled)
	_, _, err := store.Load(ctx, "settings")
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, store.Delete(ctx, "settings"), context.Canceled)
	_, err = store.Keys(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

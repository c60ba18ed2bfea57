package toml

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, path string) *Store {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	config := viper.New()
	config.Set(StorePathKey, path)
	store, err := NewStore(config)
	require.NoError(t, err)

	return store
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")
	store := newTestStore(t, path)
	ctx := context.Background()

	settings := "version = 1\nsearch_radius_meters = 1000.0\n"
	require.NoError(t, store.Save(ctx, "settings", settings))
	require.NoError(t, store.Save(ctx, "pois", "version = 1\n"))

	value, found, err := store.Load(ctx, "settings")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, settings, value)

	reopened, err := NewStoreAt(path)
	require.NoError(t, err)
	value, found, err = reopened.Load(ctx, "pois")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "version = 1\n", value)
}

func TestStoreMissingFileReportsNotFound(t *testing.T) {
	store := newTestStore(t, filepath.Join(t.TempDir(), "missing", "state.toml"))

	value, found, err := store.Load(context.Background(), "settings")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, value)
}

func TestStoreClearRemovesEverything(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")
	store := newTestStore(t, path)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "settings", "a"))
	require.NoError(t, store.Clear(ctx))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	_, found, err := store.Load(ctx, "settings")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Clear(ctx))
}

func TestStoreSaveEnforcesPermissionsAndVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.toml")
	store := newTestStore(t, path)

	require.NoError(t, store.Save(context.Background(), "settings", "a"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
}

func TestStoreMalformedTOMLReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = ["), 0o600))
	store := newTestStore(t, path)

	_, _, err := store.Load(context.Background(), "settings")
	require.Error(t, err)
	assert.ErrorContains(t, err, "decode state file")
}

func TestStoreFutureSchemaVersionReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = 99\n"), 0o600))
	store := newTestStore(t, path)

	_, _, err := store.Load(context.Background(), "settings")
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported state schema version 99")
}

func TestStoreCanceledContextReturnsContextError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")
	store := newTestStore(t, path)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Save(ctx, "settings", "a")
	require.ErrorIs(t, err, context.Canceled)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestStoreConcurrentSavesAcrossInstancesPreserveAllKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")
	storeA, err := NewStoreAt(path)
	require.NoError(t, err)
	storeB, err := NewStoreAt(path)
	require.NoError(t, err)

	const perStoreWrites = 50
	start := make(chan struct{})
	errCh := make(chan error, perStoreWrites*2)
	var wg sync.WaitGroup
	wg.Add(2)

	write := func(store *Store, prefix string) {
		defer wg.Done()
		<-start
		for i := 0; i < perStoreWrites; i++ {
			errCh <- store.Save(context.Background(), prefix+strconv.Itoa(i), prefix)
		}
	}
	go write(storeA, "a-")
	go write(storeB, "b-")

	close(start)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	for i := 0; i < perStoreWrites; i++ {
		_, found, err := storeA.Load(context.Background(), "b-"+strconv.Itoa(i))
		require.NoError(t, err)
		assert.True(t, found)
	}
}

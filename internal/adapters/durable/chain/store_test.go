package chain

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	filestore "github.com/bnema/geowhisper/internal/adapters/durable/file"
	portmocks "github.com/bnema/geowhisper/internal/ports/mocks"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStoreLoadUsesPrimaryWhenFallbackMissesTheKey(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockDurableStore(t)
	fallback := portmocks.NewMockDurableStore(t)
	store := NewStore(primary, fallback)

	fallback.EXPECT().Load(mock.Anything, "settings").Return("", false, nil).Once()
	primary.EXPECT().Load(mock.Anything, "settings").Return("from-toml", true, nil).Once()

	value, found, err := store.Load(context.Background(), "settings")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "from-toml", value)
}

func TestStoreLoadPrefersFallbackEntry(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockDurableStore(t)
	fallback := portmocks.NewMockDurableStore(t)
	store := NewStore(primary, fallback)

	fallback.EXPECT().Load(mock.Anything, "settings").Return("from-file", true, nil).Once()

	value, found, err := store.Load(context.Background(), "settings")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "from-file", value)
}

func TestStoreLoadIgnoresBrokenPrimaryWhenFallbackIsEmpty(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockDurableStore(t)
	fallback := portmocks.NewMockDurableStore(t)
	store := NewStore(primary, fallback)

	fallback.EXPECT().Load(mock.Anything, "pois").Return("", false, nil).Once()
	primary.EXPECT().Load(mock.Anything, "pois").Return("", false, errors.New("decode state file")).Once()

	_, found, err := store.Load(context.Background(), "pois")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStoreLoadReportsFallbackFailureWhenPrimaryMissesTheKey(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockDurableStore(t)
	fallback := portmocks.NewMockDurableStore(t)
	store := NewStore(primary, fallback)

	fallback.EXPECT().Load(mock.Anything, "pois").Return("", false, errors.New("permission denied")).Once()
	primary.EXPECT().Load(mock.Anything, "pois").Return("", false, nil).Once()

	_, found, err := store.Load(context.Background(), "pois")
	require.Error(t, err)
	assert.False(t, found)
	assert.ErrorContains(t, err, "fallback backend load failed")
}

func TestStoreLoadReturnsNewerValueSavedToFallback(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	primary := portmocks.NewMockDurableStore(t)
	fallback := filestore.NewStore(t.TempDir())
	store := NewStore(primary, fallback)

	primary.EXPECT().Save(mock.Anything, "settings", "v2").Return(errors.New("read-only file system")).Once()
	require.NoError(t, store.Save(ctx, "settings", "v2"))

	value, found, err := store.Load(ctx, "settings")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v2", value)

	primary.EXPECT().Save(mock.Anything, "settings", "v3").Return(nil).Once()
	require.NoError(t, store.Save(ctx, "settings", "v3"))

	_, found, err = fallback.Load(ctx, "settings")
	require.NoError(t, err)
	assert.False(t, found)

	primary.EXPECT().Load(mock.Anything, "settings").Return("v3", true, nil).Once()
	value, found, err = store.Load(ctx, "settings")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v3", value)
}

func TestStoreSaveReturnsCombinedErrorWhenBothBackendsFail(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockDurableStore(t)
	fallback := portmocks.NewMockDurableStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Save(mock.Anything, "settings", "v").Return(errors.New("toml failed")).Once()
	fallback.EXPECT().Save(mock.Anything, "settings", "v").Return(errors.New("file failed")).Once()

	err := store.Save(context.Background(), "settings", "v")
	require.Error(t, err)
	assert.ErrorContains(t, err, "primary backend")
	assert.ErrorContains(t, err, "fallback backend")
	assert.ErrorContains(t, err, "toml failed")
	assert.ErrorContains(t, err, "file failed")
}

func TestStoreSaveDoesNotFallBackOnContextCancellation(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockDurableStore(t)
	fallback := portmocks.NewMockDurableStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Save(mock.Anything, "settings", "v").Return(context.Canceled).Once()

	err := store.Save(context.Background(), "settings", "v")
	require.ErrorIs(t, err, context.Canceled)
}

func TestStoreClearClearsBothBackends(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockDurableStore(t)
	fallback := portmocks.NewMockDurableStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Clear(mock.Anything).Return(errors.New("locked")).Once()
	fallback.EXPECT().Clear(mock.Anything).Return(nil).Once()

	err := store.Clear(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "primary backend clear failed")
}

func TestNewStoreCheckedRejectsNilBackends(t *testing.T) {
	t.Parallel()

	_, err := NewStoreChecked(nil, filestore.NewStore(t.TempDir()))
	require.ErrorIs(t, err, errNilPrimaryStore)

	_, err = NewStoreChecked(filestore.NewStore(t.TempDir()), nil)
	require.ErrorIs(t, err, errNilFallbackStore)
}

func TestNewTOMLFirstWithFileFallbackRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	config := viper.New()
	config.Set("store.path", filepath.Join(dir, "state.toml"))

	store, err := NewTOMLFirstWithFileFallback(config, filepath.Join(dir, "fallback"))
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), "settings", "v"))
	value, found, err := store.Load(context.Background(), "settings")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", value)
}

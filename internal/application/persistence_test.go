package application

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	tomlstore "github.com/bnema/geowhisper/internal/adapters/durable/toml"
	"github.com/bnema/geowhisper/internal/domain"
	"github.com/bnema/geowhisper/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTOMLStore(t *testing.T) *tomlstore.Store {
	t.Helper()

	durable, err := tomlstore.NewStoreAt(filepath.Join(t.TempDir(), "state.toml"))
	require.NoError(t, err)
	return durable
}

func TestStorePersistsAcrossInstances(t *testing.T) {
	durable := newTOMLStore(t)
	ctx := context.Background()

	first := NewStore(durable, StoreOptions{Clock: fixedClock{now: testNow}})
	radius := 1500.0
	_, err := first.UpdateSettings(ctx, domain.SettingsUpdate{SearchRadiusMeters: &radius, Categories: []string{"natural"}})
	require.NoError(t, err)
	poi, err := first.AddManualPoi(ctx, PoiDraft{
		Name:       "Bench",
		Category:   "natural",
		Coordinate: domain.Coordinate{Latitude: 48.1, Longitude: 11.5},
		Address:    "Park 1",
	})
	require.NoError(t, err)
	require.NoError(t, first.ReplaceRemotePois(ctx, []domain.PointOfInterest{remotePoi("a", "A", 48.1, 11.5)}))

	second := NewStore(durable, StoreOptions{Clock: fixedClock{now: testNow}})
	require.NoError(t, second.Load(ctx))

	assert.Equal(t, first.Settings(), second.Settings())
	assert.Equal(t, []domain.PointOfInterest{poi}, second.ManualPois())
	assert.Empty(t, second.RemotePois())
}

func TestStoreLoadMissingKeysKeepsDefaults(t *testing.T) {
	store := NewStore(newTOMLStore(t), StoreOptions{})

	require.NoError(t, store.Load(context.Background()))
	assert.Equal(t, domain.DefaultSettings(), store.Settings())
	assert.Empty(t, store.AllPois())
}

func TestStoreLoadFillsLegacyFields(t *testing.T) {
	durable := newTOMLStore(t)
	ctx := context.Background()

	require.NoError(t, durable.Save(ctx, PoisKey, `
[[pois]]
id = "legacy-1"
name = "Old bench"
latitude = 48.1
longitude = 11.5
category = "unknown"
is_visible = true

[[pois]]
id = "remote-1"
name = "Stale remote"
latitude = 48.1
longitude = 11.5
category = "heritage"
is_visible = true
source = "remote"
remote_id = "r-1"
`))
	require.NoError(t, durable.Save(ctx, SettingsKey, "version = 1\nsearch_radius_meters = 800.0\n"))

	store := NewStore(durable, StoreOptions{Clock: fixedClock{now: testNow}})
	require.NoError(t, store.Load(ctx))

	manual := store.ManualPois()
	require.Len(t, manual, 1)
	assert.Equal(t, "legacy-1", manual[0].ID)
	assert.Equal(t, domain.PoiSourceManual, manual[0].Source)
	assert.Equal(t, testNow, manual[0].CreatedAt)

	settings := store.Settings()
	assert.Equal(t, 800.0, settings.SearchRadiusMeters)
	assert.Equal(t, float64(domain.DefaultFetchTriggerDistanceMeters), settings.FetchTriggerDistanceMeters)
	assert.Equal(t, domain.SupportedCategories, settings.Categories)
	assert.Equal(t, domain.MapTypeStandard, settings.MapType)
}

func TestStoreLoadRejectsFutureVersion(t *testing.T) {
	durable := newTOMLStore(t)
	require.NoError(t, durable.Save(context.Background(), SettingsKey, "version = 7\n"))

	store := NewStore(durable, StoreOptions{})
	err := store.Load(context.Background())

	var persistenceErr *domain.PersistenceError
	require.ErrorAs(t, err, &persistenceErr)
	assert.Equal(t, "decode", persistenceErr.Op)
	assert.Equal(t, SettingsKey, persistenceErr.Key)
	assert.ErrorContains(t, err, "unsupported settings document version 7")
}

func TestStoreSaveWrapsDurableFailure(t *testing.T) {
	durable := mocks.NewMockDurableStore(t)
	durable.EXPECT().Save(mockAnyContext(), SettingsKey, mock.Anything).Return(errors.New("read-only")).Once()

	store := NewStore(durable, StoreOptions{})
	err := store.Save(context.Background())

	var persistenceErr *domain.PersistenceError
	require.ErrorAs(t, err, &persistenceErr)
	assert.Equal(t, "save", persistenceErr.Op)
	assert.ErrorContains(t, err, "read-only")
}

func TestStoreSaveWithoutDurableStoreFails(t *testing.T) {
	err := newMemoryStore().Save(context.Background())
	require.ErrorIs(t, err, errNoDurableStore)
}

func TestStoreResetClearsDurableAndMemory(t *testing.T) {
	durable := newTOMLStore(t)
	ctx := context.Background()
	recorder := &hookRecorder{}

	store := NewStore(durable, StoreOptions{Clock: fixedClock{now: testNow}, Hooks: []MutationHook{recorder.hook}})
	_, err := store.AddManualPoi(ctx, PoiDraft{Name: "Bench", Coordinate: domain.Coordinate{Latitude: 1, Longitude: 1}})
	require.NoError(t, err)
	require.NoError(t, store.ReplaceRemotePois(ctx, []domain.PointOfInterest{remotePoi("a", "A", 1, 1)}))
	store.SetLastLocation(domain.NewLocation(1, 1, nil, testNow))
	recorded := len(recorder.snapshots)

	require.NoError(t, store.Reset(ctx))

	assert.Empty(t, store.AllPois())
	assert.Equal(t, domain.DefaultSettings(), store.Settings())
	_, ok := store.LastLocation()
	assert.True(t, ok)
	assert.Len(t, recorder.snapshots, recorded)

	_, found, err := durable.Load(ctx, PoisKey)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStoreResetFailureLeavesStateUntouched(t *testing.T) {
	durable := mocks.NewMockDurableStore(t)
	durable.EXPECT().Save(mockAnyContext(), mock.Anything, mock.Anything).Return(nil).Times(2)
	durable.EXPECT().Clear(mockAnyContext()).Return(errors.New("locked")).Once()

	store := NewStore(durable, StoreOptions{Clock: fixedClock{now: testNow}})
	_, err := store.AddManualPoi(context.Background(), PoiDraft{Name: "Bench", Coordinate: domain.Coordinate{Latitude: 1, Longitude: 1}})
	require.NoError(t, err)

	err = store.Reset(context.Background())
	var persistenceErr *domain.PersistenceError
	require.ErrorAs(t, err, &persistenceErr)
	assert.Equal(t, "clear", persistenceErr.Op)
	assert.Len(t, store.ManualPois(), 1)
}

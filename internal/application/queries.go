package application

import (
	"time"

	"github.com/bnema/geowhisper/internal/domain"
)

type SyncState string

const (
	SyncStateIdle       SyncState = "idle"
	SyncStateDebouncing SyncState = "debouncing"
	SyncStateFetching   SyncState = "fetching"
)

// EngineStatus is a point-in-time view of the sync engine.
type EngineStatus struct {
	State            SyncState
	LastLocation     *domain.Location
	FetchAnchor      *domain.Coordinate
	LastFetchAt      time.Time
	LastFetchCount   int
	LastError        error
	FetchCount       int
	PermissionDenied bool
}

type CategoryCount struct {
	Category string
	Total    int
	Visible  int
}

// StoreSnapshot is a copy of the store contents handed to mutation hooks.
type StoreSnapshot struct {
	Settings   domain.Settings
	ManualPois []domain.PointOfInterest
	RemotePois []domain.PointOfInterest
}

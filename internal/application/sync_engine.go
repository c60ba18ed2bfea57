package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bnema/geowhisper/internal/domain"
	"github.com/bnema/geowhisper/internal/ports"
)

const DefaultSyncDebounce = time.Second

type SyncOptions struct {
	Debounce  time.Duration
	Scheduler ports.Scheduler
	Clock     ports.Clock
	Logger    *slog.Logger
}

// SyncEngine decides when the remote POI set has to be refreshed for the
// observer's position and runs at most one fetch at a time.
type SyncEngine struct {
	store     *Store
	places    ports.PlacesClient
	debounce  time.Duration
	scheduler ports.Scheduler
	clock     ports.Clock
	logger    *slog.Logger

	mu               sync.Mutex
	lastLocation     *domain.Location
	anchor           *domain.Coordinate
	timer            ports.Timer
	generation       uint64
	fetching         bool
	idle             chan struct{}
	lastFetchAt      time.Time
	lastFetchCount   int
	lastErr          error
	fetchCount       int
	permissionDenied bool
}

func NewSyncEngine(store *Store, places ports.PlacesClient, opts SyncOptions) *SyncEngine {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultSyncDebounce
	}
	if opts.Scheduler == nil {
		opts.Scheduler = ports.SystemScheduler{}
	}
	if opts.Clock == nil {
		opts.Clock = ports.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	idle := make(chan struct{})
	close(idle)

	return &SyncEngine{
		store:     store,
		places:    places,
		debounce:  opts.Debounce,
		scheduler: opts.Scheduler,
		clock:     opts.Clock,
		logger:    opts.Logger,
		idle:      idle,
	}
}

// Observe records a new position and arms the debounce timer once the
// observer has moved far enough from where the last fetch started.
func (e *SyncEngine) Observe(ctx context.Context, location domain.Location) {
	e.store.SetLastLocation(location)
	trigger := e.store.Settings().FetchTriggerDistanceMeters

	e.mu.Lock()
	defer e.mu.Unlock()

	previous := e.lastLocation
	e.lastLocation = &location
	if !e.dueLocked(previous, location.Coordinate, trigger) {
		return
	}

	e.stopTimerLocked()
	generation := e.generation
	fetchCtx := context.WithoutCancel(ctx)
	e.timer = e.scheduler.AfterFunc(e.debounce, func() {
		e.fire(fetchCtx, generation)
	})
}

// dueLocked decides whether an observation (re)arms the debounce timer. A
// pending timer, or a missing fetch anchor, is only re-armed by a jump of at
// least trigger from the previous sample; the pending fetch already reads the
// latest location, so nearby samples must not push it back.
func (e *SyncEngine) dueLocked(previous *domain.Location, current domain.Coordinate, trigger float64) bool {
	if previous == nil {
		return true
	}

	if e.timer != nil || e.anchor == nil {
		step := domain.DistanceMeters(previous.Coordinate, current)
		if step < trigger {
			return false
		}
		e.logger.Debug("fetch due", "step_meters", step, "trigger_meters", trigger)
		return true
	}

	moved := domain.DistanceMeters(*e.anchor, current)
	if moved < trigger {
		return false
	}
	e.logger.Debug("fetch due", "moved_meters", moved, "trigger_meters", trigger)
	return true
}

// RefreshNow fetches for the last observed position right away, dropping any
// pending debounce. It reports false without doing anything while a fetch is
// already running.
func (e *SyncEngine) RefreshNow(ctx context.Context) (bool, error) {
	e.mu.Lock()
	if e.fetching {
		e.mu.Unlock()
		return false, nil
	}
	if e.lastLocation == nil {
		e.mu.Unlock()
		return false, domain.ErrNoLocation
	}

	e.stopTimerLocked()
	location := *e.lastLocation
	e.beginFetchLocked(location)
	e.mu.Unlock()

	return true, e.fetch(context.WithoutCancel(ctx), location)
}

// Run feeds every observation of source into the engine until the stream
// closes or ctx is done. When the stream ends, a pending fetch runs right away
// instead of waiting out the debounce; when ctx is done it is dropped. Either
// way the running fetch is awaited before Run returns.
func (e *SyncEngine) Run(ctx context.Context, source ports.LocationSource) error {
	observations, err := source.Watch(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrPermissionDenied) {
			e.mu.Lock()
			e.permissionDenied = true
			e.mu.Unlock()
			e.logger.Warn("location permission denied")
		}
		return fmt.Errorf("watch location: %w", err)
	}

	defer e.Wait()

	for {
		select {
		case <-ctx.Done():
			e.Stop()
			return ctx.Err()
		case location, ok := <-observations:
			if !ok {
				e.flush(ctx)
				return nil
			}
			e.Observe(ctx, location)
		}
	}
}

// Stop drops the pending debounce timer. A running fetch is not interrupted.
func (e *SyncEngine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopTimerLocked()
}

// Wait blocks until no fetch is in flight.
func (e *SyncEngine) Wait() {
	e.mu.Lock()
	idle := e.idle
	e.mu.Unlock()

	<-idle
}

func (e *SyncEngine) Status() EngineStatus {
	e.mu.Lock()
	defer e.mu.Unlock()

	status := EngineStatus{
		State:            SyncStateIdle,
		LastFetchAt:      e.lastFetchAt,
		LastFetchCount:   e.lastFetchCount,
		LastError:        e.lastErr,
		FetchCount:       e.fetchCount,
		PermissionDenied: e.permissionDenied,
	}
	switch {
	case e.fetching:
		status.State = SyncStateFetching
	case e.timer != nil:
		status.State = SyncStateDebouncing
	}
	if e.lastLocation != nil {
		location := *e.lastLocation
		status.LastLocation = &location
	}
	if e.anchor != nil {
		anchor := *e.anchor
		status.FetchAnchor = &anchor
	}

	return status
}

func (e *SyncEngine) fire(ctx context.Context, generation uint64) {
	e.mu.Lock()
	if generation != e.generation {
		e.mu.Unlock()
		return
	}
	e.timer = nil
	if e.fetching {
		e.mu.Unlock()
		e.logger.Debug("fetch skipped, another fetch is running")
		return
	}

	location := *e.lastLocation
	e.beginFetchLocked(location)
	e.mu.Unlock()

	_ = e.fetch(ctx, location)
}

// flush runs the pending fetch now. It is a no-op without a pending timer.
func (e *SyncEngine) flush(ctx context.Context) {
	e.mu.Lock()
	if e.timer == nil {
		e.mu.Unlock()
		return
	}
	e.stopTimerLocked()
	if e.fetching {
		e.mu.Unlock()
		return
	}

	location := *e.lastLocation
	e.beginFetchLocked(location)
	e.mu.Unlock()

	_ = e.fetch(context.WithoutCancel(ctx), location)
}

func (e *SyncEngine) beginFetchLocked(location domain.Location) {
	anchor := location.Coordinate
	e.anchor = &anchor
	e.fetching = true
	e.idle = make(chan struct{})
}

func (e *SyncEngine) fetch(ctx context.Context, location domain.Location) error {
	settings := e.store.Settings()
	e.logger.Info("fetching places",
		"location", location.Coordinate.String(),
		"radius_meters", settings.SearchRadiusMeters,
		"categories", len(settings.Categories),
	)

	pois, err := e.places.FetchNearby(ctx, location.Coordinate, settings.SearchRadiusMeters, settings.Categories)
	if err == nil {
		err = e.store.ReplaceRemotePois(ctx, pois)
	}
	if err != nil {
		err = fmt.Errorf("refresh places: %w", err)
		e.logger.Error("fetch failed, keeping previous places", "err", err)
	}
	count := len(e.store.RemotePois())

	e.mu.Lock()
	defer e.mu.Unlock()

	e.fetching = false
	e.fetchCount++
	e.lastFetchAt = e.clock.Now()
	e.lastErr = err
	if err == nil {
		e.lastFetchCount = count
		e.logger.Info("places refreshed", "count", count)
	}
	close(e.idle)

	return err
}

func (e *SyncEngine) stopTimerLocked() {
	e.generation++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

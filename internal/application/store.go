package application

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/bnema/geowhisper/internal/domain"
	"github.com/bnema/geowhisper/internal/ports"
)

// MutationHook runs synchronously after every store mutation with a copy of
// the state as it is once the mutation has been applied.
type MutationHook func(ctx context.Context, snapshot StoreSnapshot)

type StoreOptions struct {
	Clock  ports.Clock
	Logger *slog.Logger
	Hooks  []MutationHook
}

// Store owns the settings, the manual and remote POI sets and the last known
// location. Mutations are visible to the next read as soon as they return.
type Store struct {
	durable ports.DurableStore
	clock   ports.Clock
	logger  *slog.Logger
	hooks   []MutationHook

	mu           sync.RWMutex
	settings     domain.Settings
	manual       []domain.PointOfInterest
	remote       []domain.PointOfInterest
	lastLocation *domain.Location

	hookMu sync.Mutex
}

func NewStore(durable ports.DurableStore, opts StoreOptions) *Store {
	if opts.Clock == nil {
		opts.Clock = ports.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Store{
		durable:  durable,
		clock:    opts.Clock,
		logger:   opts.Logger,
		settings: domain.DefaultSettings(),
	}
	if durable != nil {
		s.hooks = append(s.hooks, s.autoSave)
	}
	s.hooks = append(s.hooks, opts.Hooks...)

	return s
}

func (s *Store) AddManualPoi(ctx context.Context, draft PoiDraft) (domain.PointOfInterest, error) {
	category := strings.TrimSpace(draft.Category)
	if category == "" {
		category = domain.CategoryUnknown
	}

	poi := domain.PointOfInterest{
		ID:         domain.NewManualPoiID(),
		Name:       strings.TrimSpace(draft.Name),
		Coordinate: draft.Coordinate,
		Category:   category,
		IsVisible:  !draft.Hidden,
		CreatedAt:  s.clock.Now(),
		Source:     domain.PoiSourceManual,
		Address:    strings.TrimSpace(draft.Address),
	}
	if err := poi.Validate(); err != nil {
		return domain.PointOfInterest{}, fmt.Errorf("validate poi: %w", err)
	}

	s.mutate(ctx, func() bool {
		s.manual = append(s.manual, poi)
		return true
	})

	return poi, nil
}

func (s *Store) RemoveManualPoi(ctx context.Context, id string) error {
	var err error
	s.mutate(ctx, func() bool {
		index := indexByID(s.manual, id)
		if index < 0 {
			if indexByID(s.remote, id) >= 0 {
				err = fmt.Errorf("remove poi %q: %w", id, domain.ErrNotManualPoi)
				return false
			}
			err = fmt.Errorf("remove poi %q: %w", id, domain.ErrPoiNotFound)
			return false
		}
		s.manual = slices.Delete(s.manual, index, index+1)
		return true
	})

	return err
}

// UpdatePoi changes a manual or a remote POI in place. Changes to a remote POI
// last until the next fetch replaces the remote set.
func (s *Store) UpdatePoi(ctx context.Context, id string, update PoiUpdate) (domain.PointOfInterest, error) {
	var updated domain.PointOfInterest
	var err error
	s.mutate(ctx, func() bool {
		list, index := s.locateLocked(id)
		if index < 0 {
			err = fmt.Errorf("update poi %q: %w", id, domain.ErrPoiNotFound)
			return false
		}

		candidate := update.apply((*list)[index])
		if validateErr := candidate.Validate(); validateErr != nil {
			err = fmt.Errorf("validate poi: %w", validateErr)
			return false
		}
		(*list)[index] = candidate
		updated = candidate
		return true
	})

	return updated, err
}

func (s *Store) SetVisibility(ctx context.Context, id string, visible bool) error {
	_, err := s.UpdatePoi(ctx, id, PoiUpdate{IsVisible: &visible})
	return err
}

func (s *Store) ToggleVisibility(ctx context.Context, id string) (bool, error) {
	var visible bool
	var err error
	s.mutate(ctx, func() bool {
		list, index := s.locateLocked(id)
		if index < 0 {
			err = fmt.Errorf("toggle poi %q: %w", id, domain.ErrPoiNotFound)
			return false
		}
		(*list)[index].IsVisible = !(*list)[index].IsVisible
		visible = (*list)[index].IsVisible
		return true
	})

	return visible, err
}

// ReplaceRemotePois discards the previous remote set and installs pois in its
// place. Entries sharing a remote id collapse to the first one.
func (s *Store) ReplaceRemotePois(ctx context.Context, pois []domain.PointOfInterest) error {
	for _, poi := range pois {
		if poi.Source != domain.PoiSourceRemote {
			return fmt.Errorf("replace remote pois: %w: %q", domain.ErrInvalidRemotePois, poi.ID)
		}
		if err := poi.Validate(); err != nil {
			return fmt.Errorf("replace remote pois: %w", err)
		}
	}

	next := domain.DedupeByRemoteID(pois)
	s.mutate(ctx, func() bool {
		s.remote = next
		return true
	})

	return nil
}

func (s *Store) UpdateSettings(ctx context.Context, update domain.SettingsUpdate) (domain.Settings, error) {
	var next domain.Settings
	var err error
	s.mutate(ctx, func() bool {
		candidate := update.Apply(s.settings)
		if validateErr := candidate.Validate(); validateErr != nil {
			err = fmt.Errorf("validate settings: %w", validateErr)
			return false
		}
		s.settings = candidate
		next = candidate.Clone()
		return true
	})

	return next, err
}

// SetLastLocation records the most recent observation. It is process state
// and does not trigger the mutation hooks.
func (s *Store) SetLastLocation(location domain.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastLocation = &location
}

func (s *Store) LastLocation() (domain.Location, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.lastLocation == nil {
		return domain.Location{}, false
	}

	return *s.lastLocation, true
}

func (s *Store) Settings() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.settings.Clone()
}

// AllPois returns the manual POIs followed by the remote ones, each in
// insertion order.
func (s *Store) AllPois() []domain.PointOfInterest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]domain.PointOfInterest, 0, len(s.manual)+len(s.remote))
	all = append(all, s.manual...)
	all = append(all, s.remote...)
	return all
}

func (s *Store) ManualPois() []domain.PointOfInterest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.manual)
}

func (s *Store) RemotePois() []domain.PointOfInterest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.remote)
}

func (s *Store) Poi(id string) (domain.PointOfInterest, error) {
	for _, poi := range s.AllPois() {
		if poi.ID == id {
			return poi, nil
		}
	}

	return domain.PointOfInterest{}, domain.ErrPoiNotFound
}

func (s *Store) VisiblePois() []domain.PointOfInterest {
	return filterPois(s.AllPois(), func(poi domain.PointOfInterest) bool {
		return poi.IsVisible
	})
}

func (s *Store) PoisByCategory(category string) []domain.PointOfInterest {
	return filterPois(s.AllPois(), func(poi domain.PointOfInterest) bool {
		return poi.Category == category
	})
}

// SearchByName matches visible POIs whose name contains query, ignoring case.
func (s *Store) SearchByName(query string) []domain.PointOfInterest {
	needle := strings.ToLower(strings.TrimSpace(query))
	return filterPois(s.VisiblePois(), func(poi domain.PointOfInterest) bool {
		return strings.Contains(strings.ToLower(poi.Name), needle)
	})
}

// WithinRadius returns visible POIs at most radiusMeters from center. A
// non-positive radius falls back to the configured search radius.
func (s *Store) WithinRadius(center domain.Coordinate, radiusMeters float64) []domain.PointOfInterest {
	if radiusMeters <= 0 {
		radiusMeters = s.Settings().SearchRadiusMeters
	}

	return filterPois(s.VisiblePois(), func(poi domain.PointOfInterest) bool {
		return domain.DistanceMeters(center, poi.Coordinate) <= radiusMeters
	})
}

func (s *Store) CategoryCounts() []CategoryCount {
	byCategory := map[string]*CategoryCount{}
	for _, poi := range s.AllPois() {
		count, ok := byCategory[poi.Category]
		if !ok {
			count = &CategoryCount{Category: poi.Category}
			byCategory[poi.Category] = count
		}
		count.Total++
		if poi.IsVisible {
			count.Visible++
		}
	}

	counts := make([]CategoryCount, 0, len(byCategory))
	for _, count := range byCategory {
		counts = append(counts, *count)
	}
	sort.Slice(counts, func(i, j int) bool {
		return counts[i].Category < counts[j].Category
	})

	return counts
}

func (s *Store) Snapshot() StoreSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() StoreSnapshot {
	return StoreSnapshot{
		Settings:   s.settings.Clone(),
		ManualPois: slices.Clone(s.manual),
		RemotePois: slices.Clone(s.remote),
	}
}

// mutate applies change under the write lock and, when change reports that
// it modified the state, runs the hooks with the result. hookMu keeps hook
// runs ordered so a slower save never overwrites a newer one.
func (s *Store) mutate(ctx context.Context, change func() bool) {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()

	s.mu.Lock()
	changed := change()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if !changed {
		return
	}

	for _, hook := range s.hooks {
		hook(ctx, snapshot)
	}
}

func (s *Store) locateLocked(id string) (*[]domain.PointOfInterest, int) {
	if index := indexByID(s.manual, id); index >= 0 {
		return &s.manual, index
	}
	if index := indexByID(s.remote, id); index >= 0 {
		return &s.remote, index
	}

	return nil, -1
}

func indexByID(pois []domain.PointOfInterest, id string) int {
	return slices.IndexFunc(pois, func(poi domain.PointOfInterest) bool {
		return poi.ID == id
	})
}

func filterPois(pois []domain.PointOfInterest, keep func(domain.PointOfInterest) bool) []domain.PointOfInterest {
	filtered := make([]domain.PointOfInterest, 0, len(pois))
	for _, poi := range pois {
		if keep(poi) {
			filtered = append(filtered, poi)
		}
	}

	return filtered
}

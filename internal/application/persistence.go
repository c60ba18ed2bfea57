package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/geowhisper/internal/domain"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	SettingsKey = "settings"
	PoisKey     = "pois"

	currentDocumentVersion = 1
)

var errNoDurableStore = errors.New("no durable store configured")

type settingsDocument struct {
	Version                    int      `toml:"version"`
	SearchRadiusMeters         float64  `toml:"search_radius_meters"`
	FetchTriggerDistanceMeters float64  `toml:"fetch_trigger_distance_meters"`
	Categories                 []string `toml:"categories"`
	MapType                    string   `toml:"map_type"`
	AutoSave                   *bool    `toml:"auto_save"`
	EnableNotifications        *bool    `toml:"enable_notifications"`
}

type poisDocument struct {
	Version int         `toml:"version"`
	Pois    []poiSchema `toml:"pois"`
}

type poiSchema struct {
	ID        string  `toml:"id"`
	Name      string  `toml:"name"`
	Latitude  float64 `toml:"latitude"`
	Longitude float64 `toml:"longitude"`
	Category  string  `toml:"category"`
	IsVisible bool    `toml:"is_visible"`
	CreatedAt string  `toml:"created_at"`
	Source    string  `toml:"source"`
	Address   string  `toml:"address,omitempty"`
	RemoteID  string  `toml:"remote_id,omitempty"`
}

func validateDocumentVersion(kind string, version int) error {
	if version > currentDocumentVersion {
		return fmt.Errorf("unsupported %s document version %d (current %d)", kind, version, currentDocumentVersion)
	}

	return nil
}

// Load replaces the in-memory settings and manual POIs with what the durable
// store holds. Missing keys keep the defaults.
func (s *Store) Load(ctx context.Context) error {
	if s.durable == nil {
		return nil
	}

	settings := domain.DefaultSettings()
	raw, found, err := s.durable.Load(ctx, SettingsKey)
	if err != nil {
		return &domain.PersistenceError{Op: "load", Key: SettingsKey, Err: err}
	}
	if found {
		settings, err = decodeSettings(raw)
		if err != nil {
			return &domain.PersistenceError{Op: "decode", Key: SettingsKey, Err: err}
		}
	}

	var manual []domain.PointOfInterest
	raw, found, err = s.durable.Load(ctx, PoisKey)
	if err != nil {
		return &domain.PersistenceError{Op: "load", Key: PoisKey, Err: err}
	}
	if found {
		manual, err = decodePois(raw, s.clock.Now())
		if err != nil {
			return &domain.PersistenceError{Op: "decode", Key: PoisKey, Err: err}
		}
	}

	s.mu.Lock()
	s.settings = settings
	s.manual = manual
	s.mu.Unlock()

	s.logger.Debug("state loaded", "manual_pois", len(manual))
	return nil
}

// Save writes the settings and the manual POIs regardless of AutoSave.
func (s *Store) Save(ctx context.Context) error {
	return s.save(ctx, s.Snapshot())
}

// Reset clears the durable store and returns the in-memory state to its
// defaults. The last known location is kept. When clearing fails nothing is
// reset.
func (s *Store) Reset(ctx context.Context) error {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()

	if s.durable != nil {
		if err := s.durable.Clear(ctx); err != nil {
			return &domain.PersistenceError{Op: "clear", Err: err}
		}
	}

	s.mu.Lock()
	s.settings = domain.DefaultSettings()
	s.manual = nil
	s.remote = nil
	s.mu.Unlock()

	return nil
}

func (s *Store) autoSave(ctx context.Context, snapshot StoreSnapshot) {
	if !snapshot.Settings.AutoSave {
		return
	}

	if err := s.save(ctx, snapshot); err != nil {
		s.logger.Error("auto-save failed", "err", err)
	}
}

func (s *Store) save(ctx context.Context, snapshot StoreSnapshot) error {
	if s.durable == nil {
		return &domain.PersistenceError{Op: "save", Err: errNoDurableStore}
	}

	settings, err := encodeSettings(snapshot.Settings)
	if err != nil {
		return &domain.PersistenceError{Op: "encode", Key: SettingsKey, Err: err}
	}
	pois, err := encodePois(snapshot.ManualPois)
	if err != nil {
		return &domain.PersistenceError{Op: "encode", Key: PoisKey, Err: err}
	}

	if err := s.durable.Save(ctx, SettingsKey, settings); err != nil {
		return &domain.PersistenceError{Op: "save", Key: SettingsKey, Err: err}
	}
	if err := s.durable.Save(ctx, PoisKey, pois); err != nil {
		return &domain.PersistenceError{Op: "save", Key: PoisKey, Err: err}
	}

	return nil
}

func encodeSettings(settings domain.Settings) (string, error) {
	data, err := toml.Marshal(settingsDocument{
		Version:                    currentDocumentVersion,
		SearchRadiusMeters:         settings.SearchRadiusMeters,
		FetchTriggerDistanceMeters: settings.FetchTriggerDistanceMeters,
		Categories:                 settings.Categories,
		MapType:                    string(settings.MapType),
		AutoSave:                   &settings.AutoSave,
		EnableNotifications:        &settings.EnableNotifications,
	})
	if err != nil {
		return "", err
	}

	return string(data), nil
}

func decodeSettings(raw string) (domain.Settings, error) {
	var doc settingsDocument
	if err := toml.Unmarshal([]byte(raw), &doc); err != nil {
		return domain.Settings{}, err
	}
	if err := validateDocumentVersion("settings", doc.Version); err != nil {
		return domain.Settings{}, err
	}

	defaults := domain.DefaultSettings()
	settings := domain.Settings{
		SearchRadiusMeters:         doc.SearchRadiusMeters,
		FetchTriggerDistanceMeters: doc.FetchTriggerDistanceMeters,
		Categories:                 domain.NormalizeCategories(doc.Categories),
		MapType:                    domain.MapType(doc.MapType),
		AutoSave:                   defaults.AutoSave,
		EnableNotifications:        defaults.EnableNotifications,
	}
	if settings.SearchRadiusMeters == 0 {
		settings.SearchRadiusMeters = defaults.SearchRadiusMeters
	}
	if settings.FetchTriggerDistanceMeters == 0 {
		settings.FetchTriggerDistanceMeters = defaults.FetchTriggerDistanceMeters
	}
	if doc.Categories == nil {
		settings.Categories = defaults.Categories
	}
	if settings.MapType == "" {
		settings.MapType = defaults.MapType
	}
	if doc.AutoSave != nil {
		settings.AutoSave = *doc.AutoSave
	}
	if doc.EnableNotifications != nil {
		settings.EnableNotifications = *doc.EnableNotifications
	}

	if err := settings.Validate(); err != nil {
		return domain.Settings{}, err
	}

	return settings, nil
}

func encodePois(pois []domain.PointOfInterest) (string, error) {
	doc := poisDocument{Version: currentDocumentVersion, Pois: make([]poiSchema, 0, len(pois))}
	for _, poi := range pois {
		doc.Pois = append(doc.Pois, toPoiSchema(poi))
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// decodePois returns the manual POIs of a stored document. Entries written
// before created_at existed get now.
func decodePois(raw string, now time.Time) ([]domain.PointOfInterest, error) {
	var doc poisDocument
	if err := toml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, err
	}
	if err := validateDocumentVersion("pois", doc.Version); err != nil {
		return nil, err
	}

	pois := make([]domain.PointOfInterest, 0, len(doc.Pois))
	for _, entry := range doc.Pois {
		poi := fromPoiSchema(entry)
		if poi.Source != domain.PoiSourceManual {
			continue
		}
		if poi.CreatedAt.IsZero() {
			poi.CreatedAt = now
		}
		if err := poi.Validate(); err != nil {
			return nil, fmt.Errorf("poi %q: %w", entry.ID, err)
		}
		pois = append(pois, poi)
	}

	return pois, nil
}

func toPoiSchema(poi domain.PointOfInterest) poiSchema {
	return poiSchema{
		ID:        poi.ID,
		Name:      poi.Name,
		Latitude:  poi.Coordinate.Latitude,
		Longitude: poi.Coordinate.Longitude,
		Category:  poi.Category,
		IsVisible: poi.IsVisible,
		CreatedAt: formatTime(poi.CreatedAt),
		Source:    string(poi.Source),
		Address:   poi.Address,
		RemoteID:  poi.RemoteID,
	}
}

func fromPoiSchema(entry poiSchema) domain.PointOfInterest {
	source := domain.PoiSource(entry.Source)
	if source == "" {
		source = domain.PoiSourceManual
	}

	return domain.PointOfInterest{
		ID:         entry.ID,
		Name:       entry.Name,
		Coordinate: domain.Coordinate{Latitude: entry.Latitude, Longitude: entry.Longitude},
		Category:   entry.Category,
		IsVisible:  entry.IsVisible,
		CreatedAt:  parseTime(entry.CreatedAt),
		Source:     source,
		Address:    entry.Address,
		RemoteID:   entry.RemoteID,
	}
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.Format(time.RFC3339Nano)
}

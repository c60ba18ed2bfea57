package domain

import (
	"fmt"
	"slices"
)

type MapType string

const (
	MapTypeStandard  MapType = "standard"
	MapTypeSatellite MapType = "satellite"
	MapTypeHybrid    MapType = "hybrid"
)

func (m MapType) Valid() bool {
	switch m {
	case MapTypeStandard, MapTypeSatellite, MapTypeHybrid:
		return true
	default:
		return false
	}
}

const (
	DefaultSearchRadiusMeters         = 1000
	DefaultFetchTriggerDistanceMeters = 500
)

type Settings struct {
	SearchRadiusMeters         float64
	FetchTriggerDistanceMeters float64
	Categories                 []string
	MapType                    MapType
	AutoSave                   bool
	EnableNotifications        bool
}

func DefaultSettings() Settings {
	return Settings{
		SearchRadiusMeters:         DefaultSearchRadiusMeters,
		FetchTriggerDistanceMeters: DefaultFetchTriggerDistanceMeters,
		Categories:                 slices.Clone(SupportedCategories),
		MapType:                    MapTypeStandard,
		AutoSave:                   true,
		EnableNotifications:        true,
	}
}

func (s Settings) Validate() error {
	if s.SearchRadiusMeters <= 0 {
		return fmt.Errorf("search radius must be positive, got %v", s.SearchRadiusMeters)
	}
	if s.FetchTriggerDistanceMeters <= 0 {
		return fmt.Errorf("fetch trigger distance must be positive, got %v", s.FetchTriggerDistanceMeters)
	}
	if !s.MapType.Valid() {
		return fmt.Errorf("unsupported map type %q", s.MapType)
	}

	return nil
}

// Clone returns a copy that shares no slice storage with s.
func (s Settings) Clone() Settings {
	s.Categories = slices.Clone(s.Categories)
	return s
}

// SettingsUpdate is a partial settings change; nil fields are left as they are.
type SettingsUpdate struct {
	SearchRadiusMeters         *float64
	FetchTriggerDistanceMeters *float64
	Categories                 []string
	MapType                    *MapType
	AutoSave                   *bool
	EnableNotifications        *bool
}

func (u SettingsUpdate) Apply(s Settings) Settings {
	next := s.Clone()
	if u.SearchRadiusMeters != nil {
		next.SearchRadiusMeters = *u.SearchRadiusMeters
	}
	if u.FetchTriggerDistanceMeters != nil {
		next.FetchTriggerDistanceMeters = *u.FetchTriggerDistanceMeters
	}
	if u.Categories != nil {
		next.Categories = NormalizeCategories(u.Categories)
	}
	if u.MapType != nil {
		next.MapType = *u.MapType
	}
	if u.AutoSave != nil {
		next.AutoSave = *u.AutoSave
	}
	if u.EnableNotifications != nil {
		next.EnableNotifications = *u.EnableNotifications
	}

	return next
}

package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type PoiSource string

const (
	PoiSourceManual PoiSource = "manual"
	PoiSourceRemote PoiSource = "remote"
)

func (s PoiSource) Valid() bool {
	switch s {
	case PoiSourceManual, PoiSourceRemote:
		return true
	default:
		return false
	}
}

// remotePoiNamespace seeds the name-based UUIDs of remote POIs.
var remotePoiNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://api.geoapify.com/v2/places"))

type PointOfInterest struct {
	ID         string
	Name       string
	Coordinate Coordinate
	Category   string
	IsVisible  bool
	CreatedAt  time.Time
	Source     PoiSource
	Address    string
	RemoteID   string
}

func NewManualPoiID() string {
	return uuid.NewString()
}

// RemotePoiID derives a stable POI id from the remote place identifier, so the
// same place keeps its id across fetches.
func RemotePoiID(remoteID string) string {
	return uuid.NewSHA1(remotePoiNamespace, []byte(remoteID)).String()
}

func (p PointOfInterest) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !p.Source.Valid() {
		return fmt.Errorf("unsupported source %q", p.Source)
	}
	if p.Source == PoiSourceRemote && strings.TrimSpace(p.RemoteID) == "" {
		return fmt.Errorf("remote id is required for remote poi %q", p.ID)
	}
	if err := p.Coordinate.Validate(); err != nil {
		return err
	}

	return nil
}

// DedupeByRemoteID keeps the first POI for every remote id. POIs without a
// remote id are kept as they are.
func DedupeByRemoteID(pois []PointOfInterest) []PointOfInterest {
	unique := make([]PointOfInterest, 0, len(pois))
	seen := make(map[string]struct{}, len(pois))
	for _, poi := range pois {
		if poi.RemoteID != "" {
			if _, ok := seen[poi.RemoteID]; ok {
				continue
			}
			seen[poi.RemoteID] = struct{}{}
		}
		unique = append(unique, poi)
	}

	return unique
}

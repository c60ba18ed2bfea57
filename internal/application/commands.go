package application

import "github.com/bnema/geowhisper/internal/domain"

// PoiDraft is a user-created POI before the store assigns its id and
// creation time.
type PoiDraft struct {
	Name       string
	Coordinate domain.Coordinate
	Category   string
	Address    string
	Hidden     bool
}

// PoiUpdate is a partial POI change; nil fields are left as they are.
type PoiUpdate struct {
	Name       *string
	Coordinate *domain.Coordinate
	Category   *string
	Address    *string
	IsVisible  *bool
}

func (u PoiUpdate) apply(poi domain.PointOfInterest) domain.PointOfInterest {
	if u.Name != nil {
		poi.Name = *u.Name
	}
	if u.Coordinate != nil {
		poi.Coordinate = *u.Coordinate
	}
	if u.Category != nil {
		poi.Category = *u.Category
	}
	if u.Address != nil {
		poi.Address = *u.Address
	}
	if u.IsVisible != nil {
		poi.IsVisible = *u.IsVisible
	}

	return poi
}
